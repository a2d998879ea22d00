// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests using it should carry the "integration" build tag and
// are skipped when DATABASE_URL is not set.
//
// A typical test opens the shared connection once and runs each case in a
// transaction that is rolled back afterwards:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		s := postgres.NewPostgresTaskStore(tx, nil)
//		// ...
//	})
package testdb
