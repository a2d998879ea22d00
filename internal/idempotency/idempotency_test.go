package idempotency

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	m, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})

	return NewRedisStore(client, time.Minute), m
}

func TestRedisStore_ReserveCompleteReplay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec, "first reservation claims the key")

	_, err = s.Reserve(ctx, "k1")
	assert.ErrorIs(t, err, ErrInFlight)

	want := Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"id":"1"}`)}
	require.NoError(t, s.Complete(ctx, "k1", want))

	got, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestRedisStore_Release(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "k1"))

	rec, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec, "released key can be claimed again")
}

func TestRedisStore_KeysExpire(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, m.Exists("idempotency:task:k1"))
	assert.Equal(t, time.Minute, m.TTL("idempotency:task:k1"))

	m.FastForward(2 * time.Minute)

	rec, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, m := newTestStore(t)
	m.Close()

	_, err := s.Reserve(context.Background(), "k1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInFlight)
}
