// Package middleware contains the HTTP middleware used by the task API:
// request tracing, bearer authentication, rate limiting, Prometheus request
// metrics and Idempotency-Key handling for create requests.
package middleware
