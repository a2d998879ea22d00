package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/idempotency"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key for a create request.
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotentReplayHeader is set on responses replayed from a stored record.
	IdempotentReplayHeader = "Idempotent-Replayed"

	// MaxIdempotencyKeyLength bounds the accepted key size.
	MaxIdempotencyKeyLength = 255

	releaseTimeout = 2 * time.Second
)

// NewIdempotency returns middleware that replays the stored response when a
// request repeats an Idempotency-Key whose first request succeeded.
// Requests without the header pass through untouched. Keys are scoped to the
// authenticated subject when there is one.
func NewIdempotency(store idempotency.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > MaxIdempotencyKeyLength {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Idempotency-Key is too long")
				return
			}
			if subject, ok := shared.GetSubject(r.Context()); ok {
				key = scopedKey(subject, key)
			}

			ctx := r.Context()
			rec, err := store.Reserve(ctx, key)
			switch {
			case errors.Is(err, idempotency.ErrInFlight):
				shared.RespondWithError(w, r, http.StatusConflict, "A request with this Idempotency-Key is in progress")
				return
			case err != nil:
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Idempotency store unavailable", err)
				return
			case rec != nil:
				replay(w, rec)
				return
			}

			log := logger.FromContext(ctx)
			// The key is released unless a task was created. The deferred call
			// also runs while a handler panic unwinds.
			created := false
			defer func() {
				if created {
					return
				}
				releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
				defer cancel()
				if err := store.Release(releaseCtx, key); err != nil {
					log.Error("failed to release idempotency key", "error", err)
				}
			}()

			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.status != http.StatusCreated {
				return
			}
			// A pending key that failed to complete expires with its TTL; releasing
			// it would let a retry create a second task.
			created = true
			err = store.Complete(ctx, key, idempotency.Record{
				StatusCode:  rw.status,
				ContentType: rw.Header().Get("Content-Type"),
				Body:        rw.body.Bytes(),
			})
			if err != nil {
				log.Error("failed to store idempotency record", "error", err)
			}
		})
	}
}

// scopedKey prefixes key with the subject's length and value, so no
// subject/key pair can produce another pair's key.
func scopedKey(subject, key string) string {
	return strconv.Itoa(len(subject)) + ":" + subject + ":" + key
}

// replay writes a stored record. A replay is not a new creation, so 201
// becomes 200.
func replay(w http.ResponseWriter, rec *idempotency.Record) {
	status := rec.StatusCode
	if status == http.StatusCreated {
		status = http.StatusOK
	}
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(status)
	_, _ = w.Write(rec.Body)
}

// recordingWriter passes the response through while keeping a copy of the
// status and body.
type recordingWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (w *recordingWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
