package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/iho/fleetledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key that makes a
	// mutating request safe to resubmit.
	IdempotencyKeyHeader = "Idempotency-Key"

	// idempotencyTTL bounds how long a completed response is replayable. A
	// day covers the retry window of field staff resubmitting payment and
	// builty forms over flaky connections.
	idempotencyTTL = 24 * time.Hour

	// processingMarker mirrors the reservation value the store writes while
	// the original request is still in flight.
	processingMarker = "processing"
)

// IdempotencyMiddleware shields the billing ledger from double submissions:
// replaying a keyed request returns the recorded response instead of
// recording a second payment or builty.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// Wrap wraps an http.Handler with idempotency checking. Requests without an
// Idempotency-Key header pass through untouched.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		seen, cached, err := m.store.CheckAndSet(r.Context(), key, nil, idempotencyTTL)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if seen && cached != nil && string(cached) != processingMarker {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			_, _ = w.Write(cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successful outcomes become replayable; a failed submission
		// may be retried with the same key.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			_ = m.store.Update(r.Context(), key, recorder.body.Bytes(), idempotencyTTL)
		}
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

type responseRecorder struct {
	http.ResponseWriter

	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
