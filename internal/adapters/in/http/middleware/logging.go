// Package middleware provides HTTP middleware for the adapters layer.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
)

// RequestIDHeader carries the request id to backends and back to clients.
const RequestIDHeader = "X-Request-ID"

// ResponseWriter wraps http.ResponseWriter to capture status code and bytes written.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

// NewResponseWriter creates a new wrapped response writer.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code.
func (rw *ResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures bytes written.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// StatusCode returns the captured status code.
func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// BytesWritten returns the number of bytes written.
func (rw *ResponseWriter) BytesWritten() int {
	return rw.bytes
}

// WroteHeader reports whether the status line has gone out.
func (rw *ResponseWriter) WroteHeader() bool {
	return rw.wroteHeader
}

// Flush implements http.Flusher by delegating to the underlying ResponseWriter.
func (rw *ResponseWriter) Flush() {
	rw.wroteHeader = true
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the connection (read deadlines).
func (rw *ResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogger logs one line per request and attaches a logger carrying
// the request id to the request context.
func RequestLogger(log zerowrap.Logger, trusted TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)

			rw := NewResponseWriter(w)
			clientIP := ClientIP(r, trusted)

			ctx := zerowrap.CtxWithField(zerowrap.WithCtx(r.Context(), log), "request_id", requestID)
			r = r.WithContext(ctx)
			reqLog := zerowrap.FromCtx(ctx)

			defer func() {
				ev := reqLog.Info()
				if rw.StatusCode() >= http.StatusInternalServerError {
					ev = reqLog.Warn()
				}
				ev.
					Str(zerowrap.FieldLayer, "adapter").
					Str(zerowrap.FieldAdapter, "http").
					Str(zerowrap.FieldMethod, r.Method).
					Str(zerowrap.FieldPath, r.URL.Path).
					Str("query", r.URL.RawQuery).
					Str(zerowrap.FieldHost, r.Host).
					Str("user_agent", r.UserAgent()).
					Str(zerowrap.FieldClientIP, clientIP).
					Int(zerowrap.FieldStatus, rw.StatusCode()).
					Int("bytes", rw.BytesWritten()).
					Dur(zerowrap.FieldDuration, time.Since(start)).
					Str("proto", r.Proto).
					Msg("HTTP request")
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// PanicRecovery turns handler panics into a 500. http.ErrAbortHandler is
// re-raised so the server drops the connection; a response that has
// already started streaming cannot be replaced with an error.
func PanicRecovery(log zerowrap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.Error().
					Str(zerowrap.FieldLayer, "adapter").
					Str(zerowrap.FieldAdapter, "http").
					Interface("panic", rec).
					Str(zerowrap.FieldMethod, r.Method).
					Str(zerowrap.FieldPath, r.URL.Path).
					Msg("panic recovered")

				if rw, ok := w.(*ResponseWriter); ok && rw.WroteHeader() {
					panic(http.ErrAbortHandler)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "internal_error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Chain combines multiple middleware functions.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
