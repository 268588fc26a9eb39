package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// RateLimit rejects requests over the global or per-client budget with 429.
// A nil limiter disables that check.
func RateLimit(global, perIP out.RateLimiter, trusted TrustedProxies, log zerowrap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if global == nil && perIP == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if global != nil && !global.Allow(ctx, "global") {
				rateLimited(w, r, log, "global")
				return
			}

			if perIP != nil {
				ip := ClientIP(r, trusted)
				if !perIP.Allow(ctx, "ip:"+ip) {
					rateLimited(w, r, log, ip)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimited(w http.ResponseWriter, r *http.Request, log zerowrap.Logger, key string) {
	log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "http").
		Str(zerowrap.FieldPath, r.URL.Path).
		Str("key", key).
		Msg("rate limit exceeded")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "rate_limited"})
}
