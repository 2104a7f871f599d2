package middleware

import (
	"net"
	"net/http"
	"time"

	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
	"iam-be/pkg/redis"
)

// rateLimitWindow is the fixed counting window for the per-IP limiter
const rateLimitWindow = time.Minute

// RateLimit limits requests per client IP over a fixed window, backed by a
// Redis counter. A nil client disables limiting; Redis failures fail open so
// an outage never blocks the endpoint.
func RateLimit(client *redis.Client, perWindow int, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || perWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := client.KeyBuilder.KeyRateLimitIP(clientIP(r))

			count, err := client.Incr(ctx, key)
			if err != nil {
				logger.WithError(err).Warn("Rate limit counter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			// First hit in the window starts its expiry
			if count == 1 {
				if err := client.Expire(ctx, key, rateLimitWindow); err != nil {
					logger.WithError(err).Warn("Failed to set rate limit window")
				}
			}

			if count > int64(perWindow) {
				logger.WithFields(map[string]interface{}{
					"count": count,
					"limit": perWindow,
				}).Warn("Rate limit exceeded")
				writeErrorResponse(w, errors.NewRateLimitError("Too many requests, try again later"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the remote IP, relying on chi's RealIP middleware having
// rewritten RemoteAddr from forwarding headers
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
