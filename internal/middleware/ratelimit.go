package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"reqwire/internal/domain"
	"reqwire/internal/httputil"
	"reqwire/internal/ratelimit"
)

// RateLimit gates every request through the fixed-window limiter. The
// client identity is the authenticated user ID when present, otherwise the
// caller's IP. Pipeline proxy routes count against their own, tighter rule.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := httputil.GetUserID(r)
			if clientID == "" {
				clientID = clientIP(r)
			}

			family := routeFamily(r.URL.Path)
			if err := limiter.Admit(clientID, r.Method+" "+family, family); err != nil {
				var rlErr *domain.RateLimitError
				if errors.As(err, &rlErr) {
					logger.Warn("rate limit exceeded",
						"client_id", clientID,
						"path", r.URL.Path,
					)
					seconds := int(rlErr.RetryAfter.Seconds())
					if seconds < 1 {
						seconds = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(seconds))
					httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, rlErr.Error(),
						map[string]interface{}{"retry_after_seconds": seconds})
					return
				}
				httputil.RespondError(w, http.StatusInternalServerError, "rate limiter failure")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// routeFamily maps a request path to a limiter rule family.
func routeFamily(path string) string {
	if strings.HasPrefix(path, "/api/pipeline/") || path == "/api/pipeline" {
		return ratelimit.FamilyPipeline
	}
	return "default"
}

// clientIP extracts the caller's IP, trusting X-Forwarded-For when the
// server runs behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First entry is the originating client
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
