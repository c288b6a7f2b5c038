package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"shoemarket/internal/pkg/cache"
	"shoemarket/internal/pkg/logger"
)

// RateLimiter aplica uma janela fixa por IP usando um contador no Redis.
// Se o Redis falhar, a requisição segue (o limite não deve derrubar o catálogo).
func RateLimiter(client cache.Client, log logger.Logger, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.Incr(r.Context(), key, window)
			if err != nil {
				log.Warn("Rate limiter indisponível", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
