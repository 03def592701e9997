package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"vtribe/internal/app/handler"
	"vtribe/internal/app/logger"
)

// RateLimit counts requests per client ip in a fixed redis window and rejects
// the overflow with 429. Redis failures let the request through, limiting is
// protection, not a dependency.
func RateLimit(rdb *redis.Client, limit int64, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.Get(r.Context(), "Middleware.RateLimit")

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/int64(window.Seconds()))

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Debug().Err(err).Msg("Redis unavailable, skipping limit")
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}

			if count > limit {
				log.Debug().Str("ip", ip).Int64("count", count).Msg("Rate limit exceeded")
				handler.WriteError(w, fmt.Errorf("too many requests, slow down"), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
