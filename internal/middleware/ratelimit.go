package middleware

import (
	"net/http"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter implements a per-IP fixed-window rate limiter backed by Redis,
// so the limit holds across server instances.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	log    zerolog.Logger
}

// NewRateLimiter creates a RateLimiter (e.g., 10 requests per minute per IP).
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by client IP.
// INCR and EXPIRE run in one pipeline and both results are checked, so a
// counter can never be left without a TTL and lock the IP out of the window
// forever. Redis failures fail open: losing rate limiting is better than
// refusing every exam start.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := config.CacheKey.StartRateKey(c.ClientIP())

		var incr *redis.IntCmd
		_, err := rl.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			// NX: only the first hit of the window arms the expiry.
			pipe.ExpireNX(ctx, key, rl.window)
			return nil
		})
		if err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}

		if incr.Val() > rl.limit {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
