package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/logging"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

// Bucket is the closed set of rate-limit buckets. Using typed constants
// keeps a typo from silently creating an unthrottled bucket.
type Bucket string

const (
	BucketCart       Bucket = "cart"
	BucketCheckout   Bucket = "checkout"
	BucketOrderFiles Bucket = "orders-files"
)

// RateLimiter caps request volume per (bucket, client IP) using a shared
// counter store. Counter failures fail open: a Redis outage must not take
// the storefront down with it.
type RateLimiter struct {
	store usecase.RateLimitStore
	cfg   configs.Config
}

func NewRateLimiter(store usecase.RateLimitStore, cfg configs.Config) *RateLimiter {
	return &RateLimiter{store: store, cfg: cfg}
}

func (rl *RateLimiter) limitFor(b Bucket) configs.BucketLimit {
	switch b {
	case BucketCheckout:
		return rl.cfg.RateLimit.Checkout
	case BucketOrderFiles:
		return rl.cfg.RateLimit.OrderFiles
	default:
		return rl.cfg.RateLimit.Cart
	}
}

// Limit returns a middleware enforcing the named bucket's cap. It
// short-circuits with 429 before the handler runs.
func (rl *RateLimiter) Limit(b Bucket) gin.HandlerFunc {
	limit := rl.limitFor(b)
	return func(c *gin.Context) {
		key := string(b) + ":" + c.ClientIP()

		n, err := rl.store.Incr(c.Request.Context(), key, limit.Window)
		if err != nil {
			logging.From(c).Warn("rate limit store unavailable, failing open",
				"bucket", string(b), "err", err)
			c.Next()
			return
		}

		if n > int64(limit.Requests) {
			retryAfter := int(limit.Window.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "rate_limited",
					"message": "too many requests, retry later",
				},
			})
			return
		}
		c.Next()
	}
}
