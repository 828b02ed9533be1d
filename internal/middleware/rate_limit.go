// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client IP. Buckets idle for longer
// than ttl are swept so the map does not grow with every address ever seen.
type RateLimiter struct {
	mtx     sync.Mutex
	clients map[string]*clientBucket
	rate    rate.Limit
	burst   int
	ttl     time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		rate:    r,
		burst:   burst,
		ttl:     3 * time.Minute,
	}

	go rl.sweep()

	return rl
}

func (rl *RateLimiter) sweep() {
	for range time.Tick(time.Minute) {
		rl.mtx.Lock()
		for ip, bucket := range rl.clients {
			if time.Since(bucket.lastSeen) > rl.ttl {
				delete(rl.clients, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) bucketFor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	bucket, ok := rl.clients[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[ip] = bucket
	}
	bucket.lastSeen = time.Now()

	return bucket.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucketFor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

var (
	generalLimiter = NewRateLimiter(rate.Limit(10), 20)               // steady 10 req/s, bursts of 20
	authLimiter    = NewRateLimiter(rate.Every(12*time.Second), 5)    // 5 auth attempts per minute
	uploadLimiter  = NewRateLimiter(rate.Every(6*time.Second), 10)    // 10 uploads per minute
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware()
}
