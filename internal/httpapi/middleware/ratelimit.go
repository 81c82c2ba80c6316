package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements per-client token bucket rate limiting for the
// agent proxy routes. A zero requests-per-minute disables it.
type RateLimiter struct {
	rpm             int
	mu              sync.Mutex
	buckets         map[string]*tokenBucket
	cleanupInterval time.Duration
}

type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		rpm:             requestsPerMinute,
		buckets:         make(map[string]*tokenBucket),
		cleanupInterval: 5 * time.Minute,
	}
	if rl.rpm > 0 {
		go rl.cleanup()
	}
	return rl
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rpm <= 0 {
			c.Next()
			return
		}
		if !rl.allow("ip:" + c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &tokenBucket{
			tokens:     float64(rl.rpm),
			maxTokens:  float64(rl.rpm),
			refillRate: float64(rl.rpm) / 60.0,
			lastRefill: time.Now(),
		}
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	return bucket.consume(1)
}

func (b *tokenBucket) consume(count float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	b.lastRefill = now
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}

	if b.tokens >= count {
		b.tokens -= count
		return true
	}
	return false
}

// cleanup drops buckets that have been idle for a full interval.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, bucket := range rl.buckets {
			bucket.mu.Lock()
			if now.Sub(bucket.lastRefill) > rl.cleanupInterval {
				delete(rl.buckets, key)
			}
			bucket.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}
