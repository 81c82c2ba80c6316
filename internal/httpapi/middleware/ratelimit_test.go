package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rpm int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(rpm).Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_RejectsAfterBudget(t *testing.T) {
	r := newLimitedRouter(3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r))
	}
	assert.Equal(t, http.StatusTooManyRequests, get(r))
}

func TestRateLimiter_DisabledAtZero(t *testing.T) {
	r := newLimitedRouter(0)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, get(r))
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	b := &tokenBucket{
		tokens:     0,
		maxTokens:  10,
		refillRate: 5, // per second
		lastRefill: time.Now().Add(-time.Second),
	}
	assert.True(t, b.consume(1))
	assert.False(t, b.consume(10))
}
