package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowEnforcesLimitPerKey(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	// Other keys have their own bucket.
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l := NewRateLimiter(1, 30*time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	time.Sleep(40 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestOTPRateLimitKeysPerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limit := OTPRateLimit(NewRateLimiter(1, time.Minute))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/login", limit, ok)
	r.POST("/verify-email", limit, ok)

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/login"))
	assert.Equal(t, http.StatusTooManyRequests, do("/login"))
	// A different guarded route still has budget for the same client.
	assert.Equal(t, http.StatusOK, do("/verify-email"))
}
