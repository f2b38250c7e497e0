package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/folioworks/portfolio-api/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middlewares.NewRateLimiter(3, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		if w := hit(); w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, w.Code)
		}
	}

	w := hit()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middlewares.NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first client: got %d", code)
	}
	if code := hit("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second client should have its own bucket: got %d", code)
	}
	if code := hit("10.0.0.1:9999"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: got %d, want 429", code)
	}
}
