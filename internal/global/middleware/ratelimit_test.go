package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter(20, 15*time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d", i+1)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	require.False(t, ok)

	ok, _ = l.Allow(ctx, "5.6.7.8")
	require.True(t, ok)

	now = now.Add(15*time.Minute + time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	require.True(t, ok)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRateLimitSharedAcrossRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limit := RateLimit(NewMemoryLimiter(20, 15*time.Minute))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/login", limit, ok)
	r.POST("/register", limit, ok)

	for i := 0; i < 20; i++ {
		path := "/login"
		if i%2 == 1 {
			path = "/register"
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.JSONEq(t, `{"error":"Too many attempts, please try again later"}`, w.Body.String())
}
