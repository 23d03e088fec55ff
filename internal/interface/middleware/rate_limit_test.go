package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEngine(t *testing.T, rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(rdb, max, window, keyFn, allow), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitEnforcesMax(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	r := newLimitedEngine(t, rdb, 3, time.Minute, KeyByIP(), nil)

	for i := 0; i < 3; i++ {
		w := get(r, "/ping")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := get(r, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	r := newLimitedEngine(t, rdb, 1, time.Second, KeyByIP(), nil)

	require.Equal(t, http.StatusOK, get(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, get(r, "/ping").Code)

	mr.FastForward(2 * time.Second)
	assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	r := newLimitedEngine(t, nil, 1, time.Minute, KeyByIP(), nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
	}
}

func TestRateLimitAllowBypass(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	allowAll := func(*gin.Context) bool { return true }
	r := newLimitedEngine(t, rdb, 1, time.Minute, KeyByIP(), allowAll)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
	}
}

func TestKeyByIPAndPathSeparatesRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	limited := RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil)
	r.GET("/a", limited, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", limited, func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, get(r, "/a").Code)
	require.Equal(t, http.StatusTooManyRequests, get(r, "/a").Code)
	// a different route has its own counter
	assert.Equal(t, http.StatusOK, get(r, "/b").Code)
}
