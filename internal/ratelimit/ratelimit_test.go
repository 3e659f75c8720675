package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(l *Limiter, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	router.Use(l.Middleware())
	router.POST("/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}

func hit(router *gin.Engine) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
	return w.Code
}

func TestLimiter_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() }) //nolint:errcheck

	l, err := New("2-M", client)
	require.NoError(t, err)
	assert.Equal(t, "redis", l.Backend())

	router := newRouter(l, "user-1")

	assert.Equal(t, http.StatusOK, hit(router))
	assert.Equal(t, http.StatusOK, hit(router))
	assert.Equal(t, http.StatusTooManyRequests, hit(router))

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], "user:user-1")
}

func TestLimiter_KeyedPerUser(t *testing.T) {
	l, err := New("1-M", nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", l.Backend())

	assert.Equal(t, http.StatusOK, hit(newRouter(l, "user-1")))
	assert.Equal(t, http.StatusTooManyRequests, hit(newRouter(l, "user-1")))
	assert.Equal(t, http.StatusOK, hit(newRouter(l, "user-2")))
}

func TestLimiter_StoreFailureFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck

	l, err := New("1-M", client)
	require.NoError(t, err)

	mr.Close()

	assert.Equal(t, http.StatusOK, hit(newRouter(l, "user-1")))
}

func TestNew_InvalidRate(t *testing.T) {
	_, err := New("lots", nil)

	assert.Error(t, err)
}
