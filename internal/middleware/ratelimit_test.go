package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_Window(t *testing.T) {
	rl := NewMemoryRateLimiter()
	t.Cleanup(func() { _ = rl.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ctx := context.Background()
	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed)
	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed)

	blocked := rl.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, blocked.Allowed)
	assert.Equal(t, now.Add(time.Minute), blocked.ResetAt)
	assert.True(t, rl.Allow(ctx, "other", 2, time.Minute).Allowed)

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed)
}

func TestMemoryRateLimiter_Cleanup(t *testing.T) {
	rl := NewMemoryRateLimiter()
	t.Cleanup(func() { _ = rl.Close() })

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow(context.Background(), "k", 1, time.Second)

	rl.cleanup(now.Add(2 * time.Second))
	assert.Empty(t, rl.entries)
	require.NoError(t, rl.Close())
	require.NoError(t, rl.Close())
}

func TestRateLimit_Rejects(t *testing.T) {
	rl := NewMemoryRateLimiter()
	t.Cleanup(func() { _ = rl.Close() })

	var limitedRoutes []string
	mux := http.NewServeMux()
	mux.Handle("POST /user/login", RateLimit(rl, 1, time.Minute, func(route string) {
		limitedRoutes = append(limitedRoutes, route)
	})(okHandler()))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	first := send("10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := send("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, []string{"POST /user/login"}, limitedRoutes)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000").Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(nil, 5, time.Minute, nil)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user/register", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	rl := newRedisRateLimiter(client, nil)
	decision := rl.Allow(context.Background(), "k", 1, time.Minute)
	assert.True(t, decision.Allowed)
	require.NoError(t, rl.Close())
}
