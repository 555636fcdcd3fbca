package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(NewConfig(0.01, 3))
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/recommend", "POST")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := limiter.Allow("10.0.0.1", "/recommend", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Now()))
}

func TestLimiter_PerClientAndRoute(t *testing.T) {
	limiter := NewLimiter(NewConfig(0.01, 1))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/recommend", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/recommend", "POST")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2", "/recommend", "POST")
	assert.True(t, allowed, "other clients have their own bucket")

	allowed, _ = limiter.Allow("10.0.0.1", "/api/submit-profile", "POST")
	assert.True(t, allowed, "other routes have their own bucket")
}

func TestLimiter_DefaultRouteIsLooser(t *testing.T) {
	limiter := NewLimiter(NewConfig(0.01, 1))
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/extract", "POST")
		require.True(t, allowed, "request %d", i+1)
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(NewConfig(20, 1))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("c", "/recommend", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/recommend", "POST")
	require.False(t, allowed)

	time.Sleep(100 * time.Millisecond)
	allowed, _ = limiter.Allow("c", "/recommend", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRate: 0.01, DefaultBurst: 1})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := NewConfig(0.01, 1)
	cfg.Whitelist["trusted"] = true
	cfg.Blacklist["banned"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("trusted", "/recommend", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("banned", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	for _, limiter := range []*Limiter{NewLimiter(nil), NewLimiter(NewConfig(0, 5))} {
		for i := 0; i < 100; i++ {
			allowed, _ := limiter.Allow("c", "/recommend", "POST")
			require.True(t, allowed)
		}
		limiter.Stop()
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1, IdleTTL: time.Minute})
	defer limiter.Stop()

	limiter.Allow("a", "/x", "GET")
	limiter.Allow("b", "/x", "GET")
	require.Equal(t, 2, limiter.Len())

	limiter.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Zero(t, limiter.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(NewConfig(0.01, 10))
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("c", "/recommend", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(NewConfig(1, 1))
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/recommend", Method: "POST", Rate: 1},
		{Path: "/api/", Method: "POST", Rate: 2},
	}

	assert.Equal(t, 1.0, MatchEndpoint("/recommend", "POST", configs).Rate)
	assert.Equal(t, 2.0, MatchEndpoint("/api/submit-profile", "POST", configs).Rate)
	assert.Nil(t, MatchEndpoint("/recommend", "GET", configs))
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Rate)
}
