package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := newFakeClock()
	l.now = clock.Now
	return l, clock
}

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		Allowlist:       map[string]bool{},
		Denylist:        map[string]bool{},
		EndpointConfigs: endpoints,
	}
}

func TestBucket_TakeAndRefill(t *testing.T) {
	now := time.Now()
	b := newBucket(10, 1.0, now)

	for i := 0; i < 10; i++ {
		allowed, _, _ := b.take(now)
		require.True(t, allowed, "request %d", i+1)
	}
	allowed, remaining, _ := b.take(now)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.Equal(t, time.Second, b.nextToken())

	allowed, _, _ = b.take(now.Add(1100 * time.Millisecond))
	assert.True(t, allowed)
	allowed, _, _ = b.take(now.Add(1100 * time.Millisecond))
	assert.False(t, allowed)
}

func TestBucket_ResetTime(t *testing.T) {
	now := time.Now()
	b := newBucket(10, 1.0, now)

	for i := 0; i < 5; i++ {
		b.take(now)
	}
	_, remaining, full := b.take(now)

	assert.Equal(t, 4, remaining)
	assert.Equal(t, now.Add(6*time.Second), full)
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig(
		EndpointConfig{Path: "/generate-pathway", Method: "POST", Limit: 2, Window: time.Hour},
	))

	d := l.Allow("10.0.0.1", "/generate-pathway", "POST")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, 1, d.Remaining)

	assert.True(t, l.Allow("10.0.0.1", "/generate-pathway", "POST").Allowed)

	d = l.Allow("10.0.0.1", "/generate-pathway", "POST")
	assert.False(t, d.Allowed)
	assert.InDelta(t, (30 * time.Minute).Seconds(), d.RetryAfter.Seconds(), 0.01)

	assert.True(t, l.Allow("10.0.0.2", "/generate-pathway", "POST").Allowed, "clients have separate buckets")
}

func TestLimiter_Refills(t *testing.T) {
	l, clock := newTestLimiter(t, testConfig(
		EndpointConfig{Path: "/get-exam-info", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
	))

	require.True(t, l.Allow("c", "/get-exam-info", "POST").Allowed)
	require.False(t, l.Allow("c", "/get-exam-info", "POST").Allowed)

	clock.Advance(time.Second)
	assert.True(t, l.Allow("c", "/get-exam-info", "POST").Allowed)
}

func TestLimiter_AllowAndDenyLists(t *testing.T) {
	cfg := testConfig(EndpointConfig{Path: "/generate-pathway", Method: "POST", Limit: 1, Window: time.Hour})
	cfg.Allowlist["trusted"] = true
	cfg.Denylist["blocked"] = true
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("trusted", "/generate-pathway", "POST").Allowed)
	}
	assert.False(t, l.Allow("blocked", "/health", "GET").Allowed)
	assert.Zero(t, l.Len())
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		d := l.Allow("c", "/generate-pathway", "POST")
		require.True(t, d.Allowed)
		require.Zero(t, d.Limit)
	}
}

func TestLimiter_HealthAndPreflightUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())
	l.config.DefaultLimit = 1

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("c", "/health", "GET").Allowed)
		assert.True(t, l.Allow("c", "/generate-pathway", "OPTIONS").Allowed)
	}
	assert.Zero(t, l.Len())
}

func TestLimiter_DefaultLimit(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 2
	l, _ := newTestLimiter(t, cfg)

	assert.True(t, l.Allow("c", "/unknown", "GET").Allowed)
	assert.True(t, l.Allow("c", "/unknown", "GET").Allowed)
	assert.False(t, l.Allow("c", "/unknown", "GET").Allowed)
}

func TestLimiter_Burst(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig(
		EndpointConfig{Path: "/career-assessment", Method: "POST", Limit: 100, Window: time.Hour, Burst: 3},
	))

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("c", "/career-assessment", "POST").Allowed)
	}
	assert.False(t, l.Allow("c", "/career-assessment", "POST").Allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig(
		EndpointConfig{Path: "/get-career-suggestions", Method: "POST", Limit: 50, Window: time.Hour},
	))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("c", "/get-career-suggestions", "POST").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestLimiter_Cleanup(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTTL = time.Hour
	l, clock := newTestLimiter(t, cfg)

	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/estimate-cost", "POST")
	}
	require.Equal(t, 5, l.Len())

	clock.Advance(30 * time.Minute)
	l.Allow("client-0", "/estimate-cost", "POST")
	clock.Advance(45 * time.Minute)

	assert.Equal(t, 4, l.Cleanup())
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_StopEndsCleanupLoop(t *testing.T) {
	cfg := testConfig()
	cfg.CleanupInterval = time.Millisecond
	l := NewLimiter(cfg)

	l.Stop()
	l.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	assert.True(t, l.config.Enabled)
	assert.Equal(t, 600, l.config.DefaultLimit)
	assert.NotEmpty(t, l.config.EndpointConfigs)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/programs/", Method: "GET", Limit: 5, Window: time.Minute},
		{Path: "/programs/sync", Method: "GET", Limit: 1, Window: time.Minute},
		{Path: "/generate-pathway", Method: "POST", Limit: 2, Window: time.Hour},
	}

	assert.Equal(t, 1, MatchEndpoint("/programs/sync", "GET", configs).Limit)
	assert.Equal(t, 5, MatchEndpoint("/programs/nursing", "GET", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/generate-pathway", "POST", configs).Limit)
	assert.Nil(t, MatchEndpoint("/generate-pathway", "GET", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
	assert.Equal(t, 0, MatchEndpoint("/generate-pathway", "OPTIONS", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "50",
		"RATE_LIMIT_DEFAULT_WINDOW": "30s",
		"RATE_LIMIT_WHITELIST":      "127.0.0.1, ::1",
		"RATE_LIMIT_MODEL_LIMIT":    "5",
		"RATE_LIMIT_IDLE_TTL":       "bogus",
	}
	cfg := loadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, time.Hour, cfg.IdleTTL)
	assert.True(t, cfg.Allowlist["127.0.0.1"])
	assert.True(t, cfg.Allowlist["::1"])
	assert.Equal(t, 5, MatchEndpoint("/generate-pathway", "POST", cfg.EndpointConfigs).Limit)
	assert.Equal(t, 120, MatchEndpoint("/get-career-suggestions", "POST", cfg.EndpointConfigs).Limit)
}

func TestLoadConfig_Disabled(t *testing.T) {
	cfg := loadConfig(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	assert.False(t, cfg.Enabled)
}
