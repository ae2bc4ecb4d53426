package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig allows Limit requests per Window to one endpoint, with up to Burst
// at once (Limit when zero). A Limit of 0 means unlimited. A Path ending in "/"
// matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Denylist:        map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables over DefaultConfig.
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool(getenv, "RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = envInt(getenv, "RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration(getenv, "RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = envDuration(getenv, "RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTTL = envDuration(getenv, "RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	cfg.Allowlist = parseIPList(getenv("RATE_LIMIT_WHITELIST"))
	cfg.Denylist = parseIPList(getenv("RATE_LIMIT_BLACKLIST"))

	// Model-backed endpoints share one override.
	if limit := envInt(getenv, "RATE_LIMIT_MODEL_LIMIT", 0); limit > 0 {
		for i := range cfg.EndpointConfigs {
			if cfg.EndpointConfigs[i].Window == time.Hour {
				cfg.EndpointConfigs[i].Limit = limit
			}
		}
	}
	return cfg
}

// DefaultEndpointConfigs returns the per-endpoint limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: full model generations
		{Path: "/career-assessment", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/generate-pathway", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: short model calls behind autocomplete and enrichment
		{Path: "/get-career-suggestions", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/get-exam-info", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 3: local computation
		{Path: "/resolve-program", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},
		{Path: "/estimate-cost", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(getenv(key))); err == nil {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv(key))); err == nil {
		return v
	}
	return fallback
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(getenv(key))); err == nil {
		return v
	}
	return fallback
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
