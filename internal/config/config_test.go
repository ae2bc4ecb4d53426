package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "LOG_MODE", "PROGRAM_BASE_URL", "CATALOG_PATH", "CORS_ALLOWED_ORIGINS", "PORT", "UPSTREAM_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"model": "gemini-2.5-pro",
		"allowed_origins": ["https://pathways.example.edu"],
		"upstream_timeout": "45s"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, []string{"https://pathways.example.edu"}, cfg.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.Timeout())
}

func TestLoadConfig_NumericTimeout(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"upstream_timeout": 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())

	_, err = LoadConfig(writeConfig(t, `{"upstream_timeout": "soon"}`))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.EqualError(t, err, "config path is empty")
}

func TestLoad_DefaultsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Port, cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", " key-from-env ")
	t.Setenv("PORT", "3000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("UPSTREAM_TIMEOUT", "10s")

	path := writeConfig(t, `{"port": 9090, "model": "gemini-2.5-pro", "api_key": "from-file"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.APIKey)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestLoad_BadEnvValuesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("UPSTREAM_TIMEOUT", "forever")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.Timeout())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"zero value", Config{}, ""},
		{"bad port", Config{Port: 70000}, "'port'"},
		{"negative timeout", Config{UpstreamTimeout: Duration(-time.Second)}, "'upstream_timeout'"},
		{"unknown log mode", Config{LogMode: "verbose"}, "'log_mode'"},
		{"relative base url", Config{ProgramBaseURL: "/programs"}, "'program_base_url'"},
		{"missing catalog", Config{CatalogPath: "/nonexistent/catalog.json"}, "catalog file not found"},
		{"prod mode", Config{LogMode: "PROD", ProgramBaseURL: "https://www.mdc.edu/"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Model: "custom"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom", merged.Model)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "dev", merged.LogMode)
	assert.Equal(t, "custom", cfg.Model)
	assert.Zero(t, cfg.Port)
}
