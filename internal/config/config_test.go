package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile drops a file into a per-test temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// noDotEnv points the dotenv loader at a file that does not exist so tests
// don't pick up a stray .env from the working directory.
func noDotEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOGO_DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	noDotEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("expected address 0.0.0.0:8080, got %s", cfg.Server.Address())
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
	if cfg.RateLimit.RequestsPerSecond != 0 {
		t.Errorf("expected rate limiting disabled by default, got %v rps", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by default")
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if len(cfg.Server.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.Server.TrustedProxies)
	}
	if len(cfg.Metrics.Buckets) != 0 {
		t.Errorf("expected default histogram buckets, got %v", cfg.Metrics.Buckets)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	noDotEnv(t)

	path := writeFile(t, "config.yaml", `
server:
  port: 9000
  write_timeout: 5s
log:
  level: debug
cors:
  allowed_origins:
    - https://logos.example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 5*time.Second {
		t.Errorf("expected 5s write timeout, got %s", cfg.Server.WriteTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://logos.example.com" {
		t.Errorf("unexpected allowed origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ProxiesAndBuckets(t *testing.T) {
	noDotEnv(t)

	path := writeFile(t, "config.yaml", `
server:
  trusted_proxies:
    - 10.0.0.0/8
    - 192.0.2.1
metrics:
  buckets: [0.001, 0.01, 0.1, 1]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[0] != "10.0.0.0/8" || cfg.Server.TrustedProxies[1] != "192.0.2.1" {
		t.Errorf("unexpected trusted proxies: %v", cfg.Server.TrustedProxies)
	}
	want := []float64{0.001, 0.01, 0.1, 1}
	if len(cfg.Metrics.Buckets) != len(want) {
		t.Fatalf("expected buckets %v, got %v", want, cfg.Metrics.Buckets)
	}
	for i := range want {
		if cfg.Metrics.Buckets[i] != want[i] {
			t.Errorf("bucket %d: expected %v, got %v", i, want[i], cfg.Metrics.Buckets[i])
		}
	}
}

func TestLoad_InvalidTrustedProxy(t *testing.T) {
	noDotEnv(t)
	path := writeFile(t, "config.yaml", "server:\n  trusted_proxies: [\"not-an-ip\"]\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for trusted proxy not-an-ip")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	noDotEnv(t)
	path := writeFile(t, "config.yaml", "server:\n  port: 9000\n")
	t.Setenv("LOGO_SERVER_PORT", "9191")
	t.Setenv("LOGO_HISTORY_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("expected env to override port to 9191, got %d", cfg.Server.Port)
	}
	if !cfg.History.Enabled {
		t.Error("expected LOGO_HISTORY_ENABLED to enable history")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	noDotEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	noDotEnv(t)
	t.Setenv("LOGO_SERVER_PORT", "70000")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for port 70000")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := writeFile(t, ".env", "LOGO_SERVER_PORT=7070\nLOGO_LOG_LEVEL=debug\n")
	t.Setenv("LOGO_DOTENV_PATH", path)

	// Register cleanup for the variables the dotenv loader will set, then
	// make sure they start out unset.
	for _, name := range []string{"LOGO_SERVER_PORT", "LOGO_LOG_LEVEL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070 from .env, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug from .env, got %s", cfg.Log.Level)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := writeFile(t, ".env", "LOGO_LOG_LEVEL=debug\n")
	t.Setenv("LOGO_LOG_LEVEL", "warn")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("LOGO_LOG_LEVEL"); got != "warn" {
		t.Errorf("expected existing value warn to win, got %s", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("expected missing dotenv file to be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
			RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
			History:   HistoryConfig{Enabled: true, DatabasePath: "history.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 65536 }, true},
		{"negative rate", func(c *Config) { c.RateLimit.RequestsPerSecond = -1 }, true},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }, true},
		{"history without path", func(c *Config) { c.History.DatabasePath = "" }, true},
		{"trusted proxy ip", func(c *Config) { c.Server.TrustedProxies = []string{"192.0.2.1", "::1"} }, false},
		{"trusted proxy cidr", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.0/8"} }, false},
		{"trusted proxy garbage", func(c *Config) { c.Server.TrustedProxies = []string{"not-an-ip"} }, true},
		{"increasing buckets", func(c *Config) { c.Metrics.Buckets = []float64{0.1, 0.5, 1} }, false},
		{"unsorted buckets", func(c *Config) { c.Metrics.Buckets = []float64{1, 0.5} }, true},
		{"duplicate buckets", func(c *Config) { c.Metrics.Buckets = []float64{0.5, 0.5} }, true},
		{"history disabled without path", func(c *Config) {
			c.History.Enabled = false
			c.History.DatabasePath = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
