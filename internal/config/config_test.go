package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"HTTP_ADDR", "LOG_LEVEL", "STORE_DRIVER", "SQLITE_PATH", "POSTGRES_DSN",
	"SESSION_HOST", "REDIS_ADDR", "SESSION_KEY_PREFIX", "SESSION_TTL",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "SUBMIT_TIMEOUT", "THEME", "THEME_VARIANT",
	"ASSET_PREFIX", EnvFilesVar,
}

// clearEnv blanks every variable Load reads and restores them afterwards,
// including values later written by godotenv.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		HTTPAddr:         ":8080",
		LogLevel:         "info",
		StoreDriver:      StoreSQLite,
		SQLitePath:       "formbuilder.db",
		SessionHost:      SessionMemory,
		RedisAddr:        "localhost:6379",
		SessionKeyPrefix: "formbuilder:sessions:",
		SessionTTL:       30 * time.Minute,
		KafkaTopic:       "formbuilder-events",
		SubmitTimeout:    10 * time.Second,
		AssetPrefix:      "/static",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.EventsEnabled() {
		t.Fatalf("events should be disabled without brokers")
	}
}

func TestLoad_EnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t)

	path := filepath.Join(dir, "custom.env")
	content := strings.Join([]string{
		"HTTP_ADDR=:9090",
		"KAFKA_BROKERS=a:9092, b:9092",
		"SUBMIT_TIMEOUT=3s",
		"LOG_LEVEL=debug",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.SubmitTimeout != 3*time.Second {
		t.Fatalf("env file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"a:9092", "b:9092"}, cfg.Brokers()); diff != "" {
		t.Fatalf("brokers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		StoreDriver:   StoreSQLite,
		SQLitePath:    "x.db",
		SessionHost:   SessionMemory,
		SessionTTL:    time.Minute,
		SubmitTimeout: time.Second,
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreDriver = StorePostgres }},
		{name: "postgres with dsn", mutate: func(c *Config) { c.StoreDriver = StorePostgres; c.PostgresDSN = "postgres://x" }, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }},
		{name: "unknown host", mutate: func(c *Config) { c.SessionHost = "disk" }},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.SubmitTimeout = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}
