// Package config loads server settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Session hosts.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config is the server configuration. Field tags carry the defaults.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	StoreDriver string `env:"STORE_DRIVER,default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,default=formbuilder.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	SessionHost      string        `env:"SESSION_HOST,default=memory"`
	RedisAddr        string        `env:"REDIS_ADDR,default=localhost:6379"`
	SessionKeyPrefix string        `env:"SESSION_KEY_PREFIX,default=formbuilder:sessions:"`
	SessionTTL       time.Duration `env:"SESSION_TTL,default=30m"`

	// KafkaBrokers is a comma separated list; empty disables events.
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=formbuilder-events"`

	SubmitTimeout time.Duration `env:"SUBMIT_TIMEOUT,default=10s"`
	Theme         string        `env:"THEME"`
	ThemeVariant  string        `env:"THEME_VARIANT"`
	AssetPrefix   string        `env:"ASSET_PREFIX,default=/static"`
}

// EnvFilesVar lists extra .env files, comma separated.
const EnvFilesVar = "FORMBUILDER_ENV_FILES"

// Load overlays any .env files that exist onto the process environment and
// decodes the result.
func Load(files ...string) (Config, error) {
	loadEnvFiles(envFiles(files))

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings and driver requirements.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionHost {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_HOST %q", c.SessionHost)
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.SubmitTimeout <= 0 {
		return errors.New("config: SUBMIT_TIMEOUT must be positive")
	}
	return nil
}

// Brokers splits KafkaBrokers.
func (c Config) Brokers() []string {
	var out []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// EventsEnabled reports whether a Kafka publisher should be started.
func (c Config) EventsEnabled() bool {
	return len(c.Brokers()) > 0
}

// Level parses LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envFiles(explicit []string) []string {
	files := []string{".env", ".env.local"}
	files = append(files, explicit...)
	if extra := os.Getenv(EnvFilesVar); extra != "" {
		files = append(files, strings.Split(extra, ",")...)
	}
	return files
}

func loadEnvFiles(files []string) {
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			slog.Warn("config: failed to load env file", "file", file, "error", err)
		}
	}
}
