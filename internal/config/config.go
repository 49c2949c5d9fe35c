// Package config loads tracker settings from TRACKER_* environment
// variables.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/logging"
	"github.com/KirkDiggler/rpg-session/internal/pkg/idgen"
)

// Storage backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Stores lists every supported backend
var Stores = []string{StoreMemory, StoreRedis, StoreSQLite}

// Config holds the tracker settings
type Config struct {
	Store         string        `env:"TRACKER_STORE" envDefault:"sqlite"`
	RedisAddr     string        `env:"TRACKER_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"TRACKER_REDIS_PASSWORD"`
	SQLitePath    string        `env:"TRACKER_SQLITE_PATH" envDefault:"tracker.db"`
	StorageKey    string        `env:"TRACKER_STORAGE_KEY" envDefault:"dnd-session"`
	IDStyle       string        `env:"TRACKER_ID_STYLE" envDefault:"short"`
	LogFormat     string        `env:"TRACKER_LOG_FORMAT" envDefault:"text"`
	LogLevel      string        `env:"TRACKER_LOG_LEVEL" envDefault:"warn"`
	SaveRetries   uint64        `env:"TRACKER_SAVE_RETRIES" envDefault:"3"`
	SaveBackoff   time.Duration `env:"TRACKER_SAVE_BACKOFF" envDefault:"50ms"`
	RepairTurn    bool          `env:"TRACKER_REPAIR_TURN" envDefault:"true"`
}

// Load reads the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Validate checks the settings for the selected backend
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Store", c.Store, Stores, vb)
	switch c.Store {
	case StoreRedis:
		errors.ValidateRequired("RedisAddr", c.RedisAddr, vb)
	case StoreSQLite:
		errors.ValidateRequired("SQLitePath", c.SQLitePath, vb)
	}

	errors.ValidateRequired("StorageKey", c.StorageKey, vb)
	errors.ValidateEnum("IDStyle", c.IDStyle, idgen.Styles, vb)
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{logging.FormatJSON, logging.FormatText}, vb)

	if c.SaveBackoff <= 0 {
		vb.Field("SaveBackoff", "must be positive")
	}

	return vb.Build()
}
