package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig is read from LIQ_* environment variables by the API server.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	Env            string        `envconfig:"ENV" default:"development"`
	PresetDir      string        `envconfig:"PRESET_DIR" default:"examples/presets"`
	StaticDir      string        `envconfig:"STATIC_DIR" default:"./web/dist"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	MaxPeriods     int           `envconfig:"MAX_PERIODS" default:"500"`
	MaxInventory   int           `envconfig:"MAX_INVENTORY" default:"5000"`
	SolveWorkers   int           `envconfig:"SOLVE_WORKERS" default:"0"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func (c ServerConfig) Production() bool { return c.Env == "production" }

func LoadServer() (*ServerConfig, error) {
	var c ServerConfig
	if err := envconfig.Process("LIQ", &c); err != nil {
		return nil, fmt.Errorf("failed to load server config from env: %w", err)
	}
	return &c, nil
}
