package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string   `env:"ADDR" envDefault:":3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	GinMode        string   `env:"GIN_MODE" envDefault:"release"`

	// Per-connection inbound event budget. Cursor moves plus stroke chunks
	// from a drawing tablet peak around 120 events/s.
	ClientEventRate  float64 `env:"CLIENT_EVENT_RATE" envDefault:"200"`
	ClientEventBurst int     `env:"CLIENT_EVENT_BURST" envDefault:"400"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
