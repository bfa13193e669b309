package main

import (
	"time"

	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/redis"
)

// Config is read from FORMDEMO_* environment variables and an optional .env file.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	Title     string `env:"TITLE" envDefault:"Sign up"`
	RulesFile string `env:"RULES_FILE"`

	SessionIdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"`

	HTTP  httpserver.Config
	Redis redis.Config
}
