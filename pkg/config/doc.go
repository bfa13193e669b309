// Package config loads env-tagged configuration structs.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for optional dotenv files. Fields use the usual
// `env`, `envDefault` and `required` tags:
//
//	type Config struct {
//		Addr     string `env:"ADDR" envDefault:":8080"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg, config.WithPrefix("FORMDEMO_"))
//
// Parsing failures wrap ErrParsingConfig, so callers can use errors.Is.
package config
