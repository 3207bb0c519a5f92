package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment once at
// startup.
type Config struct {
	Service *svcConfig
}

type svcConfig struct {
	Address         string `envconfig:"BOMGEN_ADDRESS" default:":8080"`
	LogLevel        string `envconfig:"BOMGEN_LOG_LEVEL" default:"info"`
	RateCardPath    string `envconfig:"BOMGEN_RATE_CARD" default:"pricing.json"`
	MaxUploadBytes  int64  `envconfig:"BOMGEN_MAX_UPLOAD_BYTES" default:"104857600"`
	SessionTTLHours int    `envconfig:"BOMGEN_SESSION_TTL_HOURS" default:"24"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
