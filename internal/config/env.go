package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the configuration read from OUTPOST_* environment variables.
// Empty strings mean "not set".
type Env struct {
	APIURL      string `env:"OUTPOST_API_URL"`
	Home        string `env:"OUTPOST_HOME"`
	RedisAddr   string `env:"OUTPOST_REDIS_ADDR"`
	RedisPrefix string `env:"OUTPOST_REDIS_PREFIX"`
	StoreDriver string `env:"OUTPOST_STORE_DRIVER"`
}

// ParseEnv loads Env from the process environment
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
