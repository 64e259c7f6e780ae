package storage

import (
	"fmt"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/ports"
)

// Driver identifiers supported by the durable store
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// RedisConfig holds the connection settings of the redis driver
type RedisConfig struct {
	Addr     string
	DB       int
	Password string
	Prefix   string
	Username string
}

// Config selects and configures a driver
type Config struct {
	Driver     string
	Redis      *RedisConfig
	SQLitePath string
}

// New creates a durable store based on the provided configuration
func New(cfg Config) (ports.DurableStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite driver requires a database path")
		}
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		store, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDriver, driver)
	}
}
