package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/outpost/internal/adapters/storage"
	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/paths"
	"github.com/renato0307/outpost/internal/services"
)

// Defaults applied when neither flags, env nor settings.json say otherwise
const (
	DefaultAPIURL          = "http://localhost:8000"
	DefaultDebounce        = 80 * time.Millisecond
	DefaultMaxLogFiles     = 1000
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRetention       = 60 * time.Second
	DefaultStability       = 500 * time.Millisecond
	DefaultStaleTimeout    = 30 * time.Second
	DefaultStartingBalance = int64(100)
	DefaultStoreDriver     = storage.DriverSQLite
	DefaultSweepInterval   = 10 * time.Second
)

// Overrides are values given on the command line; empty means unset
type Overrides struct {
	APIURL      string
	RedisAddr   string
	StoreDriver string
}

// Runtime is the resolved configuration the engine is built from
type Runtime struct {
	APIURL          string
	LockPath        string
	RequestTimeout  time.Duration
	StartingBalance int64
	Store           storage.Config
	Timings         services.Timings
}

// Resolve merges the configuration sources with precedence
// flags > env > settings.json > defaults
func Resolve(settings *Settings, e Env, flags Overrides) (Runtime, error) {
	if settings == nil {
		settings = &Settings{}
	}

	timings := services.DefaultTimings()
	timings.Debounce = durationOr(settings.DebounceWindowMs, time.Millisecond, DefaultDebounce)
	timings.Retention = durationOr(settings.RetentionSeconds, time.Second, DefaultRetention)
	timings.Stability = durationOr(settings.StabilityWindowMs, time.Millisecond, DefaultStability)
	timings.StaleTimeout = durationOr(settings.StaleTimeoutSeconds, time.Second, DefaultStaleTimeout)
	timings.SweepInterval = durationOr(settings.SweepIntervalSeconds, time.Second, DefaultSweepInterval)

	rt := Runtime{
		APIURL:          strings.TrimRight(first(flags.APIURL, e.APIURL, deref(settings.APIURL), DefaultAPIURL), "/"),
		LockPath:        paths.GetLockPath(),
		RequestTimeout:  durationOr(settings.RequestTimeoutSeconds, time.Second, DefaultRequestTimeout),
		StartingBalance: DefaultStartingBalance,
		Store: storage.Config{
			Driver: strings.ToLower(first(flags.StoreDriver, e.StoreDriver, deref(settings.StoreDriver), DefaultStoreDriver)),
			Redis: &storage.RedisConfig{
				Addr:   first(flags.RedisAddr, e.RedisAddr, deref(settings.RedisAddr)),
				Prefix: first(e.RedisPrefix, deref(settings.RedisPrefix)),
			},
			SQLitePath: paths.GetDBPath(),
		},
		Timings: timings,
	}
	if settings.StartingBalance != nil {
		rt.StartingBalance = *settings.StartingBalance
	}

	if err := rt.validate(); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}

func (r Runtime) validate() error {
	switch r.Store.Driver {
	case storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverRedis:
		if r.Store.Redis.Addr == "" {
			return fmt.Errorf("redis store requires redis_addr or OUTPOST_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedDriver, r.Store.Driver)
	}
	if r.StartingBalance < 0 {
		return fmt.Errorf("starting_balance must not be negative")
	}
	if r.Timings.Stability <= 0 || r.Timings.Debounce <= 0 {
		return fmt.Errorf("stability and debounce windows must be positive")
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func durationOr(v *int, unit time.Duration, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	return time.Duration(*v) * unit
}
