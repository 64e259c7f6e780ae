package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/adapters/storage"
	"github.com/renato0307/outpost/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestResolve_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("OUTPOST_HOME", home)

	rt, err := Resolve(nil, Env{}, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", rt.APIURL)
	assert.Equal(t, 10*time.Second, rt.RequestTimeout)
	assert.Equal(t, int64(100), rt.StartingBalance)
	assert.Equal(t, storage.DriverSQLite, rt.Store.Driver)
	assert.Equal(t, filepath.Join(home, "state.db"), rt.Store.SQLitePath)
	assert.Equal(t, filepath.Join(home, "outpost.lock"), rt.LockPath)
	assert.Equal(t, 500*time.Millisecond, rt.Timings.Stability)
	assert.Equal(t, 80*time.Millisecond, rt.Timings.Debounce)
	assert.Equal(t, 30*time.Second, rt.Timings.StaleTimeout)
	assert.Equal(t, 10*time.Second, rt.Timings.SweepInterval)
	assert.Equal(t, 60*time.Second, rt.Timings.Retention)
}

func TestResolve_SettingsApply(t *testing.T) {
	settings := &Settings{
		APIURL:                ptr("https://game.example.com/"),
		DebounceWindowMs:      ptr(120),
		RequestTimeoutSeconds: ptr(3),
		StaleTimeoutSeconds:   ptr(45),
		StartingBalance:       ptr(int64(250)),
		StoreDriver:           ptr("memory"),
	}

	rt, err := Resolve(settings, Env{}, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "https://game.example.com", rt.APIURL)
	assert.Equal(t, 120*time.Millisecond, rt.Timings.Debounce)
	assert.Equal(t, 45*time.Second, rt.Timings.StaleTimeout)
	assert.Equal(t, 3*time.Second, rt.RequestTimeout)
	assert.Equal(t, int64(250), rt.StartingBalance)
	assert.Equal(t, storage.DriverMemory, rt.Store.Driver)
}

func TestResolve_Precedence(t *testing.T) {
	settings := &Settings{APIURL: ptr("http://settings"), StoreDriver: ptr("memory")}

	tests := []struct {
		name   string
		env    Env
		flags  Overrides
		url    string
		driver string
	}{
		{name: "settings only", url: "http://settings", driver: "memory"},
		{
			name:   "env beats settings",
			env:    Env{APIURL: "http://env", StoreDriver: "sqlite"},
			url:    "http://env",
			driver: "sqlite",
		},
		{
			name:   "flags beat env",
			env:    Env{APIURL: "http://env", StoreDriver: "sqlite"},
			flags:  Overrides{APIURL: "http://flag", StoreDriver: "MEMORY"},
			url:    "http://flag",
			driver: "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := Resolve(settings, tt.env, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.url, rt.APIURL)
			assert.Equal(t, tt.driver, rt.Store.Driver)
		})
	}
}

func TestResolve_Redis(t *testing.T) {
	_, err := Resolve(nil, Env{StoreDriver: "redis"}, Overrides{})
	assert.Error(t, err, "address is required")

	rt, err := Resolve(&Settings{RedisPrefix: ptr("game:")}, Env{StoreDriver: "redis", RedisAddr: "localhost:6379"}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", rt.Store.Redis.Addr)
	assert.Equal(t, "game:", rt.Store.Redis.Prefix)
}

func TestResolve_RejectsBadValues(t *testing.T) {
	_, err := Resolve(nil, Env{StoreDriver: "postgres"}, Overrides{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedDriver)

	_, err = Resolve(&Settings{StartingBalance: ptr(int64(-1))}, Env{}, Overrides{})
	assert.Error(t, err)

	_, err = Resolve(&Settings{StabilityWindowMs: ptr(0)}, Env{}, Overrides{})
	assert.Error(t, err)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("OUTPOST_API_URL", "http://env:9000")
	t.Setenv("OUTPOST_STORE_DRIVER", "redis")
	t.Setenv("OUTPOST_REDIS_ADDR", "cache:6379")

	e, err := ParseEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://env:9000", e.APIURL)
	assert.Equal(t, "redis", e.StoreDriver)
	assert.Equal(t, "cache:6379", e.RedisAddr)
}
