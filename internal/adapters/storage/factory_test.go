package storage

import (
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/domain"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr error
	}{
		{
			name: "memory",
			cfg:  Config{Driver: DriverMemory},
			want: &MemoryStore{},
		},
		{
			name: "sqlite is the default driver",
			cfg:  Config{SQLitePath: filepath.Join(t.TempDir(), "state.db")},
			want: &SQLiteStore{},
		},
		{
			name: "redis",
			cfg:  Config{Driver: DriverRedis, Redis: &RedisConfig{Addr: mr.Addr()}},
			want: &RedisStore{},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Driver: "etcd"},
			wantErr: domain.ErrUnsupportedDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestNew_SQLiteRequiresPath(t *testing.T) {
	_, err := New(Config{Driver: DriverSQLite})
	assert.Error(t, err)
}
