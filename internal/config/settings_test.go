package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("OUTPOST_HOME", t.TempDir())

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestLoadSettings_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadSettingsFrom(path)
	assert.ErrorContains(t, err, "invalid settings.json")
}

func TestSaveSettings_OmitsUnsetFields(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested")
	t.Setenv("OUTPOST_HOME", home)

	require.NoError(t, SaveSettings(&Settings{StoreDriver: ptr("memory"), Debug: ptr(false)}))

	data, err := os.ReadFile(filepath.Join(home, "settings.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"debug":false,"store_driver":"memory"}`, string(data))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, loaded.Debug)
	assert.False(t, *loaded.Debug)
	assert.Nil(t, loaded.APIURL)
}

func TestGetSettingsExample_CoversEverySetting(t *testing.T) {
	example := GetSettingsExample()

	assert.Len(t, example, 13)
	assert.Equal(t, DefaultAPIURL, example["api_url"])
	assert.Equal(t, 500, example["stability_window_ms"])
	assert.Equal(t, 80, example["debounce_window_ms"])
	assert.Equal(t, DefaultStartingBalance, example["starting_balance"])
	for key := range example {
		assert.False(t, strings.Contains(key, ","), key)
	}
}
