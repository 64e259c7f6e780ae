package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/renato0307/outpost/internal/paths"
)

// Settings represents the structure of $OUTPOST_HOME/settings.json.
// Nil pointers mean "not set" so defaults and env vars can apply.
type Settings struct {
	APIURL                *string `json:"api_url,omitempty"`
	Debug                 *bool   `json:"debug,omitempty"`
	DebounceWindowMs      *int    `json:"debounce_window_ms,omitempty"`
	MaxLogFiles           *int    `json:"max_log_files,omitempty"`
	RedisAddr             *string `json:"redis_addr,omitempty"`
	RedisPrefix           *string `json:"redis_prefix,omitempty"`
	RequestTimeoutSeconds *int    `json:"request_timeout_seconds,omitempty"`
	RetentionSeconds      *int    `json:"retention_seconds,omitempty"`
	StabilityWindowMs     *int    `json:"stability_window_ms,omitempty"`
	StaleTimeoutSeconds   *int    `json:"stale_timeout_seconds,omitempty"`
	StartingBalance       *int64  `json:"starting_balance,omitempty"`
	StoreDriver           *string `json:"store_driver,omitempty"`
	SweepIntervalSeconds  *int    `json:"sweep_interval_seconds,omitempty"`
}

// LoadSettings loads settings from $OUTPOST_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(paths.GetSettingsPath())
}

// LoadSettingsFrom loads settings from path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}
	return &settings, nil
}

// SaveSettings saves settings to $OUTPOST_HOME/settings.json
func SaveSettings(settings *Settings) error {
	return SaveSettingsTo(paths.GetSettingsPath(), settings)
}

// SaveSettingsTo writes settings to path, creating the directory
func SaveSettingsTo(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
