package config

import (
	"reflect"
	"strings"

	"github.com/renato0307/outpost/internal/paths"
)

// GetSettingsFilePath returns the path to the settings file
func GetSettingsFilePath() string {
	return paths.GetSettingsPath()
}

// GetSettingsExample uses reflection to generate example settings
// This automatically stays in sync when new fields are added to Settings
func GetSettingsExample() map[string]any {
	var s Settings
	t := reflect.TypeOf(s)
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		// Extract the JSON field name (before comma)
		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue returns the default of a setting, or a sample
// value where there is no default
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Bool:
		return fieldName == "debug"
	case reflect.Int, reflect.Int64:
		switch fieldName {
		case "debounce_window_ms":
			return int(DefaultDebounce.Milliseconds())
		case "max_log_files":
			return DefaultMaxLogFiles
		case "request_timeout_seconds":
			return int(DefaultRequestTimeout.Seconds())
		case "retention_seconds":
			return int(DefaultRetention.Seconds())
		case "stability_window_ms":
			return int(DefaultStability.Milliseconds())
		case "stale_timeout_seconds":
			return int(DefaultStaleTimeout.Seconds())
		case "starting_balance":
			return DefaultStartingBalance
		case "sweep_interval_seconds":
			return int(DefaultSweepInterval.Seconds())
		}
		return 10
	case reflect.String:
		switch fieldName {
		case "api_url":
			return DefaultAPIURL
		case "redis_addr":
			return "localhost:6379"
		case "redis_prefix":
			return "outpost:record:"
		case "store_driver":
			return DefaultStoreDriver
		}
		return "example"
	}

	return nil
}
