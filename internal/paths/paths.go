package paths

import (
	"os"
	"path/filepath"
)

// GetOutpostHome returns OUTPOST_HOME or ~/.outpost default
func GetOutpostHome() string {
	home := os.Getenv("OUTPOST_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".outpost"
		}
		return filepath.Join(homeDir, ".outpost")
	}
	return ExpandPath(home)
}

// GetDBPath returns $OUTPOST_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetOutpostHome(), "state.db")
}

// GetLockPath returns $OUTPOST_HOME/outpost.lock
func GetLockPath() string {
	return filepath.Join(GetOutpostHome(), "outpost.lock")
}

// GetSettingsPath returns $OUTPOST_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetOutpostHome(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
