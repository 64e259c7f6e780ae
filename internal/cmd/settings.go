package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/renato0307/outpost/internal/adapters/editor"
	"github.com/renato0307/outpost/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
	Edit SettingsEditCmd `cmd:"edit" help:"Open settings.json in an editor"`
}

// SettingsEditCmd opens the settings file in an editor
type SettingsEditCmd struct {
	Editor string `help:"Editor to use (overrides OUTPOST_EDITOR, VISUAL and EDITOR)"`
}

// Run executes the edit command
func (s *SettingsEditCmd) Run(cli *CLI) error {
	path := config.GetSettingsFilePath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := config.SaveSettingsTo(path, &config.Settings{}); err != nil {
			return err
		}
	}

	if err := editor.NewOpener().Open(path, s.Editor); err != nil {
		return err
	}

	if _, err := config.LoadSettingsFrom(path); err != nil {
		return fmt.Errorf("settings file is not valid, fix it before the next run: %w", err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsFilePath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		return writeJSON(os.Stdout, map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		})
	}

	fmt.Printf("Settings file: %s\n\n", settingsFile)
	fmt.Println("Example settings.json:")
	fmt.Println()

	keys := make([]string, 0, len(example))
	for key := range example {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		var valueStr string
		switch v := example[key].(type) {
		case string:
			valueStr = v
		case bool:
			valueStr = fmt.Sprintf("%t", v)
		default:
			valueStr = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(w, "%s\t%s\n", key, valueStr)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Create or edit this file to configure outpost.")
	fmt.Println("All settings are optional and have sensible defaults.")
	fmt.Println("Environment (OUTPOST_*) and flags take precedence over the file.")

	return nil
}
