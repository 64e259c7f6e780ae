package editor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/renato0307/outpost/internal/logging"
)

// Opener opens files in the user's editor
type Opener struct {
	lookPath func(file string) (string, error)
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath}
}

// Open opens path in an editor attached to the terminal and waits for it
// to exit.
// Priority: cliEditor → $OUTPOST_EDITOR → $VISUAL → $EDITOR → platform defaults
func (o *Opener) Open(path string, cliEditor string) error {
	if path == "" {
		return fmt.Errorf("no path provided")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	editor := o.findEditor(cliEditor)
	if editor == "" {
		return fmt.Errorf("no suitable editor found. Set --editor flag, $OUTPOST_EDITOR, $VISUAL, or $EDITOR")
	}

	logging.Logger.Info("Opening editor", "editor", editor, "path", path)

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		logging.Logger.Warn("Editor exited with error", "error", err, "editor", editor)
		return fmt.Errorf("editor %s failed: %w", editor, err)
	}
	return nil
}

func (o *Opener) findEditor(cliEditor string) string {
	// 1. CLI flag takes precedence
	if cliEditor != "" {
		return cliEditor
	}

	for _, key := range []string{"OUTPOST_EDITOR", "VISUAL", "EDITOR"} {
		if editor := os.Getenv(key); editor != "" {
			return editor
		}
	}

	// Platform-specific defaults
	for _, editor := range defaultEditors {
		if _, err := o.lookPath(editor); err == nil {
			return editor
		}
	}
	return ""
}
