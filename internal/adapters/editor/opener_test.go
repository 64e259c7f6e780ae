package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEditorEnv(t *testing.T) {
	t.Setenv("OUTPOST_EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
}

func TestFindEditor_Priority(t *testing.T) {
	clearEditorEnv(t)
	o := &Opener{lookPath: func(string) (string, error) { return "", errors.New("not found") }}

	assert.Equal(t, "", o.findEditor(""))

	t.Setenv("EDITOR", "ed")
	assert.Equal(t, "ed", o.findEditor(""))

	t.Setenv("VISUAL", "emacs")
	assert.Equal(t, "emacs", o.findEditor(""))

	t.Setenv("OUTPOST_EDITOR", "hx")
	assert.Equal(t, "hx", o.findEditor(""))

	assert.Equal(t, "kak", o.findEditor("kak"))
}

func TestFindEditor_PlatformDefault(t *testing.T) {
	clearEditorEnv(t)
	want := defaultEditors[len(defaultEditors)-1]
	o := &Opener{lookPath: func(file string) (string, error) {
		if file == want {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}}

	assert.Equal(t, want, o.findEditor(""))
}

func TestOpen_MissingPath(t *testing.T) {
	o := NewOpener()

	err := o.Open(filepath.Join(t.TempDir(), "missing.json"), "true")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}

func TestOpen_RunsEditor(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("no /bin/true on this platform")
	}
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	assert.NoError(t, NewOpener().Open(path, "/bin/true"))
	assert.Error(t, NewOpener().Open(path, "/bin/false"))
}
