package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/renato0307/outpost/internal/logging"
)

// ErrLocked is returned when another process holds the lock past the wait
var ErrLocked = errors.New("locked by another process")

const pollInterval = 50 * time.Millisecond

// Lock is an exclusive advisory lock on a file
type Lock struct {
	file *os.File
}

// Acquire takes the lock on path, creating the file if needed. It polls
// for up to wait before giving up with ErrLocked.
func Acquire(path string, wait time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(wait)
	logged := false
	for {
		err := tryLock(file)
		if err == nil {
			return &Lock{file: file}, nil
		}
		if !errors.Is(err, errWouldBlock) {
			file.Close()
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if time.Now().After(deadline) {
			file.Close()
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		if !logged {
			logging.Logger.Info("Waiting for lock", "path", path, "wait", wait)
			logged = true
		}
		time.Sleep(pollInterval)
	}
}

// Release unlocks and closes the file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlock(l.file)
	if closeErr := l.file.Close(); err == nil {
		err = closeErr
	}
	l.file = nil
	return err
}
