package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrCameraBusy is returned when another process holds the camera lock.
var ErrCameraBusy = errors.New("pipeline: camera is in use by another go-focus process")

// CameraLock is an advisory per-camera file lock.
type CameraLock struct {
	lock *flock.Flock
}

// LockCamera takes the lock file name inside dir without blocking.
func LockCamera(dir, name string) (*CameraLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := filepath.Join(dir, name)
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire camera lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrCameraBusy, path)
	}
	return &CameraLock{lock: l}, nil
}

// Path returns the lock file path.
func (c *CameraLock) Path() string {
	return c.lock.Path()
}

// Unlock releases the lock. It is safe to call on a nil lock.
func (c *CameraLock) Unlock() error {
	if c == nil || c.lock == nil {
		return nil
	}
	return c.lock.Unlock()
}
