package db

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrRunLocked is returned when another process holds the run lock.
var ErrRunLocked = errors.New("another run holds the database lock")

// RunLock guards a database file against concurrent resolution runs.
type RunLock struct {
	lock *flock.Flock
}

// LockPath is the lock file used for the database at dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireRunLock takes the run lock for dbPath without blocking.
func AcquireRunLock(dbPath string) (*RunLock, error) {
	l := flock.New(LockPath(dbPath))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", l.Path(), ErrRunLocked)
	}
	return &RunLock{lock: l}, nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
