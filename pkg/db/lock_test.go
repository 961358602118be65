package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLockIsExclusive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dedup.db")

	first, err := AcquireRunLock(dbPath)
	require.NoError(t, err)

	_, err = AcquireRunLock(dbPath)
	assert.ErrorIs(t, err, ErrRunLocked)

	require.NoError(t, first.Release())

	again, err := AcquireRunLock(dbPath)
	require.NoError(t, err)
	require.NoError(t, again.Release())

	var nilLock *RunLock
	assert.NoError(t, nilLock.Release())
}
