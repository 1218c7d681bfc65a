package store

import "os"

// FileLock provides mutual exclusion between processes via an advisory lock
// on a sidecar file. Platform-specific Lock/Unlock live in filelock_unix.go
// and filelock_windows.go.
type FileLock struct {
	path string
	f    *os.File
}

// NewFileLock creates a new file lock for the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}
