//go:build windows

package roster

import (
	"fmt"
	"os"
)

// Windows has no syscall.Flock. The lock file is opened but not locked, so
// FileStore is only guarded within one process there.

func lockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("roster: open lock file: %w", err)
	}
	return f, nil
}

func unlockFile(f *os.File) {
	if f == nil {
		return
	}
	_ = f.Close()
}
