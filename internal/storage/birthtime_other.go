//go:build !linux && !darwin

package storage

import (
	"io/fs"
	"os"
	"time"
)

// birthTime falls back to the modification time where the platform does
// not expose creation time.
func birthTime(_ *os.File, info fs.FileInfo) time.Time {
	return info.ModTime()
}
