//go:build darwin

package storage

import (
	"io/fs"
	"os"
	"syscall"
	"time"
)

func birthTime(_ *os.File, info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
