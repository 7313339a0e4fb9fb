//go:build linux

package storage

import (
	"io/fs"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime asks statx on the already open descriptor so that the timestamp
// belongs to the same file the content is read from.
func birthTime(f *os.File, info fs.FileInfo) time.Time {
	rc, err := f.SyscallConn()
	if err != nil {
		return info.ModTime()
	}
	var stx unix.Statx_t
	var statErr error
	err = rc.Control(func(fd uintptr) {
		statErr = unix.Statx(int(fd), "", unix.AT_EMPTY_PATH, unix.STATX_BTIME, &stx)
	})
	if err != nil || statErr != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
