//go:build unix

package fs

import (
	"os"
	"syscall"
)

func inode(info os.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}

	return uint64(stat.Ino), true
}
