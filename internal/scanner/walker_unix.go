//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

// rootDevice returns the device id of path
func rootDevice(path string) (uint64, bool) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return 0, false
	}
	return uint64(stat.Dev), true
}

// onOtherDevice reports whether the directory entry lives on another filesystem
func onOtherDevice(d fs.DirEntry, dev uint64) bool {
	info, err := d.Info()
	if err != nil {
		return false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}

	return uint64(stat.Dev) != dev
}
