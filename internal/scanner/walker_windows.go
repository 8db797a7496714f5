//go:build windows

package scanner

import "io/fs"

// rootDevice is not needed on Windows: each drive letter is its own root
func rootDevice(path string) (uint64, bool) {
	return 0, false
}

func onOtherDevice(d fs.DirEntry, dev uint64) bool {
	return false
}
