//go:build linux || darwin

package model

import "golang.org/x/sys/unix"

// platformCapacity returns total and available bytes using statfs
func platformCapacity(path string) (total, free int64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}

	// Bavail is what an unprivileged user can still write
	total = int64(stat.Blocks) * int64(stat.Bsize)
	free = int64(stat.Bavail) * int64(stat.Bsize)
	return total, free, nil
}
