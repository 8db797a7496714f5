//go:build linux

package scanner

// Kernel pseudo filesystems and removable media
var defaultExcludes = []string{
	"/proc",
	"/sys",
	"/dev",
	"/run",
	"/media",
}
