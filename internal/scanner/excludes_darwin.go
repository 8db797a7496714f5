//go:build darwin

package scanner

// System folders, the firmlinked data volume and other mounted volumes
var defaultExcludes = []string{
	"/System",
	"/System/Volumes/Data",
	"/private/var",
	"/Volumes",
}
