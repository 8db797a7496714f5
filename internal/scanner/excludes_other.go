//go:build !darwin && !linux

package scanner

var defaultExcludes []string
