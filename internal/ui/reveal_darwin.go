//go:build darwin

package ui

import "os/exec"

// revealInFileManager selects path in a Finder window
func revealInFileManager(path string) error {
	return exec.Command("open", "-R", path).Start()
}
