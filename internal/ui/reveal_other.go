//go:build !darwin && !windows

package ui

import (
	"os/exec"
	"path/filepath"
)

// revealInFileManager opens the folder holding path with xdg-open
func revealInFileManager(path string) error {
	return exec.Command("xdg-open", filepath.Dir(path)).Start()
}
