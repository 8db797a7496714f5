//go:build windows

package ui

import "os/exec"

// revealInFileManager selects path in an Explorer window
func revealInFileManager(path string) error {
	return exec.Command("explorer.exe", "/select,"+path).Start()
}
