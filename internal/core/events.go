package core

import (
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan begins
type ScanStartedEvent struct {
	Path string
}

func (ScanStartedEvent) isEvent() {}

// ScanProgressEvent is emitted periodically during scanning
type ScanProgressEvent struct {
	Progress scanner.Progress
}

func (ScanProgressEvent) isEvent() {}

// ScanCompletedEvent is emitted when scan finishes.
// Root is nil with a nil Err when the path was excluded.
type ScanCompletedEvent struct {
	Path string
	Root *model.Node
	Err  error
}

func (ScanCompletedEvent) isEvent() {}

// Excluded reports whether the scan finished without a tree because the
// root is on the denylist
func (e ScanCompletedEvent) Excluded() bool {
	return e.Root == nil && e.Err == nil
}
