package core

import (
	"time"

	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

// ScanPhase represents the current phase of scanning
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseScanning
	PhaseComplete
	PhaseFailed
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning"
	case PhaseComplete:
		return "Complete"
	case PhaseFailed:
		return "Failed"
	default:
		return ""
	}
}

// ScanState holds the current scan state
type ScanState struct {
	Phase     ScanPhase
	Path      string
	StartTime time.Time
	EndTime   time.Time
	Progress  scanner.Progress
	Err       error
}

// Running reports whether a scan is in flight
func (s ScanState) Running() bool {
	return s.Phase == PhaseScanning
}

// Elapsed returns the scan duration so far, or its total once finished
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartTime).Truncate(time.Second)
}

// TreeState holds tree navigation state
type TreeState struct {
	Root     *model.Node
	Selected *model.Node
	Expanded map[string]bool // Path -> expanded
}

// NewTreeState creates a new tree state
func NewTreeState() *TreeState {
	return &TreeState{
		Expanded: make(map[string]bool),
	}
}

// AppState holds the complete application state (read-only view)
type AppState struct {
	Scan     ScanState
	Tree     *TreeState
	LastPath string // root of the last successful scan
}
