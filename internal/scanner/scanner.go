package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/lumipallolabs/storagespace/internal/model"
)

var (
	// ErrRootUnreadable is returned when the scan root cannot be listed
	ErrRootUnreadable = errors.New("scan root is unreadable")

	// ErrScanInProgress is returned when a scan is started while another runs
	ErrScanInProgress = errors.New("a scan is already in progress")
)

// Progress reports scanning progress
type Progress struct {
	CurrentDirectory string
	CurrentFile      string
	InProgress       bool

	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
}

// Options tune a Walker
type Options struct {
	// Excludes are absolute paths that are never descended into.
	// Nil means the OS default denylist.
	Excludes []string

	// OneFileSystem skips directories on a different device than the root
	OneFileSystem bool

	Workers int

	// ProgressInterval is how often snapshots are sent on the progress channel
	ProgressInterval time.Duration
}

// Scanner defines the interface for filesystem scanning
type Scanner interface {
	// Scan scans the given root path and returns a tree of nodes.
	// It returns (nil, nil) when root itself is excluded.
	// Snapshots are sent on progress (if non-nil) without blocking.
	Scan(ctx context.Context, root string, progress chan<- Progress) (*model.Node, error)

	// Snapshot returns the latest progress of the running scan
	Snapshot() Progress
}
