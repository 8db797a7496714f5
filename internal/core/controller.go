package core

import (
	"context"
	"sync"
	"time"

	"github.com/lumipallolabs/storagespace/internal/logging"
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

// Controller manages the core application logic without UI dependencies.
// It owns at most one in-flight scan.
type Controller struct {
	mu sync.RWMutex

	root     *model.Node
	tree     *TreeState
	scan     ScanState
	lastPath string

	scanner scanner.Scanner
	volumes func() ([]model.Volume, error)
	volume  func(path string) (model.Volume, error)
}

// NewController creates a controller that scans with s
func NewController(s scanner.Scanner) *Controller {
	return &Controller{
		tree:    NewTreeState(),
		scanner: s,
		volumes: model.GetVolumes,
		volume:  model.VolumeForPath,
	}
}

// State returns a read-only snapshot of the current state
func (c *Controller) State() AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return AppState{
		Scan:     c.scan,
		Tree:     c.tree,
		LastPath: c.lastPath,
	}
}

// Root returns the root node of the scanned tree
func (c *Controller) Root() *model.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// ScanState returns the current scan state with live progress
func (c *Controller) ScanState() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.scan
	if s.Running() {
		s.Progress = c.scanner.Snapshot()
	}
	return s
}

// LastPath returns the root of the last successful scan
func (c *Controller) LastPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPath
}

// Volumes queries the OS for the current volume list. Nothing is cached.
func (c *Controller) Volumes() ([]model.Volume, error) {
	return c.volumes()
}

// VolumeForPath returns the volume holding path
func (c *Controller) VolumeForPath(path string) (model.Volume, error) {
	return c.volume(path)
}

// StartScan begins scanning path. The returned channel carries progress
// and a final ScanCompletedEvent, then closes.
func (c *Controller) StartScan(ctx context.Context, path string) (<-chan Event, error) {
	c.mu.Lock()

	if c.scan.Running() {
		c.mu.Unlock()
		return nil, scanner.ErrScanInProgress
	}

	c.scan = ScanState{
		Phase:     PhaseScanning,
		Path:      path,
		StartTime: time.Now(),
	}

	c.mu.Unlock()

	eventCh := make(chan Event, 100)

	go c.runScan(ctx, path, eventCh)

	return eventCh, nil
}

// Rescan scans the last successfully scanned folder again
func (c *Controller) Rescan(ctx context.Context) (<-chan Event, error) {
	path := c.LastPath()
	if path == "" {
		return nil, nil
	}
	return c.StartScan(ctx, path)
}

// runScan executes the scan in a goroutine
func (c *Controller) runScan(ctx context.Context, path string, eventCh chan Event) {
	defer close(eventCh)

	logging.App.Debug().Str("path", path).Msg("starting scan")

	eventCh <- ScanStartedEvent{Path: path}

	progressCh := make(chan scanner.Progress, 16)
	var forwardWg sync.WaitGroup
	forwardWg.Add(1)
	go func() {
		defer forwardWg.Done()
		for p := range progressCh {
			c.mu.Lock()
			c.scan.Progress = p
			c.mu.Unlock()

			// Progress is advisory; drop it rather than stall the scan
			select {
			case eventCh <- ScanProgressEvent{Progress: p}:
			default:
			}
		}
	}()

	root, err := c.scanner.Scan(ctx, path, progressCh)

	close(progressCh)
	forwardWg.Wait()

	c.mu.Lock()
	c.scan.EndTime = time.Now()
	c.scan.Progress = c.scanner.Snapshot()
	if err != nil {
		c.scan.Phase = PhaseFailed
		c.scan.Err = err
		c.mu.Unlock()

		logging.App.Debug().Err(err).Str("path", path).Msg("scan failed")
		eventCh <- ScanCompletedEvent{Path: path, Err: err}
		return
	}

	c.scan.Phase = PhaseComplete
	c.root = root
	c.tree = NewTreeState()
	if root != nil {
		c.lastPath = root.Path
		c.tree.Root = root
		c.tree.Selected = root
		c.tree.Expanded[root.Path] = true
	}
	c.mu.Unlock()

	eventCh <- ScanCompletedEvent{Path: path, Root: root}

	logging.App.Debug().Str("path", path).Msg("scan complete")
}

// FinalizeScan returns a finished scan to idle (after the UI showed the result)
func (c *Controller) FinalizeScan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.scan.Running() {
		c.scan.Phase = PhaseIdle
	}
}
