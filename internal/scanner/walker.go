package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/lumipallolabs/storagespace/internal/logging"
	"github.com/lumipallolabs/storagespace/internal/model"
)

const defaultProgressInterval = 100 * time.Millisecond

// Walker implements parallel filesystem scanning
type Walker struct {
	opts     Options
	excludes excludeSet

	busy atomic.Bool

	filesScanned atomic.Int64
	dirsScanned  atomic.Int64
	bytesFound   atomic.Int64

	mu          sync.Mutex
	currentDir  string
	currentFile string
	inProgress  bool
}

// NewWalker creates a new parallel filesystem walker
func NewWalker(opts Options) *Walker {
	if opts.Workers < 1 {
		opts.Workers = max(4, runtime.NumCPU())
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = defaultProgressInterval
	}
	excludes := opts.Excludes
	if excludes == nil {
		excludes = defaultExcludes
	}
	return &Walker{
		opts:     opts,
		excludes: newExcludeSet(excludes),
	}
}

// Snapshot returns the latest progress. Safe to call from any goroutine.
func (w *Walker) Snapshot() Progress {
	w.mu.Lock()
	p := Progress{
		CurrentDirectory: w.currentDir,
		CurrentFile:      w.currentFile,
		InProgress:       w.inProgress,
	}
	w.mu.Unlock()

	p.FilesScanned = w.filesScanned.Load()
	p.DirsScanned = w.dirsScanned.Load()
	p.BytesFound = w.bytesFound.Load()
	return p
}

func (w *Walker) setCurrent(dir, file string) {
	w.mu.Lock()
	if dir != "" {
		w.currentDir = dir
	}
	w.currentFile = file
	w.mu.Unlock()
}

func (w *Walker) begin(root string) {
	w.filesScanned.Store(0)
	w.dirsScanned.Store(0)
	w.bytesFound.Store(0)

	w.mu.Lock()
	w.currentDir = root
	w.currentFile = ""
	w.inProgress = true
	w.mu.Unlock()
}

func (w *Walker) finish() {
	w.mu.Lock()
	w.currentFile = ""
	w.inProgress = false
	w.mu.Unlock()
}

// nodeEntry is a temporary structure for building the tree
type nodeEntry struct {
	path  string
	name  string
	size  int64
	isDir bool
}

// Scan scans the filesystem starting at root using fastwalk
func (w *Walker) Scan(ctx context.Context, root string, progress chan<- Progress) (*model.Node, error) {
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer w.busy.Store(false)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot = filepath.Clean(absRoot)

	if w.excludes.contains(absRoot) {
		logging.Scanner.Debug().Str("root", absRoot).Msg("root is excluded, nothing to scan")
		return nil, nil
	}

	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}
	if !rootInfo.IsDir() {
		return &model.Node{Path: absRoot, Name: filepath.Base(absRoot), Size: rootInfo.Size()}, nil
	}
	if err := checkReadable(absRoot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}

	start := time.Now()
	w.begin(absRoot)
	stopReporter := w.reportProgress(progress)
	defer func() {
		w.finish()
		stopReporter()
		if progress != nil {
			select {
			case progress <- w.Snapshot():
			default:
			}
		}
	}()

	rootDev, haveDev := rootDevice(absRoot)
	oneFS := w.opts.OneFileSystem && haveDev

	// Use channels for lock-free entry collection
	entryChan := make(chan nodeEntry, 50000)
	var entries []nodeEntry
	var entriesWg sync.WaitGroup

	// Collect entries in background without blocking
	entriesWg.Add(1)
	go func() {
		defer entriesWg.Done()
		for e := range entryChan {
			entries = append(entries, e)
		}
	}()

	// Directories whose listing failed; they are pruned from the tree
	var failedDirs sync.Map

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: w.opts.Workers,
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Unreadable entries are skipped and count as zero bytes
			logging.Scanner.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if path != absRoot {
				failedDirs.Store(path, struct{}{})
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		if w.excludes.contains(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if oneFS && onOtherDevice(d, rootDev) {
				logging.Scanner.Debug().Str("path", path).Msg("skipping mount point")
				return fs.SkipDir
			}
			w.dirsScanned.Add(1)
			w.setCurrent(path, "")
			entryChan <- nodeEntry{path: path, name: d.Name(), isDir: true}
			return nil
		}

		// Symlinks are not followed, so Info is the link's own lstat
		info, err := d.Info()
		if err != nil {
			logging.Scanner.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			return nil
		}

		size := info.Size()
		w.filesScanned.Add(1)
		w.bytesFound.Add(size)
		w.setCurrent("", path)

		entryChan <- nodeEntry{path: path, name: d.Name(), size: size}
		return nil
	})

	// Close channel and wait for collector to finish
	close(entryChan)
	entriesWg.Wait()

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			logging.Scanner.Debug().Str("root", absRoot).Msg("scan cancelled")
			return nil, walkErr
		}
		return nil, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	rootNode := buildTree(absRoot, entries, &failedDirs)

	logging.Scanner.Debug().
		Str("root", absRoot).
		Int64("files", w.filesScanned.Load()).
		Int64("dirs", w.dirsScanned.Load()).
		Int64("bytes", rootNode.Size).
		Dur("took", logging.Since(start)).
		Msg("scan complete")

	return rootNode, nil
}

// checkReadable verifies a directory can be listed. An empty directory is fine.
func checkReadable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// reportProgress sends snapshots on progress every interval until stopped
func (w *Walker) reportProgress(progress chan<- Progress) (stop func()) {
	if progress == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(w.opts.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case progress <- w.Snapshot():
				default:
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// buildTree constructs the tree structure from flat entries.
// Entries below a failed directory are dropped along with it.
func buildTree(rootPath string, entries []nodeEntry, failedDirs *sync.Map) *model.Node {
	nodes := make(map[string]*model.Node, len(entries)+1)
	childCounts := make(map[string]int, len(entries)/10+1)

	rootNode := &model.Node{
		Path:  rootPath,
		Name:  filepath.Base(rootPath),
		IsDir: true,
	}
	nodes[rootPath] = rootNode

	var failed []string
	failedDirs.Range(func(key, _ any) bool {
		failed = append(failed, key.(string))
		return true
	})

	// First pass: count children per parent and create nodes
	for i := range entries {
		e := &entries[i]
		if underAny(e.path, failed) {
			continue
		}
		childCounts[filepath.Dir(e.path)]++
		nodes[e.path] = &model.Node{
			Path:  e.path,
			Name:  e.name,
			Size:  e.size,
			IsDir: e.isDir,
		}
	}

	for path, count := range childCounts {
		if node, exists := nodes[path]; exists {
			node.Children = make([]*model.Node, 0, count)
		}
	}

	// Second pass: link parent/child relationships
	for i := range entries {
		e := &entries[i]
		node, ok := nodes[e.path]
		if !ok {
			continue
		}
		if parent, exists := nodes[filepath.Dir(e.path)]; exists {
			node.Parent = parent
			parent.Children = append(parent.Children, node)
		}
	}

	// Workers finish in any order; name order makes repeated scans identical
	for _, node := range nodes {
		if len(node.Children) > 1 {
			model.SortChildren(node.Children, model.SortNameAsc)
		}
	}

	rootNode.ComputeSizes()
	return rootNode
}

// underAny reports whether path is one of dirs or lies below one of them
func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)
