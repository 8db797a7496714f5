package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/core"
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

// stubScanner returns a fixed tree
type stubScanner struct {
	root *model.Node
	err  error
}

func (s *stubScanner) Scan(ctx context.Context, root string, progress chan<- scanner.Progress) (*model.Node, error) {
	return s.root, s.err
}

func (s *stubScanner) Snapshot() scanner.Progress {
	return scanner.Progress{}
}

func sampleTree() *model.Node {
	root := &model.Node{Name: "data", Path: "/data", IsDir: true}
	docs := &model.Node{Name: "docs", Path: "/data/docs", IsDir: true, Parent: root}
	docs.Children = []*model.Node{
		{Name: "a.txt", Path: "/data/docs/a.txt", Size: 300, Parent: docs},
	}
	root.Children = []*model.Node{
		docs,
		{Name: "big.iso", Path: "/data/big.iso", Size: 5000, Parent: root},
	}
	root.ComputeSizes()
	return root
}

func newTestApp(t *testing.T, s scanner.Scanner) (App, *config.Manager) {
	t.Helper()
	mgr := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	t.Cleanup(func() { mgr.Close() })

	app := NewApp(core.NewController(s), mgr, AppOptions{
		Path:        "/data",
		SortOrder:   model.SortNameAsc,
		PercentFull: true,
		ShowVolumes: true,
	})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App), mgr
}

// runScan starts a scan and feeds its events back until it completes
func runScan(t *testing.T, app App) App {
	t.Helper()
	return runScanPath(t, app, "/data")
}

func runScanPath(t *testing.T, app App, path string) App {
	t.Helper()
	m, _ := app.Update(scanStartMsg{path: path})
	app = m.(App)
	if !app.header.Scanning() {
		t.Fatal("expected header to show a running scan")
	}

	for i := 0; i < 100 && app.scanEventCh != nil; i++ {
		msg := app.listenForScanEvents()()
		if msg == nil {
			break
		}
		m, _ = app.Update(msg)
		app = m.(App)
	}
	return app
}

func keyPress(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestAppScanShowsTree(t *testing.T) {
	app, mgr := newTestApp(t, &stubScanner{root: sampleTree()})
	app = runScan(t, app)

	if app.header.Scanning() {
		t.Error("expected scan to be finished")
	}
	if app.err != nil {
		t.Fatalf("unexpected error: %v", app.err)
	}
	if got := app.tree.Selected(); got == nil || got.Path != "/data" {
		t.Fatalf("expected root selected, got %v", got)
	}
	if len(app.tree.Visible()) != 3 {
		t.Errorf("expected root and 2 children visible, got %d", len(app.tree.Visible()))
	}
	if mgr.Settings().LastFolder != "/data" {
		t.Errorf("expected last folder saved, got %q", mgr.Settings().LastFolder)
	}
	if app.View() == "" {
		t.Error("expected a rendered view")
	}
}

func TestAppSavesAbsoluteLastFolder(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "a.txt"), make([]byte, 10), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmp)
	want, err := filepath.Abs(".")
	if err != nil {
		t.Fatal(err)
	}

	app, mgr := newTestApp(t, scanner.NewWalker(scanner.Options{Excludes: []string{}}))
	app = runScanPath(t, app, ".")

	if app.err != nil {
		t.Fatalf("unexpected error: %v", app.err)
	}
	got := mgr.Settings().LastFolder
	if !filepath.IsAbs(got) || got != want {
		t.Errorf("expected last folder %s, got %q", want, got)
	}
	if app.path != want {
		t.Errorf("expected app path %s, got %q", want, app.path)
	}
}

func TestAppScanError(t *testing.T) {
	app, _ := newTestApp(t, &stubScanner{err: scanner.ErrRootUnreadable})
	app = runScan(t, app)

	if app.err == nil {
		t.Fatal("expected error to be shown")
	}
	if app.tree.Selected() != nil {
		t.Error("expected no tree after a failed scan")
	}
}

func TestAppExcludedRoot(t *testing.T) {
	app, _ := newTestApp(t, &stubScanner{})
	app = runScan(t, app)

	if app.err != nil {
		t.Errorf("expected no error for an excluded root, got %v", app.err)
	}
	if app.notice == "" {
		t.Error("expected a notice for an excluded root")
	}
}

func TestAppCycleSortPersists(t *testing.T) {
	app, mgr := newTestApp(t, &stubScanner{root: sampleTree()})
	app = runScan(t, app)

	m, _ := app.Update(keyPress("s"))
	app = m.(App)

	if app.tree.SortOrder() != model.SortNameDesc {
		t.Errorf("expected name-desc, got %s", app.tree.SortOrder())
	}
	if mgr.Settings().SortOrder != model.SortNameDesc {
		t.Errorf("expected setting to follow, got %s", mgr.Settings().SortOrder)
	}

	// Visible rows follow the new order: root, then docs before big.iso
	visible := app.tree.Visible()
	if visible[1].Name != "docs" || visible[2].Name != "big.iso" {
		t.Errorf("unexpected order: %s, %s", visible[1].Name, visible[2].Name)
	}
}

func TestAppToggles(t *testing.T) {
	app, mgr := newTestApp(t, &stubScanner{root: sampleTree()})

	m, _ := app.Update(keyPress("p"))
	app = m.(App)
	if app.percentFull || mgr.Settings().ShowPercentFull {
		t.Error("expected percent-free after toggle")
	}

	m, _ = app.Update(keyPress("v"))
	app = m.(App)
	if app.showVolumes || mgr.Settings().ShowVolumesPanel {
		t.Error("expected volumes panel hidden after toggle")
	}
}

func TestAppRescanDisabledWhileScanning(t *testing.T) {
	app, _ := newTestApp(t, &stubScanner{root: sampleTree()})
	app.header.SetScanning(true)

	_, cmd := app.Update(keyPress("r"))
	if cmd != nil {
		t.Error("expected rescan to be ignored during a scan")
	}
}

func TestAppQuitFlushesSettings(t *testing.T) {
	app, mgr := newTestApp(t, &stubScanner{root: sampleTree()})

	m, _ := app.Update(keyPress("s"))
	app = m.(App)
	_, cmd := app.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	loaded := config.NewManager(mgr.Path())
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Settings().SortOrder != model.SortNameDesc {
		t.Errorf("expected saved sort order, got %s", loaded.Settings().SortOrder)
	}
}
