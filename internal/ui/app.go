package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/core"
	"github.com/lumipallolabs/storagespace/internal/logging"
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
)

// Panel identifies which panel is active
type Panel int

const (
	PanelTree Panel = iota
	PanelTreemap
)

const focusDebounceTimeout = 300 * time.Millisecond

// scanStartMsg asks the app to scan path
type scanStartMsg struct{ path string }

// scanEventMsg wraps a controller event for continued listening
type scanEventMsg struct{ event core.Event }

type volumesMsg struct {
	volumes []model.Volume
	err     error
}

type volumeForPathMsg struct{ volume *model.Volume }

// focusDebounceMsg triggers a debounced treemap focus update
type focusDebounceMsg struct {
	version int
	node    *model.Node
}

// AppOptions configures the interactive view for one run
type AppOptions struct {
	Path        string
	SortOrder   model.SortOrder
	PercentFull bool
	ShowVolumes bool
}

// App is the main TUI application model
type App struct {
	ctrl     *core.Controller
	settings *config.Manager

	header  Header
	tree    TreePanel
	treemap TreemapPanel
	volumes VolumesPanel
	details *DetailsPanel
	help    HelpOverlay
	keys    KeyMap

	activePanel  Panel
	showVolumes  bool
	percentFull  bool
	path         string
	err          error
	notice       string
	focusVersion int // for debouncing

	scanEventCh <-chan core.Event
	cancelScan  context.CancelFunc

	width  int
	height int
}

// NewApp creates a new application instance
func NewApp(ctrl *core.Controller, settings *config.Manager, opts AppOptions) App {
	keys := DefaultKeyMap()
	app := App{
		ctrl:        ctrl,
		settings:    settings,
		header:      NewHeader(opts.SortOrder),
		tree:        NewTreePanel(opts.SortOrder),
		treemap:     NewTreemapPanel(),
		volumes:     NewVolumesPanel(opts.PercentFull),
		details:     NewDetailsPanel(),
		help:        NewHelpOverlay(keys),
		keys:        keys,
		activePanel: PanelTree,
		showVolumes: opts.ShowVolumes,
		percentFull: opts.PercentFull,
		path:        opts.Path,
	}

	app.tree.SetFocused(true)
	app.treemap.SetFocused(false)
	app.header.SetPath(opts.Path)
	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("STORAGESPACE"), a.loadVolumes()}
	if a.path != "" {
		path := a.path
		cmds = append(cmds, func() tea.Msg { return scanStartMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case scanStartMsg:
		return a.startScan(msg.path)

	case scanEventMsg:
		return a.handleScanEvent(msg.event)

	case volumesMsg:
		a.volumes.SetVolumes(msg.volumes, msg.err)
		a.updateLayout()
		return a, nil

	case volumeForPathMsg:
		a.header.SetVolume(msg.volume)
		return a, nil

	case focusDebounceMsg:
		if msg.version == a.focusVersion && msg.node != nil {
			a.treemap.SetFocus(msg.node)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.header, cmd = a.header.Update(msg)
		return a, cmd
	}

	return a, nil
}

// startScan asks the controller for a scan and starts listening for its events
func (a App) startScan(path string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	eventCh, err := a.ctrl.StartScan(ctx, path)
	if err != nil {
		cancel()
		if !errors.Is(err, scanner.ErrScanInProgress) {
			a.err = err
		}
		return a, nil
	}

	a.cancelScan = cancel
	a.scanEventCh = eventCh
	a.path = path
	a.err = nil
	a.notice = ""
	a.header.SetPath(path)
	a.header.SetScanning(true)
	a.tree.SetRoot(nil)
	a.treemap.SetRoot(nil)

	return a, tea.Batch(a.listenForScanEvents(), a.header.Tick)
}

// listenForScanEvents creates a command that waits for the next scan event
func (a App) listenForScanEvents() tea.Cmd {
	if a.scanEventCh == nil {
		return nil
	}
	eventCh := a.scanEventCh
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return scanEventMsg{event: event}
	}
}

// handleScanEvent processes scan events and continues listening
func (a App) handleScanEvent(event core.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case core.ScanProgressEvent:
		a.header.SetProgress(e.Progress)
		return a, a.listenForScanEvents()

	case core.ScanCompletedEvent:
		a.scanEventCh = nil
		if a.cancelScan != nil {
			a.cancelScan()
			a.cancelScan = nil
		}
		a.header.SetScanning(false)
		a.ctrl.FinalizeScan()

		switch {
		case e.Err != nil:
			logging.App.Debug().Err(e.Err).Str("path", e.Path).Msg("scan failed")
			a.err = e.Err
			return a, nil
		case e.Excluded():
			a.notice = fmt.Sprintf("%s is excluded from scanning", e.Path)
			return a, nil
		}

		// The root carries the absolute path, e.Path is as typed
		path := e.Root.Path
		a.path = path
		a.header.SetPath(path)
		a.tree.SetRoot(e.Root)
		a.treemap.SetRoot(e.Root)
		a.updateLayout()
		if a.settings != nil {
			a.settings.SetLastFolder(path)
		}
		// Free space may have changed since the panel was filled
		return a, tea.Batch(a.loadVolumeForPath(path), a.loadVolumes())

	default:
		return a, a.listenForScanEvents()
	}
}

// loadVolumes queries the OS for mounted volumes
func (a App) loadVolumes() tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		vols, err := ctrl.Volumes()
		return volumesMsg{volumes: vols, err: err}
	}
}

// loadVolumeForPath looks up the volume holding path
func (a App) loadVolumeForPath(path string) tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		vol, err := ctrl.VolumeForPath(path)
		if err != nil {
			logging.App.Debug().Err(err).Str("path", path).Msg("no volume for path")
			return volumeForPathMsg{}
		}
		return volumeForPathMsg{volume: &vol}
	}
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay - any key closes it
	if a.help.IsVisible() {
		a.help.SetVisible(false)
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.cancelScan != nil {
			a.cancelScan()
		}
		if a.settings != nil {
			if err := a.settings.Close(); err != nil {
				logging.App.Debug().Err(err).Msg("saving settings")
			}
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Rescan):
		// Disabled while a scan is in flight
		if a.header.Scanning() {
			return a, nil
		}
		path := a.ctrl.LastPath()
		if path == "" {
			path = a.path
		}
		if path == "" {
			return a, nil
		}
		return a.startScan(path)

	case key.Matches(msg, a.keys.CycleSort):
		order := a.tree.SortOrder().Next()
		a.tree.SetSortOrder(order)
		a.header.SetSortOrder(order)
		if a.settings != nil {
			a.settings.SetSortOrder(order)
		}
		return a, nil

	case key.Matches(msg, a.keys.TogglePercent):
		a.percentFull = !a.percentFull
		a.volumes.SetPercentFull(a.percentFull)
		if a.settings != nil {
			a.settings.SetShowPercentFull(a.percentFull)
		}
		return a, nil

	case key.Matches(msg, a.keys.ToggleVolumes):
		a.showVolumes = !a.showVolumes
		if a.settings != nil {
			a.settings.SetShowVolumesPanel(a.showVolumes)
		}
		a.updateLayout()
		if a.showVolumes {
			return a, a.loadVolumes()
		}
		return a, nil

	case key.Matches(msg, a.keys.Reveal):
		a.reveal()
		return a, nil
	}

	if a.tree.Selected() == nil {
		return a, nil
	}
	return a.handleNavigation(msg)
}

// handleNavigation moves around the tree and treemap
func (a App) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Tab):
		if a.activePanel == PanelTree {
			a.activePanel = PanelTreemap
			a.tree.SetFocused(false)
			a.treemap.SetFocused(true)
			a.treemap.SelectFirst()
			return a, nil
		}
		a.activePanel = PanelTree
		a.tree.SetFocused(true)
		a.treemap.SetFocused(false)
		return a, a.syncSelection()

	case key.Matches(msg, a.keys.Up):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(0, -1)
			return a, nil
		}
		a.tree.MoveUp()
		return a, a.syncSelection()

	case key.Matches(msg, a.keys.Down):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(0, 1)
			return a, nil
		}
		a.tree.MoveDown()
		return a, a.syncSelection()

	case key.Matches(msg, a.keys.Left):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(-1, 0)
			return a, nil
		}
		a.tree.Collapse()
		a.updateLayout()
		return a, a.syncSelection()

	case key.Matches(msg, a.keys.Right):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(1, 0)
			return a, nil
		}
		a.tree.Expand()
		a.updateLayout()
		return a, nil

	case key.Matches(msg, a.keys.Top):
		if a.activePanel == PanelTree {
			a.tree.GoToTop()
			return a, a.syncSelection()
		}

	case key.Matches(msg, a.keys.Bottom):
		if a.activePanel == PanelTree {
			a.tree.GoToBottom()
			return a, a.syncSelection()
		}

	case key.Matches(msg, a.keys.PageUp):
		if a.activePanel == PanelTree {
			a.tree.PageUp()
			return a, a.syncSelection()
		}

	case key.Matches(msg, a.keys.PageDown):
		if a.activePanel == PanelTree {
			a.tree.PageDown()
			return a, a.syncSelection()
		}

	case key.Matches(msg, a.keys.Enter):
		if a.activePanel == PanelTreemap {
			a.treemap.ZoomIn()
			// Keep the tree on the same node as the treemap
			if node := a.treemap.Selected(); node != nil {
				a.tree.ExpandTo(node)
				a.updateLayout()
			}
			return a, nil
		}
		a.tree.Toggle()
		a.updateLayout()
		return a, a.syncSelection()

	case key.Matches(msg, a.keys.Back):
		if a.activePanel == PanelTreemap {
			a.treemap.ZoomOut()
			return a, nil
		}
		a.tree.Collapse()
		a.updateLayout()
		return a, a.syncSelection()
	}

	return a, nil
}

// syncSelection syncs the tree selection to the treemap
func (a *App) syncSelection() tea.Cmd {
	node := a.tree.Selected()
	if node == nil {
		return nil
	}
	a.treemap.SetSelected(node)

	// Refocus the treemap once the cursor rests on a folder
	if node.IsDir && len(node.Children) > 0 {
		a.focusVersion++
		version := a.focusVersion
		return tea.Tick(focusDebounceTimeout, func(time.Time) tea.Msg {
			return focusDebounceMsg{version: version, node: node}
		})
	}
	return nil
}

// selected returns the node selected in the active panel
func (a App) selected() *model.Node {
	if a.activePanel == PanelTreemap {
		return a.treemap.Selected()
	}
	return a.tree.Selected()
}

// reveal shows the selected item in the system file manager
func (a App) reveal() {
	node := a.selected()
	if node == nil {
		return
	}
	if err := revealInFileManager(node.Path); err != nil {
		logging.App.Debug().Err(err).Str("path", node.Path).Msg("reveal failed")
	}
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	a.header.SetWidth(a.width)
	a.volumes.SetWidth(a.width)
	a.help.SetSize(a.width, a.height)

	// header + details line + help bar + tree border
	fixed := 5
	if a.showVolumes {
		fixed += a.volumes.Height()
	}
	if a.err != nil || a.notice != "" {
		fixed++
	}
	panelHeight := max(1, a.height-fixed)

	// Tree panel takes only what it needs, max 50% of screen
	treeWidth := max(20, min(a.tree.RequiredWidth(), a.width/2))

	a.tree.SetSize(treeWidth, panelHeight)
	a.treemap.SetSize(max(1, a.width-treeWidth-2), panelHeight+2)
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.help.IsVisible() {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.help.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(ColorBackground),
		)
	}

	sections := []string{a.header.View()}

	if a.err != nil {
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
	} else if a.notice != "" {
		sections = append(sections, LabelStyle.Padding(0, 1).Render(a.notice))
	}

	if a.showVolumes {
		sections = append(sections, a.volumes.View())
	}

	if a.tree.Selected() == nil {
		sections = append(sections, a.placeholder())
	} else {
		panels := lipgloss.JoinHorizontal(lipgloss.Top, a.tree.View(), a.treemap.View())
		sections = append(sections, panels, a.details.View(a.selected(), a.width))
	}

	sections = append(sections, HelpBar(a.keys, a.width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// placeholder fills the panel area while there is no tree to show
func (a App) placeholder() string {
	fixed := 3
	if a.showVolumes {
		fixed += a.volumes.Height()
	}
	if a.err != nil || a.notice != "" {
		fixed++
	}
	height := max(1, a.height-fixed)

	var content string
	switch {
	case a.header.Scanning():
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 3).
			Width(min(60, max(20, a.width-4)))
		progress := a.ctrl.ScanState().Progress
		content = box.Render(lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Render("Scanning") +
			"\n" + LabelStyle.Render(truncate(StatusLine(progress), min(52, max(10, a.width-12)))))
	case a.path == "":
		content = LabelStyle.Render("No folder selected. Run storagespace PATH to scan one.")
	default:
		content = LabelStyle.Render("Press r to scan " + a.path)
	}

	return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, content)
}
