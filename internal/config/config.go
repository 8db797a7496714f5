package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lumipallolabs/storagespace/internal/model"
)

// ErrInvalidSortOrder is returned when the settings file names an unknown sort order
var ErrInvalidSortOrder = errors.New("invalid sort order")

// Settings holds presentation preferences. None of these affect scanning.
type Settings struct {
	SortOrder        model.SortOrder `json:"sort_order"`
	ShowPercentFull  bool            `json:"show_percent_full"`
	ShowVolumesPanel bool            `json:"show_volumes_panel"`
	LastFolder       string          `json:"last_folder,omitempty"` // Root of the last successful scan
}

// Defaults returns the settings used when no file exists
func Defaults() Settings {
	return Settings{
		SortOrder:        model.SortNameAsc,
		ShowPercentFull:  true,
		ShowVolumesPanel: true,
	}
}

// Manager handles loading and saving settings
type Manager struct {
	path         string
	settings     Settings
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a settings manager backed by path.
// An empty path means DefaultPath.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{
		path:         path,
		settings:     Defaults(),
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// DefaultPath returns the per-user settings file path
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storagespace.json"
	}
	return filepath.Join(dir, "storagespace", "settings.json")
}

// Path returns the settings file location
func (m *Manager) Path() string {
	return m.path
}

// Load loads settings from disk. Fields missing from the file keep
// their defaults; an unknown sort order falls back to the default.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No settings file yet, start fresh
			m.settings = Defaults()
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}

	settings := Defaults()
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse settings %s: %w", m.path, err)
	}

	if !settings.SortOrder.Valid() {
		bad := settings.SortOrder
		settings.SortOrder = model.SortNameAsc
		m.settings = settings
		return fmt.Errorf("%w %q in %s", ErrInvalidSortOrder, bad, m.path)
	}

	m.settings = settings
	return nil
}

// Save saves settings to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves settings without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// Settings returns a copy of the current settings
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetSortOrder stores the tree sort order
func (m *Manager) SetSortOrder(o model.SortOrder) {
	m.update(func(s *Settings) bool {
		if s.SortOrder == o || !o.Valid() {
			return false
		}
		s.SortOrder = o
		return true
	})
}

// SetShowPercentFull chooses between percent full and percent free
func (m *Manager) SetShowPercentFull(full bool) {
	m.update(func(s *Settings) bool {
		if s.ShowPercentFull == full {
			return false
		}
		s.ShowPercentFull = full
		return true
	})
}

// SetShowVolumesPanel shows or hides the volumes panel
func (m *Manager) SetShowVolumesPanel(show bool) {
	m.update(func(s *Settings) bool {
		if s.ShowVolumesPanel == show {
			return false
		}
		s.ShowVolumesPanel = show
		return true
	})
}

// SetLastFolder records the root of the last successful scan
func (m *Manager) SetLastFolder(path string) {
	m.update(func(s *Settings) bool {
		if s.LastFolder == path {
			return false
		}
		s.LastFolder = path
		return true
	})
}

// update applies fn and schedules a debounced save if anything changed
func (m *Manager) update(fn func(*Settings) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !fn(&m.settings) {
		return
	}
	m.dirty = true

	// Cancel any pending save timer
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close ensures any pending saves are written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
