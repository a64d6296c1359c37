package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/service"
)

var (
	ErrPresetNotFound = service.ErrPresetNotFound
	ErrInvalidPreset  = engine.ErrInvalidPreset
	ErrInvalidName    = errors.New("invalid preset name")
)

// DefaultPresetID is loaded as the default when present
const DefaultPresetID = "classic"

var _ service.PresetManager = (*Manager)(nil)

// Manager handles setup preset loading and caching
type Manager struct {
	presetDir     string
	defaultPreset *engine.SetupPreset
	presets       map[string]*engine.SetupPreset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(presetDir string) (*Manager, error) {
	// Ensure preset directory exists
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}

	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*engine.SetupPreset),
	}

	m.defaultPreset = m.resolveDefault()
	return m, nil
}

// LoadPreset loads a preset by id (its file name without extension)
func (m *Manager) LoadPreset(name string) (*engine.SetupPreset, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	m.mu.RLock()
	// Check cache first
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	preset, err := m.readPreset(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another loader may have won the race
	if cached, exists := m.presets[name]; exists {
		return cached, nil
	}
	m.presets[name] = preset
	return preset, nil
}

func (m *Manager) readPreset(name string) (*engine.SetupPreset, error) {
	data, err := os.ReadFile(filepath.Join(m.presetDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset engine.SetupPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}

	if err := engine.ValidateSetupPreset(&preset); err != nil {
		return nil, invalidPreset(err)
	}

	return &preset, nil
}

// ListPresets returns information about all valid presets, sorted by id
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	presets := []*service.PresetInfo{}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadPreset(id)
		if err != nil {
			// Skip invalid presets
			continue
		}

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    id,
			Name:        preset.Name,
			Description: preset.Description,
		})
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].PresetID < presets[j].PresetID
	})

	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.SetupPreset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by id
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache drops cached presets and re-resolves the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*engine.SetupPreset)
	m.mu.Unlock()

	preset := m.resolveDefault()

	m.mu.Lock()
	m.defaultPreset = preset
	m.mu.Unlock()
}

// resolveDefault prefers classic.json, then the first valid preset, then the
// built-in layout.
func (m *Manager) resolveDefault() *engine.SetupPreset {
	if preset, err := m.LoadPreset(DefaultPresetID); err == nil {
		return preset
	}

	presets, err := m.ListPresets()
	if err != nil || len(presets) == 0 {
		return engine.DefaultPreset()
	}

	preset, err := m.LoadPreset(presets[0].PresetID)
	if err != nil {
		return engine.DefaultPreset()
	}
	return preset
}

// SavePreset validates a preset and writes it to disk
func (m *Manager) SavePreset(name string, preset *engine.SetupPreset) error {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if err := engine.ValidateSetupPreset(preset); err != nil {
		return invalidPreset(err)
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.presetDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[name] = preset
	m.mu.Unlock()

	return nil
}

func invalidPreset(err error) error {
	if errors.Is(err, ErrInvalidPreset) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
}
