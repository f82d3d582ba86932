package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPresetID identifies the built-in preset holding DefaultPageConfig.
const DefaultPresetID = "default"

// UserPreset is a named, saved page configuration.
type UserPreset struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Config    PageConfig `json:"config"`
	IsBuiltIn bool       `json:"is_built_in"`
	CreatedAt string     `json:"created_at"`
}

// NewUserPreset captures a config under a fresh ID.
func NewUserPreset(name string, config PageConfig) UserPreset {
	return UserPreset{
		ID:        "preset_" + uuid.New().String()[:8],
		Name:      name,
		Config:    config.Clone(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// DefaultUserPreset is the built-in preset every store starts with.
func DefaultUserPreset() UserPreset {
	return UserPreset{
		ID:        DefaultPresetID,
		Name:      "Default Configuration",
		Config:    DefaultPageConfig(),
		IsBuiltIn: true,
	}
}

// PresetStore holds a collection of user presets.
type PresetStore struct {
	Presets []UserPreset `json:"presets"`
}

// NewPresetStore creates a store holding only the default preset.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []UserPreset{DefaultUserPreset()},
	}
}

// EnsureDefault prepends the built-in default preset when it is missing.
func (ps *PresetStore) EnsureDefault() {
	if ps.FindByID(DefaultPresetID) == nil {
		ps.Presets = append([]UserPreset{DefaultUserPreset()}, ps.Presets...)
	}
}

// Add adds a preset to the store.
func (ps *PresetStore) Add(p UserPreset) {
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Built-in presets cannot be removed.
// Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			if p.IsBuiltIn {
				return false
			}
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *UserPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *UserPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names for UI dropdowns.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}

// Merge folds incoming presets into the store. Presets with an unknown ID are
// appended; for a known ID the incoming copy replaces the stored one when its
// CreatedAt is later. Built-in presets are never replaced. Returns the number
// of presets added or replaced.
func (ps *PresetStore) Merge(incoming []UserPreset) int {
	changed := 0
	for _, in := range incoming {
		existing := ps.FindByID(in.ID)
		if existing == nil {
			ps.Presets = append(ps.Presets, in)
			changed++
			continue
		}
		if existing.IsBuiltIn {
			continue
		}
		if newerThan(in.CreatedAt, existing.CreatedAt) {
			*existing = in
			changed++
		}
	}
	return changed
}

// newerThan compares RFC 3339 timestamps; unparsable values are treated as oldest.
func newerThan(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	if errA != nil {
		return false
	}
	tb, errB := time.Parse(time.RFC3339, b)
	if errB != nil {
		return true
	}
	return ta.After(tb)
}
