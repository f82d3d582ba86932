package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/labelsheet/internal/model"
)

// ErrInvalidPresetFile is returned when an imported preset file does not
// hold a list of presets that each carry an id, a name and a config.
var ErrInvalidPresetFile = errors.New("invalid preset file format")

// DefaultPresetsPath returns the default file path for the preset store.
// This is located at ~/.labelsheet/presets.json.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns a store holding only the default preset.
func LoadPresets(path string) (model.PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	var store model.PresetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.PresetStore{}, err
	}
	store.EnsureDefault()
	return store, nil
}

// LoadDefaultPresets loads presets from the default path.
func LoadDefaultPresets() (model.PresetStore, error) {
	return LoadPresets(DefaultPresetsPath())
}

// SaveDefaultPresets saves presets to the default path.
func SaveDefaultPresets(store model.PresetStore) error {
	return SavePresets(DefaultPresetsPath(), store)
}

// ExportPresets writes the user presets of the store as a JSON array for
// sharing. Built-in presets are left out.
func ExportPresets(path string, store model.PresetStore) error {
	presets := []model.UserPreset{}
	for _, p := range store.Presets {
		if !p.IsBuiltIn {
			presets = append(presets, p)
		}
	}
	return writeJSON(path, presets)
}

// presetFileEntry keeps the raw config so a missing one can be told apart
// from an all-zero one.
type presetFileEntry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Config    json.RawMessage `json:"config"`
	CreatedAt string          `json:"created_at"`
}

// ImportPresets reads a file written by ExportPresets. Config keys missing
// from an entry keep their default values; imported presets are never
// built-in.
func ImportPresets(path string) ([]model.UserPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	var entries []presetFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresetFile, err)
	}

	presets := make([]model.UserPreset, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Name == "" || len(e.Config) == 0 || string(e.Config) == "null" {
			return nil, fmt.Errorf("%w: entry %d needs an id, a name and a config", ErrInvalidPresetFile, i+1)
		}
		cfg := model.DefaultPageConfig()
		if err := json.Unmarshal(e.Config, &cfg); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidPresetFile, i+1, err)
		}
		if cfg.UsedPositions == nil {
			cfg.UsedPositions = []model.Position{}
		}
		presets = append(presets, model.UserPreset{
			ID:        e.ID,
			Name:      e.Name,
			Config:    cfg,
			CreatedAt: e.CreatedAt,
		})
	}
	return presets, nil
}
