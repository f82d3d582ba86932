package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/labelsheet/internal/model"
)

// ErrInvalidLayout is returned when a layout file parses but describes an
// unusable sheet.
var ErrInvalidLayout = errors.New("invalid layout")

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadPageConfig reads a sheet layout from a YAML (.yaml, .yml) or JSON file.
// Keys missing from the file keep the values of DefaultPageConfig. A layout
// that fails validation is returned together with ErrInvalidLayout.
func LoadPageConfig(path string) (model.PageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PageConfig{}, fmt.Errorf("failed to read layout file: %w", err)
	}

	cfg := model.DefaultPageConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return model.PageConfig{}, fmt.Errorf("failed to parse layout file %s: %w", filepath.Base(path), err)
	}
	if cfg.UsedPositions == nil {
		cfg.UsedPositions = []model.Position{}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidLayout, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// SavePageConfig writes a sheet layout as YAML or JSON depending on the
// file extension.
func SavePageConfig(path string, cfg model.PageConfig) error {
	if !isYAML(path) {
		return writeJSON(path, cfg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
