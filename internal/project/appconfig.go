// Package project persists application settings, user presets and layout
// files under the user's ~/.labelsheet directory.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/labelsheet/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.labelsheet/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".labelsheet")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	if config.DefaultLayout.UsedPositions == nil {
		config.DefaultLayout.UsedPositions = []model.Position{}
	}
	return config, nil
}

// writeJSON marshals v with indentation, creating parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
