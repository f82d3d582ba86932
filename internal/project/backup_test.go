package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/labelsheet/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.PreviewDPI = 150
	cfg.Theme = "dark"
	store := model.NewPresetStore()
	store.Add(model.NewUserPreset("Badges", model.DefaultPageConfig()))

	if err := ExportAllData(path, cfg, store); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.PreviewDPI != 150 {
		t.Errorf("expected PreviewDPI=150, got %f", backup.Config.PreviewDPI)
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", backup.Config.Theme)
	}
	if len(backup.Presets.Presets) != 2 || backup.Presets.FindByName("Badges") == nil {
		t.Errorf("expected default and Badges presets, got %v", backup.Presets.Names())
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"theme":"dark"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.NewPresetStore()); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataWithoutPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_files":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentFiles == nil {
		t.Error("RecentFiles should not be nil after import")
	}
	if backup.Presets.FindByID(model.DefaultPresetID) == nil {
		t.Error("imported store should hold the default preset")
	}
}
