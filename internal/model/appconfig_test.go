package model

import "testing"

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.DefaultPreset != DefaultPresetID {
		t.Errorf("expected default preset %q, got %q", DefaultPresetID, cfg.DefaultPreset)
	}
	if cfg.PreviewDPI != ScreenDPI {
		t.Errorf("expected preview DPI %v, got %v", ScreenDPI, cfg.PreviewDPI)
	}
	if cfg.AnalysisMaxImageSize != 1200 {
		t.Errorf("expected analysis max image size 1200, got %d", cfg.AnalysisMaxImageSize)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil")
	}
	if len(cfg.DefaultLayout.Validate()) != 0 {
		t.Errorf("default layout should be valid, got %v", cfg.DefaultLayout.Validate())
	}
}

func TestAddRecentFile(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentFile("a.csv")
	cfg.AddRecentFile("b.csv")
	cfg.AddRecentFile("a.csv")

	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("expected 2 recent files, got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "a.csv" || cfg.RecentFiles[1] != "b.csv" {
		t.Errorf("unexpected order: %v", cfg.RecentFiles)
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentFile(string(rune('c'+i)) + ".csv")
	}
	if len(cfg.RecentFiles) != maxRecentFiles {
		t.Errorf("expected list capped at %d, got %d", maxRecentFiles, len(cfg.RecentFiles))
	}
}
