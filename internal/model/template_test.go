package model

import (
	"testing"
)

func TestNewUserPreset(t *testing.T) {
	cfg := DefaultPageConfig()
	cfg.UsedPositions = []Position{{Row: 0, Col: 0}}

	p := NewUserPreset("Badges", cfg)

	if p.Name != "Badges" {
		t.Errorf("expected name 'Badges', got %q", p.Name)
	}
	if len(p.ID) != len("preset_")+8 {
		t.Errorf("unexpected ID %q", p.ID)
	}
	if p.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if p.IsBuiltIn {
		t.Error("user presets are not built in")
	}

	cfg.UsedPositions[0].Row = 9
	if p.Config.UsedPositions[0].Row != 0 {
		t.Error("preset config should be independent of the source config")
	}
}

func TestPresetStore_AddFindRemove(t *testing.T) {
	store := NewPresetStore()
	if len(store.Presets) != 1 {
		t.Fatalf("expected the default preset only, got %d", len(store.Presets))
	}

	p := NewUserPreset("Avery", DefaultPageConfig())
	store.Add(p)

	if got := store.FindByID(p.ID); got == nil || got.Name != "Avery" {
		t.Errorf("FindByID did not return the added preset")
	}
	if got := store.FindByName("Avery"); got == nil || got.ID != p.ID {
		t.Errorf("FindByName did not return the added preset")
	}
	if names := store.Names(); len(names) != 2 || names[1] != "Avery" {
		t.Errorf("unexpected names %v", names)
	}

	if store.Remove(DefaultPresetID) {
		t.Error("built-in preset must not be removable")
	}
	if !store.Remove(p.ID) {
		t.Error("expected Remove to succeed")
	}
	if store.Remove(p.ID) {
		t.Error("second Remove should report false")
	}
	if store.FindByID(p.ID) != nil {
		t.Error("preset still present after Remove")
	}
}

func TestPresetStore_EnsureDefault(t *testing.T) {
	store := PresetStore{Presets: []UserPreset{{ID: "x", Name: "X"}}}
	store.EnsureDefault()
	store.EnsureDefault()

	if len(store.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(store.Presets))
	}
	if store.Presets[0].ID != DefaultPresetID {
		t.Errorf("default preset should come first, got %q", store.Presets[0].ID)
	}
}

func TestPresetStore_MergeNewerWins(t *testing.T) {
	store := NewPresetStore()
	store.Add(UserPreset{ID: "a", Name: "Old A", CreatedAt: "2024-01-01T00:00:00Z"})
	store.Add(UserPreset{ID: "b", Name: "B", CreatedAt: "2024-06-01T00:00:00Z"})

	changed := store.Merge([]UserPreset{
		{ID: "a", Name: "New A", CreatedAt: "2024-02-01T00:00:00Z"},
		{ID: "b", Name: "Stale B", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "c", Name: "C", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: DefaultPresetID, Name: "Hijack", CreatedAt: "2030-01-01T00:00:00Z"},
	})

	if changed != 2 {
		t.Errorf("expected 2 changes, got %d", changed)
	}
	if store.FindByID("a").Name != "New A" {
		t.Error("newer incoming preset should replace stored one")
	}
	if store.FindByID("b").Name != "B" {
		t.Error("older incoming preset should be ignored")
	}
	if store.FindByID("c") == nil {
		t.Error("unknown preset should be appended")
	}
	if store.FindByID(DefaultPresetID).Name != "Default Configuration" {
		t.Error("built-in preset must not be replaced")
	}
}
