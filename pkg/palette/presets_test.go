package palette

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no presets found")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %s >= %s", names[i-1], names[i])
		}
	}
	for _, name := range names {
		p, ok := Get(name)
		if !ok {
			t.Fatalf("Get(%s) missing", name)
		}
		if _, _, err := Generate(p.Accent, p.Background); err != nil {
			t.Errorf("preset %s has unusable seeds: %v", name, err)
		}
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	if _, ok := Get("CRIMSON"); !ok {
		t.Error("Get should be case-insensitive")
	}
	if _, ok := Get("no-such-theme"); ok {
		t.Error("Get returned a preset for an unknown name")
	}
}

func TestLoadUserPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := `presets:
  - name: midnight
    displayName: Midnight
    description: Test theme
    author: someone
    accent: "#4455AA"
    background: "#0A0A12"
  - name: rosewood
    displayName: Rosewood
    accent: "#AA4466"
    background: "#120A0E"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadUserPresets(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d presets, want 2", len(loaded))
	}
	if loaded[0].Name != "midnight" || loaded[0].Accent != "#4455AA" {
		t.Errorf("unexpected first preset: %+v", loaded[0])
	}
}

func TestLoadUserPresetsRejectsBadSeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := `presets:
  - name: broken
    accent: "not-a-color"
    background: "#0A0A12"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUserPresets(path); err == nil {
		t.Error("expected error for malformed accent")
	}
}

func TestLoadUserPresetsMissingFile(t *testing.T) {
	if _, err := LoadUserPresets(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRegisterPresets(t *testing.T) {
	RegisterPresets([]Preset{{
		Name:       "test-registered",
		Accent:     "#112233",
		Background: "#0A0A0A",
	}})
	t.Cleanup(func() { delete(presets, "test-registered") })

	p, ok := Get("test-registered")
	if !ok {
		t.Fatal("registered preset not found")
	}
	if p.Accent != "#112233" {
		t.Errorf("unexpected accent %s", p.Accent)
	}
}
