// Package settings persists user theming choices to the shared
// uprooted-settings.json in the profile directory. Other plugins write
// their own keys into the same file, so reads go through gjson and
// writes patch fields in place with sjson; unknown keys always survive
// a save.
package settings

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/uprooted/retheme/pkg/errors"
)

// Settings is the re-theming slice of the shared settings file.
type Settings struct {
	Enabled          bool
	Theme            string
	CustomAccent     string
	CustomBackground string
	CustomCSS        string
}

// Defaults returns the out-of-box settings.
func Defaults() Settings {
	return Settings{Enabled: true}
}

// Path resolves the settings file location. Precedence: explicit
// UPROOTED_SETTINGS path, UPROOTED_CONFIG_DIR, then the platform
// profile dir (APPDATA on Windows, XDG_CONFIG_HOME elsewhere, falling
// back to ~/.config).
func Path() string {
	if p := os.Getenv("UPROOTED_SETTINGS"); p != "" {
		return p
	}
	if dir := os.Getenv("UPROOTED_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "uprooted-settings.json")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "uprooted", "uprooted-settings.json")
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uprooted", "uprooted-settings.json")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "uprooted", "uprooted-settings.json")
}

// Load reads settings from path. A missing file yields defaults; a file
// written by a newer version with extra fields is read without error.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(err, errors.ErrorConfig, "SETTINGS_READ", "failed to read settings file").
			WithContext("path", path)
	}
	if !gjson.ValidBytes(data) {
		return s, errors.ConfigError("SETTINGS_MALFORMED", "settings file is not valid JSON").
			WithContext("path", path)
	}

	doc := gjson.ParseBytes(data)
	if v := doc.Get("enabled"); v.Exists() {
		s.Enabled = v.Bool()
	}
	s.Theme = doc.Get("theme").String()
	s.CustomAccent = doc.Get("customAccent").String()
	s.CustomBackground = doc.Get("customBackground").String()
	s.CustomCSS = doc.Get("customCss").String()
	return s, nil
}

// Save patches the theming fields into the existing file, creating it
// when absent. Keys owned by other plugins are left byte for byte.
func Save(path string, s Settings) error {
	doc, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrorConfig, "SETTINGS_READ", "failed to read settings file").
			WithContext("path", path)
	}
	if len(doc) == 0 || !gjson.ValidBytes(doc) {
		doc = []byte("{}")
	}

	for _, patch := range []struct {
		key   string
		value interface{}
	}{
		{"enabled", s.Enabled},
		{"theme", s.Theme},
		{"customAccent", s.CustomAccent},
		{"customBackground", s.CustomBackground},
		{"customCss", s.CustomCSS},
	} {
		doc, err = sjson.SetBytes(doc, patch.key, patch.value)
		if err != nil {
			return errors.Wrap(err, errors.ErrorConfig, "SETTINGS_PATCH", "failed to patch settings field").
				WithContext("field", patch.key)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorConfig, "SETTINGS_DIR", "failed to create settings directory")
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorConfig, "SETTINGS_WRITE", "failed to write settings file").
			WithContext("path", path)
	}
	return nil
}
