package palette

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/uprooted/retheme/pkg/errors"
)

// Preset is a named pair of seed colors plus display metadata. The
// palette and tree map for a preset are generated from the seeds at
// apply time, exactly like a custom theme.
type Preset struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Accent      string `yaml:"accent"`
	Background  string `yaml:"background"`
}

var presets = map[string]Preset{
	"crimson": {
		Name:        "crimson",
		DisplayName: "Crimson",
		Description: "Deep red accent on charcoal",
		Author:      "uprooted",
		Accent:      "#C42B1C",
		Background:  "#1C1A19",
	},
	"emerald": {
		Name:        "emerald",
		DisplayName: "Emerald",
		Description: "Forest green on near-black",
		Author:      "uprooted",
		Accent:      "#2A9D5C",
		Background:  "#101412",
	},
	"amethyst": {
		Name:        "amethyst",
		DisplayName: "Amethyst",
		Description: "Soft violet on deep slate",
		Author:      "uprooted",
		Accent:      "#9B6DD7",
		Background:  "#17151D",
	},
	"oceanic": {
		Name:        "oceanic",
		DisplayName: "Oceanic",
		Description: "Teal accent on blue-black",
		Author:      "uprooted",
		Accent:      "#2B9EB3",
		Background:  "#0E1519",
	},
	"ember": {
		Name:        "ember",
		DisplayName: "Ember",
		Description: "Burnt orange on warm gray",
		Author:      "uprooted",
		Accent:      "#D9742B",
		Background:  "#1B1714",
	},
	"porcelain": {
		Name:        "porcelain",
		DisplayName: "Porcelain",
		Description: "Muted blue on off-white, for light mode holdouts",
		Author:      "uprooted",
		Accent:      "#3A6EA5",
		Background:  "#F2F0EC",
	},
	"graphite": {
		Name:        "graphite",
		DisplayName: "Graphite",
		Description: "Monochrome steel accent",
		Author:      "uprooted",
		Accent:      "#8A9199",
		Background:  "#141517",
	},
}

// Names returns sorted preset names.
func Names() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns a preset and whether it exists.
func Get(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// userPresetFile mirrors the on-disk layout of a user preset pack.
type userPresetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadUserPresets reads additional presets from a YAML file. Entries
// with missing or malformed fields are rejected file-wide rather than
// silently dropped, so a typo does not make a theme vanish.
func LoadUserPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("PRESET_FILE_READ", "failed to read preset file").WithCause(err)
	}

	var file userPresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.ConfigError("PRESET_FILE_PARSE", "failed to parse preset file").WithCause(err)
	}

	for i, p := range file.Presets {
		if p.Name == "" {
			return nil, errors.ConfigError("PRESET_MISSING_NAME",
				fmt.Sprintf("preset %d has no name", i))
		}
		if _, _, err := Generate(p.Accent, p.Background); err != nil {
			return nil, errors.ConfigError("PRESET_BAD_SEEDS",
				fmt.Sprintf("preset %q has unusable seed colors", p.Name)).WithCause(err)
		}
	}
	return file.Presets, nil
}

// RegisterPresets merges user presets over the built-ins. Later
// registrations win on name collisions.
func RegisterPresets(extra []Preset) {
	for _, p := range extra {
		presets[strings.ToLower(p.Name)] = p
	}
}
