package settings

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/uprooted/retheme/pkg/errors"
	"github.com/uprooted/retheme/pkg/scheduler"
)

// Tuning holds the engine's timing knobs, loaded from retheme.toml next
// to the settings file. Shipped defaults work for the host; the file
// exists for debugging walk cadence issues in the field.
type Tuning struct {
	InitialDelayMs   int64 `toml:"initial_delay_ms"`
	WalkIntervalMs   int64 `toml:"walk_interval_ms"`
	DebounceWindowMs int64 `toml:"debounce_window_ms"`
	BurstDelaysMs    []int `toml:"burst_delays_ms"`
	SettleDelayMs    int64 `toml:"settle_delay_ms"`
}

// LoadTuning reads the tuning file and merges it over the scheduler
// defaults. A missing file returns the defaults unchanged; zero or
// absent fields keep their default value.
func LoadTuning(path string) (scheduler.Config, error) {
	cfg := scheduler.DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, errors.ErrorConfig, "TUNING_READ", "failed to read tuning file").
			WithContext("path", path)
	}

	var t Tuning
	if err := toml.Unmarshal(data, &t); err != nil {
		return cfg, errors.Wrap(err, errors.ErrorConfig, "TUNING_MALFORMED", "failed to parse tuning file").
			WithContext("path", path)
	}

	if t.InitialDelayMs > 0 {
		cfg.InitialDelay = time.Duration(t.InitialDelayMs) * time.Millisecond
	}
	if t.WalkIntervalMs > 0 {
		cfg.Interval = time.Duration(t.WalkIntervalMs) * time.Millisecond
	}
	if t.DebounceWindowMs > 0 {
		cfg.DebounceWindow = time.Duration(t.DebounceWindowMs) * time.Millisecond
	}
	if t.SettleDelayMs > 0 {
		cfg.SettleDelay = time.Duration(t.SettleDelayMs) * time.Millisecond
	}
	for i, ms := range t.BurstDelaysMs {
		if i >= len(cfg.BurstDelays) {
			break
		}
		if ms > 0 {
			cfg.BurstDelays[i] = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg, nil
}
