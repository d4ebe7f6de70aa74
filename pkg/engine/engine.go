// Package engine is the public facade of the re-theming core. It wires
// the palette generator, the resource override store, the tree color
// mapper and the live update scheduler behind a handful of operations:
// apply a preset, apply or live-update a custom theme, revert.
//
// All public methods must be called on the thread that owns the host
// tree. Scheduled work marshals itself back there via the dispatcher.
package engine

import (
	"time"

	cblog "github.com/charmbracelet/log"

	"github.com/uprooted/retheme/pkg/bridge"
	"github.com/uprooted/retheme/pkg/chrome"
	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/errors"
	"github.com/uprooted/retheme/pkg/mapper"
	"github.com/uprooted/retheme/pkg/palette"
	"github.com/uprooted/retheme/pkg/resources"
	"github.com/uprooted/retheme/pkg/scheduler"
)

// Engine owns all theming state for one host for the life of the
// process.
type Engine struct {
	host   bridge.Host
	chrome chrome.Adapter

	store    *resources.Store
	mapper   *mapper.Mapper
	sched    *scheduler.Scheduler
	throttle *scheduler.Throttle

	activePalette *palette.Palette
	seedAccent    string
	seedBg        string

	log *cblog.Logger
}

// Option adjusts engine construction.
type Option func(*options)

type options struct {
	schedCfg       scheduler.Config
	throttleWindow time.Duration
}

// WithSchedulerConfig overrides the default walk cadence.
func WithSchedulerConfig(cfg scheduler.Config) Option {
	return func(o *options) { o.schedCfg = cfg }
}

// WithLiveThrottle overrides the live-preview throttle window.
func WithLiveThrottle(window time.Duration) Option {
	return func(o *options) { o.throttleWindow = window }
}

// New builds an engine against a host. The chrome adapter may be
// chrome.Noop{} when the platform has no title-bar capability.
func New(host bridge.Host, dispatcher bridge.Dispatcher, chromeAdapter chrome.Adapter, opts ...Option) *Engine {
	o := options{
		schedCfg:       scheduler.DefaultConfig(),
		throttleWindow: scheduler.LiveThrottleWindow,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		host:     host,
		chrome:   chromeAdapter,
		store:    resources.NewStore(host),
		mapper:   mapper.New(mapper.NewRootOriginals()),
		throttle: scheduler.NewThrottle(o.throttleWindow),
		log:      cblog.With("component", "engine"),
	}
	e.sched = scheduler.New(o.schedCfg, dispatcher, e.mapper.Active, func() {
		e.mapper.Walk(e.host)
	})
	return e
}

// ActiveTheme returns the active theme's name.
func (e *Engine) ActiveTheme() (string, bool) {
	return e.mapper.ThemeName(), e.mapper.Active()
}

// ActivePalette returns the palette currently applied, nil when no
// theme is active.
func (e *Engine) ActivePalette() *palette.Palette {
	if !e.mapper.Active() {
		return nil
	}
	return e.activePalette
}

// ActiveSeeds returns the accent and background seed colors of the
// active theme.
func (e *Engine) ActiveSeeds() (accent, bg string, ok bool) {
	if !e.mapper.Active() {
		return "", "", false
	}
	return e.seedAccent, e.seedBg, true
}

// ApplyTheme applies a named preset.
func (e *Engine) ApplyTheme(name string) error {
	p, ok := palette.Get(name)
	if !ok {
		return errors.ValidationError("UNKNOWN_THEME", "no preset named "+name).
			WithContext("theme", name)
	}
	return e.apply(p.Name, p.Accent, p.Background)
}

// ApplyCustomTheme applies a theme generated from user-chosen seeds.
func (e *Engine) ApplyCustomTheme(accent, bg string) error {
	return e.apply("custom", accent, bg)
}

// UpdateCustomThemeLive is the drag-preview path: throttled, in-place,
// no capture round trip. With no theme active it bootstraps via a full
// custom apply.
func (e *Engine) UpdateCustomThemeLive(accent, bg string) error {
	// Seeds are checked before the throttle gate so a malformed call
	// errors instead of vanishing into the window, and never spends
	// the throttle slot.
	if _, err := colorx.Parse(accent); err != nil {
		return errors.ValidationError("BAD_ACCENT", "invalid accent color").WithCause(err)
	}
	if _, err := colorx.Parse(bg); err != nil {
		return errors.ValidationError("BAD_BACKGROUND", "invalid background color").WithCause(err)
	}
	if !e.mapper.Active() {
		return e.ApplyCustomTheme(accent, bg)
	}
	if !e.throttle.Allow() {
		return nil
	}

	pal, treeMap, err := palette.Generate(accent, bg)
	if err != nil {
		return err
	}

	// Previous tick's replacements become lookup keys so a control
	// repainted one frame ago is caught again this frame.
	prev := e.mapper.ActiveMap()
	merged := palette.Merge(treeMap, prev, e.mapper.Roots().Snapshot())
	e.mapper.SetActive("custom", merged, true)

	e.store.Apply(pal)
	e.mapper.Walk(e.host)

	e.activePalette = pal
	e.seedAccent = accent
	e.seedBg = bg
	return nil
}

// RevertTheme restores the host to its un-themed state. No-op when
// nothing is active.
func (e *Engine) RevertTheme() error {
	if !e.mapper.Active() {
		return nil
	}
	e.log.Info("reverting theme", "theme", e.mapper.ThemeName())

	// Timers first, then the map, so nothing scheduled can re-apply
	// colors mid-teardown.
	e.sched.Stop()
	torn := e.mapper.ClearActive()

	e.store.Reset()
	e.mapper.Purge(e.host, torn)

	if err := e.chrome.Clear(); err != nil {
		e.log.Warn("chrome reset failed", "err", err)
	}

	e.activePalette = nil
	e.seedAccent = ""
	e.seedBg = ""
	return nil
}

// WalkVisualTreeNow runs one walk immediately, for embedders that just
// rebuilt content and cannot wait for the next scheduled pass.
func (e *Engine) WalkVisualTreeNow() {
	e.mapper.Walk(e.host)
}

// ScheduleWalkBurst queues the three-walk follow-up burst.
func (e *Engine) ScheduleWalkBurst() {
	e.sched.Burst()
}

// Close stops all timers and unhooks host notifications. The host is
// left themed; call RevertTheme first for a clean teardown.
func (e *Engine) Close() {
	e.sched.Close()
}

// apply is the shared theme-switch path. The new palette is generated
// before any existing state is touched, so a bad seed never leaves the
// host half-reverted.
func (e *Engine) apply(name, accent, bg string) error {
	pal, treeMap, err := palette.Generate(accent, bg)
	if err != nil {
		return err
	}
	e.log.Info("applying theme", "theme", name, "accent", accent, "background", bg)

	// Implicit revert of any prior theme. Capture records survive the
	// restore so a later full revert still sees pre-theming originals.
	var torn *palette.TreeColorMap
	if e.mapper.Active() {
		e.sched.Stop()
		torn = e.mapper.ClearActive()
		e.store.Restore()
		e.mapper.Purge(e.host, torn)
	}

	merged := palette.Merge(treeMap, torn, e.mapper.Roots().Snapshot())
	e.mapper.SetActive(name, merged, false)
	e.store.Apply(pal)
	e.mapper.Walk(e.host)

	if c, err := colorx.Parse(bg); err == nil {
		if err := e.chrome.SetAccent(c.Hex()); err != nil {
			e.log.Warn("chrome accent failed", "err", err)
		}
	}

	e.sched.InstallLayoutHook(e.host)
	e.sched.Start()
	e.sched.AfterSettle(func() {
		report := e.mapper.Audit(e.host)
		e.log.Info("settle audit", "remaining", report.Remaining)
	})

	e.activePalette = pal
	e.seedAccent = accent
	e.seedBg = bg
	return nil
}
