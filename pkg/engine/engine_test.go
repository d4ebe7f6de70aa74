package engine

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/uprooted/retheme/pkg/bridge"
	"github.com/uprooted/retheme/pkg/bridge/fakehost"
	"github.com/uprooted/retheme/pkg/chrome"
	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/scheduler"
)

// quietConfig keeps every background timer far away so tests own the
// tree exclusively.
func quietConfig() scheduler.Config {
	return scheduler.Config{
		InitialDelay:   time.Hour,
		Interval:       time.Hour,
		DebounceWindow: time.Hour,
		BurstDelays:    [3]time.Duration{time.Hour, time.Hour, time.Hour},
		SettleDelay:    time.Hour,
	}
}

// discordLikeHost builds a tree mirroring the hard-coded colors the
// generator knows about, plus style-bound and foreign nodes.
func discordLikeHost() (*fakehost.Host, *fakehost.Node) {
	h := fakehost.NewHost()
	h.BaseTable().Set("SystemAccentColor", "#FF3B6AF8", bridge.ValueColor)

	win := fakehost.NewNode("main").WithColor("Background", "#FF202225")
	side := win.AddChild(fakehost.NewNode("sidebar").WithColor("Background", "#FF26282C"))
	side.AddChild(fakehost.NewNode("channel").
		WithColor("Background", "#FF2F3136").
		WithColor("Foreground", "#FFB9BBBE"))
	win.AddChild(fakehost.NewNode("send").
		WithColor("Background", "#FF3B6AF8").
		WithColor("Foreground", "#FFF2F3F5"))
	win.AddChild(fakehost.NewNode("input").WithStyleRef("Background", "SystemAccentColor"))
	win.AddChild(fakehost.NewNode("avatar").WithColor("Fill", "#FFDEADBE")) // untracked
	h.AddWindow(win)
	return h, win
}

func newTestEngine(h *fakehost.Host, opts ...Option) *Engine {
	opts = append([]Option{WithSchedulerConfig(quietConfig())}, opts...)
	return New(h, bridge.DirectDispatcher{}, chrome.Noop{}, opts...)
}

func TestApplyRevertRoundTripIsBitExact(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("crimson"); err != nil {
		t.Fatal(err)
	}
	if err := e.RevertTheme(); err != nil {
		t.Fatal(err)
	}

	if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
		t.Errorf("round trip changed %d properties: %v", len(diff), diff)
	}
	if h.OverlayCount() != 0 {
		t.Errorf("overlay count = %d after revert", h.OverlayCount())
	}
}

func TestCrimsonThemesHostAccent(t *testing.T) {
	h, win := discordLikeHost()
	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("crimson"); err != nil {
		t.Fatal(err)
	}

	var send bridge.Node
	for _, c := range win.Children() {
		if n, ok := c.(*fakehost.Node); ok && n.Name == "send" {
			send = c
		}
	}
	got, _ := send.Color("Background")
	if got == "#FF3B6AF8" {
		t.Fatal("host accent button not recolored")
	}
	c, err := colorx.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	h1, _, _ := c.HSL()
	crimson, _ := colorx.Parse("#C42B1C")
	h2, _, _ := crimson.HSL()
	dh := h1 - h2
	if dh < 0 {
		dh = -dh
	}
	if dh > 180 {
		dh = 360 - dh
	}
	if dh > 30 {
		t.Errorf("recolored accent %s is %v degrees off the crimson hue", got, dh)
	}

	if name, ok := e.ActiveTheme(); !ok || name != "crimson" {
		t.Errorf("ActiveTheme = %q, %v", name, ok)
	}
	if accent, bg, ok := e.ActiveSeeds(); !ok || accent != "#C42B1C" || bg != "#1C1A19" {
		t.Errorf("ActiveSeeds = %s, %s, %v", accent, bg, ok)
	}
}

func TestChainedThemesRevertToTrueOriginals(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h)
	defer e.Close()
	for _, name := range []string{"crimson", "emerald", "oceanic"} {
		if err := e.ApplyTheme(name); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	if err := e.RevertTheme(); err != nil {
		t.Fatal(err)
	}

	if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
		t.Errorf("chained revert drifted on %d properties: %v", len(diff), diff)
	}
}

func TestRandomSeedRoundTrips(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h)
	defer e.Close()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		accent := fmt.Sprintf("#%06X", rng.Intn(0x1000000))
		bg := fmt.Sprintf("#%06X", rng.Intn(0x1000000))
		if err := e.ApplyCustomTheme(accent, bg); err != nil {
			t.Fatalf("apply %s/%s: %v", accent, bg, err)
		}
		if err := e.RevertTheme(); err != nil {
			t.Fatal(err)
		}
		if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
			t.Fatalf("seeds %s/%s: revert drifted on %v", accent, bg, diff)
		}
	}
}

func TestRevertWithoutThemeIsNoOp(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h)
	defer e.Close()
	if err := e.RevertTheme(); err != nil {
		t.Fatal(err)
	}
	if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
		t.Errorf("no-op revert changed properties: %v", diff)
	}
}

func TestUnknownThemeRejectedWithoutMutation(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
	if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
		t.Error("failed apply mutated the tree")
	}
}

func TestBadSeedsRejectedWithoutTeardown(t *testing.T) {
	h, _ := discordLikeHost()
	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("crimson"); err != nil {
		t.Fatal(err)
	}
	themed := h.Snapshot()

	if err := e.ApplyCustomTheme("#ZZZZZZ", "#101214"); err == nil {
		t.Fatal("expected error for bad accent seed")
	}
	if diff := fakehost.DiffSnapshots(themed, h.Snapshot()); len(diff) != 0 {
		t.Error("failed custom apply tore down the active theme")
	}
	if name, ok := e.ActiveTheme(); !ok || name != "crimson" {
		t.Errorf("ActiveTheme after failed apply = %q, %v", name, ok)
	}
}

func TestLiveUpdateThrottleSwallowsRapidCalls(t *testing.T) {
	h, _ := discordLikeHost()
	e := newTestEngine(h)
	defer e.Close()

	if err := e.UpdateCustomThemeLive("#C42B1C", "#1C1A19"); err != nil {
		t.Fatal(err)
	}
	snap := h.Snapshot()

	// Within the 16ms window the call must change nothing.
	if err := e.UpdateCustomThemeLive("#2A9D5C", "#101412"); err != nil {
		t.Fatal(err)
	}
	if diff := fakehost.DiffSnapshots(snap, h.Snapshot()); len(diff) != 0 {
		t.Errorf("throttled live update still mutated: %v", diff)
	}
	if accent, _, _ := e.ActiveSeeds(); accent != "#C42B1C" {
		t.Errorf("seeds advanced through the throttle: %s", accent)
	}
}

func TestLiveUpdateRejectsMalformedSeeds(t *testing.T) {
	h, _ := discordLikeHost()
	e := newTestEngine(h, WithLiveThrottle(time.Hour))
	defer e.Close()

	if err := e.UpdateCustomThemeLive("#C42B1C", "#1C1A19"); err != nil {
		t.Fatal(err)
	}

	// A malformed seed must surface as an error, not disappear into
	// the throttle window, and must not spend the throttle slot.
	if err := e.UpdateCustomThemeLive("#12345G", "#101214"); err == nil {
		t.Fatal("expected error for malformed accent seed")
	}
	if accent, _, _ := e.ActiveSeeds(); accent != "#C42B1C" {
		t.Errorf("seeds advanced on a rejected call: %s", accent)
	}

	if err := e.UpdateCustomThemeLive("#2A9D5C", "#101412"); err != nil {
		t.Fatal(err)
	}
	if accent, _, _ := e.ActiveSeeds(); accent != "#2A9D5C" {
		t.Errorf("good update after a rejected call was throttled: seeds = %s", accent)
	}

	if err := e.UpdateCustomThemeLive("#FF12345G", "#101214"); err == nil {
		t.Fatal("expected error for malformed seed inside the throttle window")
	}
}

func TestLiveTicksKeepRootOriginalsStable(t *testing.T) {
	h, _ := discordLikeHost()
	before := h.Snapshot()

	e := newTestEngine(h, WithLiveThrottle(0))
	defer e.Close()

	// A long interactive drag across the hue wheel.
	for i := 0; i < 500; i++ {
		accent := fmt.Sprintf("#%02X40%02X", (i*37)%256, (i*11)%256)
		bg := fmt.Sprintf("#10%02X14", 16+(i%32))
		if err := e.UpdateCustomThemeLive(accent, bg); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if err := e.RevertTheme(); err != nil {
		t.Fatal(err)
	}
	if diff := fakehost.DiffSnapshots(before, h.Snapshot()); len(diff) != 0 {
		t.Errorf("revert after 500 live ticks drifted on %d properties: %v", len(diff), diff)
	}
}

func TestLiveUpdateBootstrapsWhenInactive(t *testing.T) {
	h, _ := discordLikeHost()
	e := newTestEngine(h)
	defer e.Close()

	if err := e.UpdateCustomThemeLive("#C42B1C", "#1C1A19"); err != nil {
		t.Fatal(err)
	}
	if name, ok := e.ActiveTheme(); !ok || name != "custom" {
		t.Errorf("ActiveTheme = %q, %v, want bootstrap into custom", name, ok)
	}
	if h.OverlayCount() != 1 {
		t.Errorf("overlay count = %d after bootstrap", h.OverlayCount())
	}
}

func TestWalkNowThemesNewlyAddedNodes(t *testing.T) {
	h, win := discordLikeHost()
	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("crimson"); err != nil {
		t.Fatal(err)
	}

	fresh := win.AddChild(fakehost.NewNode("late").WithColor("Background", "#FF202225"))
	e.WalkVisualTreeNow()

	if got, _ := fresh.Color("Background"); got == "#FF202225" {
		t.Error("node added after apply not themed by manual walk")
	}
}

func TestExemptSubtreeSurvivesApply(t *testing.T) {
	h, win := discordLikeHost()
	swatch := win.AddChild(fakehost.NewNode("picker").WithColor("Background", "#FF3B6AF8"))
	swatch.SetTag(bridge.ExemptTag)

	e := newTestEngine(h)
	defer e.Close()
	if err := e.ApplyTheme("crimson"); err != nil {
		t.Fatal(err)
	}
	if got, _ := swatch.Color("Background"); got != "#FF3B6AF8" {
		t.Errorf("exempt swatch recolored to %s", got)
	}
}
