// Package main is a terminal preview of the re-theming engine. It runs
// the full engine against an in-memory fake host tree and renders the
// tree's colors as swatches, so every public entry point can be
// exercised without a real host process.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	cblog "github.com/charmbracelet/log"

	"github.com/uprooted/retheme/pkg/bridge"
	"github.com/uprooted/retheme/pkg/bridge/fakehost"
	"github.com/uprooted/retheme/pkg/chrome"
	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/engine"
	"github.com/uprooted/retheme/pkg/logging"
	"github.com/uprooted/retheme/pkg/palette"
	"github.com/uprooted/retheme/pkg/settings"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAccent
	modeBackground
)

// Model drives the preview UI.
type Model struct {
	engine *engine.Engine
	host   *fakehost.Host
	root   *fakehost.Node

	presets   []string
	presetIdx int

	mode      inputMode
	hexInput  textinput.Model
	accent    string
	bg        string
	statusMsg string
}

func newModel() *Model {
	host, root := buildFakeTree()

	input := textinput.New()
	input.Placeholder = "#RRGGBB"
	input.CharLimit = 9

	return &Model{
		engine:    engine.New(host, bridge.DirectDispatcher{}, chrome.Noop{}),
		host:      host,
		root:      root,
		presets:   palette.Names(),
		presetIdx: -1,
		hexInput:  input,
		accent:    "#C42B1C",
		bg:        "#1C1A19",
	}
}

// buildFakeTree mirrors the hard-coded colors a real host ships with.
func buildFakeTree() (*fakehost.Host, *fakehost.Node) {
	h := fakehost.NewHost()
	h.BaseTable().Set("SystemAccentColor", "#FF3B6AF8", bridge.ValueColor)

	win := fakehost.NewNode("window").WithColor("Background", "#FF202225")
	sidebar := win.AddChild(fakehost.NewNode("sidebar").WithColor("Background", "#FF26282C"))
	sidebar.AddChild(fakehost.NewNode("channels").
		WithColor("Background", "#FF2F3136").
		WithColor("Foreground", "#FFB9BBBE"))
	win.AddChild(fakehost.NewNode("content").
		WithColor("Background", "#FF36393F").
		WithColor("Foreground", "#FFF2F3F5"))
	win.AddChild(fakehost.NewNode("send-button").
		WithColor("Background", "#FF3B6AF8").
		WithColor("Foreground", "#FFF2F3F5"))
	win.AddChild(fakehost.NewNode("input-field").WithColor("Background", "#FF40444B"))
	h.AddWindow(win)
	return h, win
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.updateHexEntry(keyMsg)
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.engine.Close()
		return m, tea.Quit

	case "tab", "n":
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		name := m.presets[m.presetIdx]
		if err := m.engine.ApplyTheme(name); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "applied " + name
			m.persistTheme(name)
		}

	case "left", "right":
		// Hue drag on the active accent, through the live path.
		delta := 12.0
		if keyMsg.String() == "left" {
			delta = -12.0
		}
		accent, bg, ok := m.engine.ActiveSeeds()
		if !ok {
			accent, bg = m.accent, m.bg
		}
		c, err := colorx.Parse(accent)
		if err != nil {
			break
		}
		h, s, l := c.HSL()
		next := colorx.FromHSL(math.Mod(h+delta+360, 360), s, l, 0xFF).RGBHex()
		if err := m.engine.UpdateCustomThemeLive(next, bg); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.accent, m.bg = next, bg
			m.presetIdx = -1
			m.statusMsg = "live accent " + next
		}

	case "a":
		m.mode = modeAccent
		m.hexInput.SetValue(m.accent)
		m.hexInput.Focus()

	case "b":
		m.mode = modeBackground
		m.hexInput.SetValue(m.bg)
		m.hexInput.Focus()

	case "w":
		m.engine.WalkVisualTreeNow()
		m.statusMsg = "walked tree"

	case "u":
		m.engine.ScheduleWalkBurst()
		m.statusMsg = "burst scheduled"

	case "x":
		m.host.FireLayoutChanged()
		m.statusMsg = "layout-changed fired"

	case "r":
		if err := m.engine.RevertTheme(); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.presetIdx = -1
			m.statusMsg = "reverted"
		}
	}
	return m, nil
}

func (m *Model) updateHexEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.hexInput.Blur()
		return m, nil
	case "enter":
		value := m.hexInput.Value()
		accent, bg := m.accent, m.bg
		if m.mode == modeAccent {
			accent = value
		} else {
			bg = value
		}
		if err := m.engine.ApplyCustomTheme(accent, bg); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.accent, m.bg = accent, bg
			m.presetIdx = -1
			m.statusMsg = "custom theme applied"
		}
		m.mode = modeBrowse
		m.hexInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.hexInput, cmd = m.hexInput.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("retheme preview")

	theme := "none"
	if name, ok := m.engine.ActiveTheme(); ok {
		theme = name
	}

	var tree string
	var render func(n *fakehost.Node, indent string)
	render = func(n *fakehost.Node, indent string) {
		line := indent + n.Name
		for _, prop := range bridge.ColorProperties {
			if v, ok := n.Color(prop); ok {
				sw := lipgloss.NewStyle().Background(lipgloss.Color(argbToTerm(v))).Render("  ")
				line += fmt.Sprintf("  %s %s=%s", sw, prop, v)
			}
		}
		tree += line + "\n"
		for _, c := range n.Children() {
			if child, ok := c.(*fakehost.Node); ok {
				render(child, indent+"  ")
			}
		}
	}
	render(m.root, "")

	var swatches string
	if p := m.engine.ActivePalette(); p != nil {
		for i, e := range p.Entries() {
			if i >= 16 {
				break
			}
			swatches += lipgloss.NewStyle().
				Background(lipgloss.Color(argbToTerm(e.Value))).
				Render("  ")
		}
	}

	help := "tab/n preset  ←/→ live hue  a accent  b background  w walk  u burst  x layout  r revert  q quit"
	if m.mode != modeBrowse {
		help = "enter apply  esc cancel"
	}

	out := fmt.Sprintf("%s\n\ntheme: %s\n\n%s\n%s\n\n%s\n", title, theme, tree, swatches, help)
	if m.mode != modeBrowse {
		out += m.hexInput.View() + "\n"
	}
	if m.statusMsg != "" {
		out += lipgloss.NewStyle().Faint(true).Render(m.statusMsg) + "\n"
	}
	return out
}

// argbToTerm strips the alpha byte; terminal cells have no alpha.
func argbToTerm(hex string) string {
	if len(hex) == 9 {
		return "#" + hex[3:]
	}
	return hex
}

// persistTheme saves the chosen preset so the next run starts themed.
func (m *Model) persistTheme(name string) {
	path := settings.Path()
	if path == "" {
		return
	}
	s, err := settings.Load(path)
	if err != nil {
		cblog.With("component", "preview").Warn("settings load failed", "err", err)
		return
	}
	s.Theme = name
	s.CustomAccent = m.accent
	s.CustomBackground = m.bg
	if err := settings.Save(path, s); err != nil {
		cblog.With("component", "preview").Warn("settings save failed", "err", err)
	}
}

func main() {
	if _, err := logging.Setup(""); err != nil {
		fmt.Fprintf(os.Stderr, "logging setup: %v\n", err)
	}

	m := newModel()

	// Restore the last session's theme before the first frame.
	if path := settings.Path(); path != "" {
		if s, err := settings.Load(path); err == nil && s.Enabled && s.Theme != "" {
			if err := m.engine.ApplyTheme(s.Theme); err == nil {
				if idx := indexOf(m.presets, s.Theme); idx >= 0 {
					m.presetIdx = idx
				}
			}
		}
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
