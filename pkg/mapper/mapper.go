// Package mapper recolors the host visual tree. It holds the active
// theme's color substitution maps, rewrites matching node properties on
// every walk, and on revert purges themed colors back to their root
// originals.
package mapper

import (
	"sort"

	cblog "github.com/charmbracelet/log"

	"github.com/uprooted/retheme/pkg/bridge"
	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/palette"
)

// maxWalkDepth caps recursion into the host tree. Trees deeper than
// this are assumed to be cyclic or corrupt.
const maxWalkDepth = 64

// Mapper is a state machine over Inactive and Themed(name). All
// mutation happens on the UI-owning thread; the active map reference is
// swapped atomically from the caller's point of view, so a walk that
// fires mid-revert sees nil and returns without touching the tree.
type Mapper struct {
	roots *RootOriginals

	active    *palette.TreeColorMap
	reverse   map[string]string
	themeName string
	live      bool

	log *cblog.Logger
}

// New creates an inactive mapper sharing the given process-lifetime
// root-originals store.
func New(roots *RootOriginals) *Mapper {
	return &Mapper{
		roots: roots,
		log:   cblog.With("component", "mapper"),
	}
}

// Active reports whether a theme is currently applied.
func (m *Mapper) Active() bool { return m.active != nil }

// ThemeName returns the active theme's name, empty when inactive.
func (m *Mapper) ThemeName() string { return m.themeName }

// ActiveMap returns the active substitution map, nil when inactive.
func (m *Mapper) ActiveMap() *palette.TreeColorMap { return m.active }

// Roots exposes the shared root-originals store.
func (m *Mapper) Roots() *RootOriginals { return m.roots }

// SetActive transitions to Themed(name). Every pair of the new map is
// recorded into the root-originals store, collapsed to its true root.
// live selects the unconditional write priority used during drag
// preview.
func (m *Mapper) SetActive(name string, tm *palette.TreeColorMap, live bool) {
	for _, orig := range tm.Originals() {
		repl, _ := tm.Get(orig)
		m.roots.Record(repl, orig)
	}
	m.active = tm
	m.reverse = tm.Reverse()
	m.themeName = name
	m.live = live
}

// ClearActive transitions to Inactive. The map reference is nulled
// before anything else so concurrently firing walk callbacks become
// no-ops. Returns the map that was torn down, for the purge.
func (m *Mapper) ClearActive() *palette.TreeColorMap {
	torn := m.active
	m.active = nil
	m.themeName = ""
	m.live = false
	return torn
}

// pending is one collected mutation from walk phase 1.
type pending struct {
	node bridge.Node
	prop string
	repl string
}

// Walk traverses every window in two phases: collect all
// (node, property, replacement) triples whose current color is a key in
// the active map, then apply them. Mutating while traversing can change
// the set of visited nodes, so the read set is fixed before any write.
// Returns the number of properties rewritten; zero when inactive or
// when the tree is already fully themed.
func (m *Mapper) Walk(host bridge.Host) int {
	active := m.active
	if active == nil {
		return 0
	}

	pri := bridge.PriorityStyle
	if m.live {
		pri = bridge.PriorityLocal
	}

	// Normalization results are cached per raw string: hundreds of
	// nodes typically share a handful of colors.
	norm := make(map[string]string)
	var todo []pending
	for _, w := range host.Windows() {
		m.collect(w, active, norm, &todo, 0)
	}

	applied := 0
	for _, p := range todo {
		if err := p.node.SetColor(p.prop, p.repl, pri); err != nil {
			m.log.Warn("color write failed", "prop", p.prop, "err", err)
			continue
		}
		applied++
	}
	return applied
}

func (m *Mapper) collect(n bridge.Node, active *palette.TreeColorMap, norm map[string]string, todo *[]pending, depth int) {
	if depth >= maxWalkDepth {
		m.log.Warn("walk depth ceiling hit", "depth", depth)
		return
	}
	if n.Tag() == bridge.ExemptTag {
		return
	}

	for _, prop := range bridge.ColorProperties {
		raw, ok := n.Color(prop)
		if !ok {
			continue
		}
		cur, ok := norm[raw]
		if !ok {
			c, err := colorx.Normalize(raw)
			if err != nil {
				continue
			}
			cur = c
			norm[raw] = cur
		}
		repl, ok := active.Get(cur)
		if !ok || repl == cur {
			continue
		}
		*todo = append(*todo, pending{node: n, prop: prop, repl: repl})
	}

	for _, c := range n.Children() {
		m.collect(c, active, norm, todo, depth+1)
	}
}

// PurgeStats summarizes one purge walk.
type PurgeStats struct {
	Cleared       int
	NullFallbacks int
	Orphans       int
}

// Purge runs the revert-time walk against the map being torn down. A
// node property whose current color is in the purge set gets its
// override cleared so host style resolution reasserts; if the slot then
// resolves to nothing, the root original is written back explicitly,
// with the reverse map as fallback when no root is recorded. Colors
// outside the purge set that also match no known original were put
// there by some other mechanism; they are counted and logged but never
// touched.
func (m *Mapper) Purge(host bridge.Host, torn *palette.TreeColorMap) PurgeStats {
	purge := make(map[string]bool)
	known := make(map[string]bool)
	if torn != nil {
		for _, orig := range torn.Originals() {
			repl, _ := torn.Get(orig)
			purge[orig] = true
			purge[repl] = true
			known[orig] = true
		}
	}
	for repl, root := range m.roots.Snapshot() {
		purge[repl] = true
		known[root] = true
	}
	for repl, orig := range m.reverse {
		purge[repl] = true
		purge[orig] = true
		known[orig] = true
	}

	var stats PurgeStats
	orphans := make(map[string]bool)
	var visit func(n bridge.Node, depth int)
	visit = func(n bridge.Node, depth int) {
		if depth >= maxWalkDepth || n.Tag() == bridge.ExemptTag {
			return
		}
		for _, prop := range bridge.ColorProperties {
			raw, ok := n.Color(prop)
			if !ok {
				continue
			}
			cur, err := colorx.Normalize(raw)
			if err != nil {
				continue
			}
			if !purge[cur] {
				if !known[cur] && !orphans[cur] {
					orphans[cur] = true
					stats.Orphans++
				}
				continue
			}

			if err := n.ClearColor(prop); err != nil {
				m.log.Warn("clear failed during purge", "prop", prop, "err", err)
				continue
			}
			stats.Cleared++

			// Host resolution may reassert a value for the slot. Only
			// when nothing resolves is the root original written back.
			if _, ok := n.Color(prop); ok {
				continue
			}
			root, ok := m.roots.Root(cur)
			if !ok {
				root, ok = m.reverse[cur]
			}
			if !ok {
				continue
			}
			if err := n.SetColor(prop, root, bridge.PriorityStyle); err != nil {
				m.log.Warn("root original restore failed", "prop", prop, "err", err)
				continue
			}
			stats.NullFallbacks++
		}
		for _, c := range n.Children() {
			visit(c, depth+1)
		}
	}
	for _, w := range host.Windows() {
		visit(w, 0)
	}

	m.reverse = nil
	m.log.Info("purge complete",
		"cleared", stats.Cleared,
		"nullFallbacks", stats.NullFallbacks,
		"orphans", stats.Orphans)
	return stats
}

// AuditReport counts properties still holding an original, untranslated
// color after a theme settles.
type AuditReport struct {
	Remaining int
	ByColor   map[string]int
}

// Audit re-walks the tree read-only and reports how many properties
// still hold a color the active map should have replaced. Diagnostic
// only; nothing is written.
func (m *Mapper) Audit(host bridge.Host) AuditReport {
	report := AuditReport{ByColor: make(map[string]int)}
	active := m.active
	if active == nil {
		return report
	}

	var visit func(n bridge.Node, depth int)
	visit = func(n bridge.Node, depth int) {
		if depth >= maxWalkDepth || n.Tag() == bridge.ExemptTag {
			return
		}
		for _, prop := range bridge.ColorProperties {
			raw, ok := n.Color(prop)
			if !ok {
				continue
			}
			cur, err := colorx.Normalize(raw)
			if err != nil {
				continue
			}
			if _, ok := active.Get(cur); ok {
				report.Remaining++
				report.ByColor[cur]++
			}
		}
		for _, c := range n.Children() {
			visit(c, depth+1)
		}
	}
	for _, w := range host.Windows() {
		visit(w, 0)
	}

	if report.Remaining > 0 {
		type offender struct {
			color string
			count int
		}
		worst := make([]offender, 0, len(report.ByColor))
		for c, n := range report.ByColor {
			worst = append(worst, offender{c, n})
		}
		sort.Slice(worst, func(i, j int) bool {
			if worst[i].count != worst[j].count {
				return worst[i].count > worst[j].count
			}
			return worst[i].color < worst[j].color
		})
		if len(worst) > 5 {
			worst = worst[:5]
		}
		for _, o := range worst {
			m.log.Warn("untranslated color after settle", "color", o.color, "count", o.count)
		}
	}
	return report
}
