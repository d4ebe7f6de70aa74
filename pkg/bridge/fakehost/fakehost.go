// Package fakehost is an in-memory host implementation used by the
// engine's tests and the preview application. It mimics the parts of a
// retained-mode UI toolkit the engine cares about: a rebuildable node
// tree, per-node color slots with style-resolution fallback, and a
// chain of resource dictionaries.
package fakehost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/uprooted/retheme/pkg/bridge"
)

type slot struct {
	value    string
	pri      bridge.Priority
	explicit bool // written directly (hard-coded or by the engine)
}

// Node is a fake visual-tree element.
type Node struct {
	Name string

	tag      string
	slots    map[string]slot
	styleRef map[string]string // property -> resource key fallback
	children []*Node
	host     *Host
}

// NewNode creates a detached node. Attach it with AddChild or use it as
// a window root via Host.AddWindow.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		slots:    make(map[string]slot),
		styleRef: make(map[string]string),
	}
}

// WithColor hard-codes a color slot, like a host control with an inline
// literal value. Returns the node for chaining during tree setup.
func (n *Node) WithColor(prop, hex string) *Node {
	n.slots[prop] = slot{value: hex, pri: bridge.PriorityStyle, explicit: true}
	return n
}

// WithStyleRef binds a slot to a resource key, like a host control
// templated against the style system.
func (n *Node) WithStyleRef(prop, resourceKey string) *Node {
	n.styleRef[prop] = resourceKey
	return n
}

// AddChild attaches a child and returns it.
func (n *Node) AddChild(c *Node) *Node {
	c.host = n.host
	c.propagateHost()
	n.children = append(n.children, c)
	return c
}

// RemoveChildren detaches all children, simulating a host rebuild.
func (n *Node) RemoveChildren() {
	n.children = nil
}

func (n *Node) propagateHost() {
	for _, c := range n.children {
		c.host = n.host
		c.propagateHost()
	}
}

// Children implements bridge.Node.
func (n *Node) Children() []bridge.Node {
	out := make([]bridge.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Color implements bridge.Node: explicit value first, then style
// resolution through the host's resource chain.
func (n *Node) Color(prop string) (string, bool) {
	if s, ok := n.slots[prop]; ok && s.explicit {
		return s.value, true
	}
	if key, ok := n.styleRef[prop]; ok && n.host != nil {
		if v, ok := n.host.chain.resolve(key); ok {
			return v, true
		}
	}
	return "", false
}

// SetColor implements bridge.Node.
func (n *Node) SetColor(prop, value string, pri bridge.Priority) error {
	n.slots[prop] = slot{value: value, pri: pri, explicit: true}
	return nil
}

// ClearColor implements bridge.Node.
func (n *Node) ClearColor(prop string) error {
	delete(n.slots, prop)
	return nil
}

func (n *Node) Tag() string       { return n.tag }
func (n *Node) SetTag(tag string) { n.tag = tag }

// Explicit reports whether a slot carries a direct value rather than a
// style-resolved one. Tests use it to distinguish engine writes from
// host fallbacks.
func (n *Node) Explicit(prop string) bool {
	s, ok := n.slots[prop]
	return ok && s.explicit
}

// Table is a fake resource dictionary. Keys listed in FailKeys error on
// write, for exercising the engine's best-effort paths.
type Table struct {
	mu       sync.Mutex
	values   map[string]string
	kinds    map[string]bridge.ValueKind
	FailKeys map[string]bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		values: make(map[string]string),
		kinds:  make(map[string]bridge.ValueKind),
	}
}

// Lookup implements bridge.ResourceTable.
func (t *Table) Lookup(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[key]
	return v, ok
}

// Set implements bridge.ResourceTable.
func (t *Table) Set(key, value string, kind bridge.ValueKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailKeys[key] {
		return fmt.Errorf("host rejected resource key %q", key)
	}
	t.values[key] = value
	t.kinds[key] = kind
	return nil
}

// Remove implements bridge.ResourceTable.
func (t *Table) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, key)
	delete(t.kinds, key)
	return nil
}

// Kind returns the recorded value kind for a key.
func (t *Table) Kind(key string) (bridge.ValueKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k, ok := t.kinds[key]
	return k, ok
}

// Len returns the number of stored keys.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

type chain struct {
	base     *Table
	overlays []bridge.ResourceTable
}

func (c *chain) Base() bridge.ResourceTable { return c.base }

func (c *chain) Append(t bridge.ResourceTable) {
	c.overlays = append(c.overlays, t)
}

func (c *chain) Remove(t bridge.ResourceTable) {
	for i, o := range c.overlays {
		if o == t {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			return
		}
	}
}

// resolve looks a key up overlay-last-wins, then the base table.
func (c *chain) resolve(key string) (string, bool) {
	for i := len(c.overlays) - 1; i >= 0; i-- {
		if v, ok := c.overlays[i].Lookup(key); ok {
			return v, true
		}
	}
	return c.base.Lookup(key)
}

// OverlayCount reports how many dictionaries are appended beyond the
// base table.
func (c *chain) OverlayCount() int { return len(c.overlays) }

// Host is the fake application.
type Host struct {
	mu        sync.Mutex
	windows   []*Node
	chain     *chain
	listeners map[int]func()
	nextSub   int
}

// NewHost creates a host with an empty base style table and no windows.
func NewHost() *Host {
	return &Host{
		chain:     &chain{base: NewTable()},
		listeners: make(map[int]func()),
	}
}

// AddWindow registers a top-level window root.
func (h *Host) AddWindow(root *Node) *Node {
	root.host = h
	root.propagateHost()
	h.windows = append(h.windows, root)
	return root
}

// Windows implements bridge.Host.
func (h *Host) Windows() []bridge.Node {
	out := make([]bridge.Node, len(h.windows))
	for i, w := range h.windows {
		out[i] = w
	}
	return out
}

// Resources implements bridge.Host.
func (h *Host) Resources() bridge.ResourceChain { return h.chain }

// NewOverlay implements bridge.Host.
func (h *Host) NewOverlay() bridge.ResourceTable { return NewTable() }

// OverlayCount reports appended overlay dictionaries, for tests.
func (h *Host) OverlayCount() int { return h.chain.OverlayCount() }

// BaseTable exposes the fake base style table for seeding in tests.
func (h *Host) BaseTable() *Table { return h.chain.base }

// OnLayoutChanged implements bridge.Host.
func (h *Host) OnLayoutChanged(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// FireLayoutChanged simulates the host rebuilding part of its tree.
func (h *Host) FireLayoutChanged() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ListenerCount reports active layout-changed subscriptions.
func (h *Host) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Snapshot captures every node's effective color per property, keyed
// "window/node.../prop" in stable order. Round-trip tests diff two
// snapshots for bit equality.
func (h *Host) Snapshot() map[string]string {
	snap := make(map[string]string)
	var walk func(prefix string, n *Node)
	walk = func(prefix string, n *Node) {
		path := prefix + "/" + n.Name
		for _, prop := range bridge.ColorProperties {
			if v, ok := n.Color(prop); ok {
				snap[path+"."+prop] = v
			}
		}
		for _, c := range n.children {
			walk(path, c)
		}
	}
	for _, w := range h.windows {
		walk("", w)
	}
	return snap
}

// DiffSnapshots returns the sorted keys whose values differ between two
// snapshots, including keys present in only one.
func DiffSnapshots(a, b map[string]string) []string {
	var diff []string
	for k, av := range a {
		if bv, ok := b[k]; !ok || av != bv {
			diff = append(diff, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			diff = append(diff, k)
		}
	}
	sort.Strings(diff)
	return diff
}
