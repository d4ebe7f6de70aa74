// Package bridge declares the capability seam between the theming
// engine and whatever introspection facility reaches the host UI. The
// engine is polymorphic over exactly three node capabilities: color
// properties, children and a tag. Adapters satisfying these interfaces
// live entirely outside the engine.
package bridge

// Priority controls how a color write interacts with the host's own
// style system.
type Priority int

const (
	// PriorityStyle writes can be transiently overridden by host
	// interaction states (hover, pressed) and reassert afterwards.
	PriorityStyle Priority = iota
	// PriorityLocal writes win unconditionally. Used during live
	// preview, where the theme has not yet round-tripped through the
	// host's style system.
	PriorityLocal
)

// ExemptTag marks a subtree the walk must never recolor, such as the
// engine's own color-preview swatches.
const ExemptTag = "retheme-exempt"

// ColorProperties is the fixed set of color-valued slots the walk reads
// on every node. What these names resolve to on a concrete node type is
// the adapter's concern.
var ColorProperties = []string{"Background", "Foreground", "BorderBrush", "Fill"}

// Node is one element of the host's visual tree.
type Node interface {
	// Children returns the node's immediate visual children.
	Children() []Node
	// Color reads a named color property. The returned value is hex;
	// the second result is false when the slot has no resolvable value.
	Color(prop string) (string, bool)
	// SetColor writes a named color property at the given priority.
	SetColor(prop, value string, pri Priority) error
	// ClearColor removes an overriding value so the host's own style
	// resolution reasserts for that slot.
	ClearColor(prop string) error
	Tag() string
	SetTag(tag string)
}

// ValueKind tells the adapter whether a resource value must be wrapped
// in a brush object before assignment or written as a raw color.
type ValueKind int

const (
	ValueColor ValueKind = iota
	ValueBrush
)

// ResourceTable is one key->value style table of the host.
type ResourceTable interface {
	Lookup(key string) (string, bool)
	Set(key, value string, kind ValueKind) error
	Remove(key string) error
}

// ResourceChain is the host's ordered list of resource tables: a
// mutable base style table plus appended overlay dictionaries. Later
// tables shadow earlier ones during resolution.
type ResourceChain interface {
	Base() ResourceTable
	Append(t ResourceTable)
	Remove(t ResourceTable)
}

// Host is the engine's view of the application being themed.
type Host interface {
	// Windows enumerates all currently open top-level windows so a
	// theme applies uniformly, not only to the primary window.
	Windows() []Node
	Resources() ResourceChain
	// NewOverlay creates an empty dictionary suitable for appending to
	// the resource chain.
	NewOverlay() ResourceTable
	// OnLayoutChanged subscribes to the host's own layout-changed
	// notification. The returned function unsubscribes.
	OnLayoutChanged(fn func()) (unsubscribe func())
}

// Dispatcher marshals work onto the thread that owns the host tree.
// RunOnUI blocks until fn has run; all tree mutation goes through it.
type Dispatcher interface {
	RunOnUI(fn func())
}

// DirectDispatcher runs work inline. Suitable when the caller already
// owns the UI thread, and for tests.
type DirectDispatcher struct{}

func (DirectDispatcher) RunOnUI(fn func()) { fn() }
