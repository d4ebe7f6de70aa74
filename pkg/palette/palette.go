// Package palette derives the full named resource palette and the tree
// color-substitution table from two seed colors. Everything here is
// pure: a Palette is built fresh per apply and never mutated after.
package palette

// Kind says how a palette value must be assigned to the host.
type Kind int

const (
	// KindColor is a raw color value. Color keys also emit an
	// auto-generated "<Key>Brush" companion entry.
	KindColor Kind = iota
	// KindBrush must be wrapped in a brush object before assignment.
	KindBrush
)

// Entry is a single named palette slot.
type Entry struct {
	Key   string
	Value string // canonical #AARRGGBB
	Kind  Kind
}

// Palette is an ordered set of logical resource keys. Order matters:
// the resource store applies entries in generation order so captured
// originals and override counts are deterministic.
type Palette struct {
	entries []Entry
	index   map[string]int
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	return &Palette{index: make(map[string]int)}
}

// Set appends or replaces an entry, preserving first-insert order.
func (p *Palette) Set(key, value string, kind Kind) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		p.entries[i].Kind = kind
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Value: value, Kind: kind})
}

// Get returns the entry for key.
func (p *Palette) Get(key string) (Entry, bool) {
	if p == nil {
		return Entry{}, false
	}
	i, ok := p.index[key]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Value returns just the color value for key, or "".
func (p *Palette) Value(key string) string {
	e, ok := p.Get(key)
	if !ok {
		return ""
	}
	return e.Value
}

// Entries returns the entries in insertion order. Callers must not
// mutate the returned slice.
func (p *Palette) Entries() []Entry {
	if p == nil {
		return nil
	}
	return p.entries
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}
