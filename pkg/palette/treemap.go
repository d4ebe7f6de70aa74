package palette

// TreeColorMap maps original host colors to their replacements, in
// append order. Values are unique within one map: two originals never
// share a replacement, otherwise revert could not tell them apart.
type TreeColorMap struct {
	order []string
	m     map[string]string
}

// NewTreeColorMap returns an empty map.
func NewTreeColorMap() *TreeColorMap {
	return &TreeColorMap{m: make(map[string]string)}
}

// Set adds or updates a mapping, preserving first-insert order of keys.
func (t *TreeColorMap) Set(original, replacement string) {
	if _, ok := t.m[original]; !ok {
		t.order = append(t.order, original)
	}
	t.m[original] = replacement
}

// Get returns the replacement for an original color.
func (t *TreeColorMap) Get(original string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.m[original]
	return v, ok
}

// Originals returns the original colors in append order. Callers must
// not mutate the returned slice.
func (t *TreeColorMap) Originals() []string {
	if t == nil {
		return nil
	}
	return t.order
}

// Len returns the number of mappings.
func (t *TreeColorMap) Len() int {
	if t == nil {
		return 0
	}
	return len(t.m)
}

// Clone returns an independent copy.
func (t *TreeColorMap) Clone() *TreeColorMap {
	out := NewTreeColorMap()
	for _, k := range t.Originals() {
		out.Set(k, t.m[k])
	}
	return out
}

// Reverse builds the replacement->original map. When two originals map
// to the same replacement (which the uniqueness pass prevents for
// generated maps, but merged maps can still produce), the first
// original in append order wins.
func (t *TreeColorMap) Reverse() map[string]string {
	out := make(map[string]string, t.Len())
	for _, orig := range t.Originals() {
		repl := t.m[orig]
		if _, seen := out[repl]; !seen {
			out[repl] = orig
		}
	}
	return out
}

// ensureUniqueValues perturbs colliding replacement values by single
// channel increments until every value in the map is unique. Entries
// keep their append order and the first writer keeps its exact value.
// Unlike a single-shot perturbation, this loops to a fixed point so a
// nudged value cannot itself collide with a later entry.
func (t *TreeColorMap) ensureUniqueValues() {
	seen := make(map[string]bool, len(t.order))
	for _, orig := range t.order {
		v := t.m[orig]
		for seen[v] {
			v = perturb(v)
		}
		seen[v] = true
		t.m[orig] = v
	}
}

// perturb bumps one channel of a #AARRGGBB string by one unit. It
// walks B, then G, then R, carrying when a channel is already 0xFF.
func perturb(hex string) string {
	b := []byte(hex)
	// channel offsets within #AARRGGBB: B at 7, G at 5, R at 3
	for _, off := range []int{7, 5, 3} {
		hi, lo := fromHexDigit(b[off]), fromHexDigit(b[off+1])
		v := hi<<4 | lo
		if v < 0xFF {
			v++
			b[off] = toHexDigit(v >> 4)
			b[off+1] = toHexDigit(v & 0xF)
			return string(b)
		}
		// channel saturated: reset and carry into the next one
		b[off], b[off+1] = '0', '0'
	}
	return string(b)
}

func fromHexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func toHexDigit(v int) byte {
	if v < 10 {
		return byte('0' + v)
	}
	return byte('A' + v - 10)
}

// Merge builds the combined map used for a walk after a theme switch.
//
// Beyond next's own original->replacement entries it adds:
//
//   - cross-mapping: for every entry of the previously active map, the
//     previous replacement is mapped to next's replacement for the same
//     original, so controls already repainted by the old theme are
//     caught by the next walk;
//   - stale-mapping: for every replacement ever recorded against a root
//     original (across all prior themes), the stale replacement is
//     mapped via next's entry for that root original, catching colors
//     that survived two or more theme switches.
//
// next's own entries always win; identity mappings are skipped.
func Merge(next *TreeColorMap, prev *TreeColorMap, rootOriginals map[string]string) *TreeColorMap {
	combined := next.Clone()

	if prev != nil {
		for _, orig := range prev.Originals() {
			prevRepl, _ := prev.Get(orig)
			newRepl, ok := next.Get(orig)
			if !ok || prevRepl == newRepl {
				continue
			}
			if _, taken := combined.Get(prevRepl); taken {
				continue
			}
			combined.Set(prevRepl, newRepl)
		}
	}

	for staleRepl, root := range rootOriginals {
		newRepl, ok := next.Get(root)
		if !ok || staleRepl == newRepl {
			continue
		}
		if _, taken := combined.Get(staleRepl); taken {
			continue
		}
		combined.Set(staleRepl, newRepl)
	}

	return combined
}
