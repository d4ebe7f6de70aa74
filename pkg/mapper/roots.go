package mapper

// RootOriginals is the process-lifetime map from every replacement
// color ever produced back to the true original host color it derives
// from. It is append-only and never cleared: once recorded, a root
// original always wins over any intermediate theme color, which is what
// lets revert restore ground truth after any number of theme switches.
//
// Created once at engine construction and passed by reference into
// every apply and revert; deliberately an accumulating cache, not
// incidental global state.
type RootOriginals struct {
	m map[string]string
}

// NewRootOriginals returns an empty store.
func NewRootOriginals() *RootOriginals {
	return &RootOriginals{m: make(map[string]string)}
}

// Record remembers that replacement stands for original. If original is
// itself a previously recorded replacement, the chain is collapsed and
// its root is stored instead. First write per replacement wins.
func (r *RootOriginals) Record(replacement, original string) {
	if replacement == original {
		return
	}
	if root, ok := r.m[original]; ok {
		original = root
	}
	if replacement == original {
		return
	}
	if _, ok := r.m[replacement]; ok {
		return
	}
	r.m[replacement] = original
}

// Root returns the root original a replacement traces back to.
func (r *RootOriginals) Root(replacement string) (string, bool) {
	v, ok := r.m[replacement]
	return v, ok
}

// Snapshot returns a copy of the full replacement->root mapping, for
// building merged tree maps.
func (r *RootOriginals) Snapshot() map[string]string {
	out := make(map[string]string, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out
}

// Len returns the number of recorded replacements.
func (r *RootOriginals) Len() int { return len(r.m) }
