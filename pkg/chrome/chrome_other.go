//go:build !windows

package chrome

// New returns a no-op adapter; only Windows exposes a per-window
// caption color.
func New(func() []uintptr) Adapter {
	return Noop{}
}
