// Package chrome sets the OS window-chrome accent to match the active
// theme background. The call is platform-specific and best effort; the
// engine logs failures and moves on.
package chrome

// Adapter colors the title bar of the host's windows.
type Adapter interface {
	// SetAccent applies a hex color to all window chrome.
	SetAccent(hex string) error
	// Clear restores the platform default chrome.
	Clear() error
}

// Noop is the adapter for platforms without a chrome-color capability.
type Noop struct{}

func (Noop) SetAccent(string) error { return nil }
func (Noop) Clear() error           { return nil }

// Func adapts a host-provided callback. Embedders whose bridge already
// exposes a chrome call can plug it in directly.
type Func func(hex string) error

func (f Func) SetAccent(hex string) error { return f(hex) }
func (f Func) Clear() error               { return f("") }
