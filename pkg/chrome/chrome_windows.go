//go:build windows

package chrome

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/errors"
)

// DWMWA_CAPTION_COLOR, Windows 11 build 22000+. Earlier builds reject
// the attribute and the adapter degrades to a logged failure.
const dwmwaCaptionColor = 35

// captionDefault asks DWM to restore the system caption color.
const captionDefault = 0xFFFFFFFF

var (
	dwmapi                = windows.NewLazySystemDLL("dwmapi.dll")
	dwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

type dwmAdapter struct {
	handles func() []uintptr
}

// New returns the DWM-backed adapter. handles enumerates the top-level
// window handles to recolor; it is called on every SetAccent so windows
// opened later are covered by the next apply.
func New(handles func() []uintptr) Adapter {
	return &dwmAdapter{handles: handles}
}

func (a *dwmAdapter) SetAccent(hex string) error {
	c, err := colorx.Parse(hex)
	if err != nil {
		return err
	}
	// COLORREF is 0x00BBGGRR.
	ref := uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
	return a.set(ref)
}

func (a *dwmAdapter) Clear() error {
	return a.set(captionDefault)
}

func (a *dwmAdapter) set(ref uint32) error {
	var firstErr error
	for _, hwnd := range a.handles() {
		hr, _, _ := dwmSetWindowAttribute.Call(
			hwnd,
			uintptr(dwmwaCaptionColor),
			uintptr(unsafe.Pointer(&ref)),
			unsafe.Sizeof(ref),
		)
		if hr != 0 && firstErr == nil {
			firstErr = errors.PlatformError("DWM_CAPTION_REJECTED", "DwmSetWindowAttribute failed").
				WithDetails(fmt.Sprintf("HRESULT 0x%08X", hr))
		}
	}
	return firstErr
}
