// Package colorx provides the pure color math the theming engine is
// built on: canonical #AARRGGBB handling, RGB/HSL/HSV conversions,
// lighten/darken, alpha composition and WCAG luminance.
//
// Functions other than Normalize and Parse assume well-formed input;
// the engine validates hex strings at its public entry points before
// anything in this package runs.
package colorx

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ARGB is a parsed color value. Channels are 0-255.
type ARGB struct {
	A, R, G, B uint8
}

// Normalize converts any well-formed #RGB, #RRGGBB or #AARRGGBB string
// into the canonical 8-digit #AARRGGBB form used for all map keys.
// Equality on normalized strings is stable regardless of how a host
// node reported the color.
func Normalize(input string) (string, error) {
	c, err := Parse(input)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Valid reports whether input parses as a color value.
func Valid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// Parse decodes #RGB, #RRGGBB or #AARRGGBB into channels. A missing
// alpha is treated as fully opaque. Every digit is checked; a single
// bad character rejects the whole value.
func Parse(input string) (ARGB, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "#")
	switch len(s) {
	case 3:
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, ok := hexNibble(s[i])
			if !ok {
				return ARGB{}, fmt.Errorf("invalid hex color %q: bad digit %q", input, s[i])
			}
			ch[i] = v * 17
		}
		return ARGB{A: 0xFF, R: ch[0], G: ch[1], B: ch[2]}, nil
	case 6:
		b, err := hex.DecodeString(s)
		if err != nil {
			return ARGB{}, fmt.Errorf("invalid hex color %q: %w", input, err)
		}
		return ARGB{A: 0xFF, R: b[0], G: b[1], B: b[2]}, nil
	case 8:
		b, err := hex.DecodeString(s)
		if err != nil {
			return ARGB{}, fmt.Errorf("invalid hex color %q: %w", input, err)
		}
		return ARGB{A: b[0], R: b[1], G: b[2], B: b[3]}, nil
	default:
		return ARGB{}, fmt.Errorf("invalid hex color %q: want 3, 6 or 8 digits", input)
	}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hex formats the color in canonical #AARRGGBB form.
func (c ARGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// RGBHex formats the color as #RRGGBB, dropping alpha. Used where the
// consumer (window chrome, terminal preview) has no alpha channel.
func (c ARGB) RGBHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c ARGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func fromColorful(cc colorful.Color, alpha uint8) ARGB {
	r, g, b := cc.Clamped().RGB255()
	return ARGB{A: alpha, R: r, G: g, B: b}
}

// HSL returns hue in degrees [0,360), saturation and lightness in [0,1].
func (c ARGB) HSL() (h, s, l float64) {
	return c.colorful().Hsl()
}

// FromHSL builds an opaque-by-default color from HSL components.
func FromHSL(h, s, l float64, alpha uint8) ARGB {
	return fromColorful(colorful.Hsl(h, clamp01(s), clamp01(l)), alpha)
}

// HSV returns hue in degrees [0,360), saturation and value in [0,1].
func (c ARGB) HSV() (h, s, v float64) {
	return c.colorful().Hsv()
}

// FromHSV builds a color from HSV components.
func FromHSV(h, s, v float64, alpha uint8) ARGB {
	return fromColorful(colorful.Hsv(h, clamp01(s), clamp01(v)), alpha)
}

// WithAlpha returns the color with its alpha channel replaced by the
// given fraction of full opacity.
func (c ARGB) WithAlpha(fraction float64) ARGB {
	c.A = uint8(math.Round(clamp01(fraction) * 255.0))
	return c
}

// Lighten blends the color linearly toward white by pct (0-1),
// preserving alpha.
func (c ARGB) Lighten(pct float64) ARGB {
	p := clamp01(pct)
	return ARGB{
		A: c.A,
		R: blendChannel(c.R, 255, p),
		G: blendChannel(c.G, 255, p),
		B: blendChannel(c.B, 255, p),
	}
}

// Darken blends the color linearly toward black by pct (0-1),
// preserving alpha.
func (c ARGB) Darken(pct float64) ARGB {
	p := clamp01(pct)
	return ARGB{
		A: c.A,
		R: blendChannel(c.R, 0, p),
		G: blendChannel(c.G, 0, p),
		B: blendChannel(c.B, 0, p),
	}
}

// CompositeOver alpha-composites the color over an opaque background
// and returns the resulting opaque color.
func (c ARGB) CompositeOver(bg ARGB) ARGB {
	a := float64(c.A) / 255.0
	return ARGB{
		A: 0xFF,
		R: blendChannel(bg.R, c.R, a),
		G: blendChannel(bg.G, c.G, a),
		B: blendChannel(bg.B, c.B, a),
	}
}

// Luminance returns the WCAG relative luminance, ignoring alpha.
func (c ARGB) Luminance() float64 {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	b := srgbToLinear(float64(c.B) / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// IsDark classifies the color for light/dark palette decisions.
func (c ARGB) IsDark() bool {
	return c.Luminance() < 0.45
}

// Tint moves the color toward the given hue at the given (small)
// saturation while keeping its lightness, producing text seeds that
// read warm instead of neutral gray.
func (c ARGB) Tint(hue, sat float64) ARGB {
	_, _, l := c.HSL()
	return FromHSL(hue, clamp01(sat), l, c.A)
}

func blendChannel(from, to uint8, p float64) uint8 {
	v := float64(from) + (float64(to)-float64(from))*p
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
