package colorx

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"six digit", "#3b6af8", "#FF3B6AF8", false},
		{"eight digit", "#803b6af8", "#803B6AF8", false},
		{"three digit", "#fff", "#FFFFFFFF", false},
		{"no hash", "C42B1C", "#FFC42B1C", false},
		{"already canonical", "#FFC42B1C", "#FFC42B1C", false},
		{"uppercase input", "#C42B1C", "#FFC42B1C", false},
		{"whitespace", "  #C42B1C ", "#FFC42B1C", false},
		{"empty", "", "", true},
		{"bad length", "#1234", "", true},
		{"not hex", "#zzzzzz", "", true},
		{"bad final digit", "#12345G", "", true},
		{"bad final digit with alpha", "#FF12345G", "", true},
		{"bad digit three form", "#1g2", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeStableAcrossForms(t *testing.T) {
	forms := []string{"#c42b1c", "#FFC42B1C", "C42B1C", "#ffc42b1c"}
	first, err := Normalize(forms[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range forms[1:] {
		got, err := Normalize(f)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", f, err)
		}
		if got != first {
			t.Errorf("Normalize(%q) = %q, want %q", f, got, first)
		}
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, hex := range []string{"#C42B1C", "#0F1210", "#FFFFFF", "#2A5A40"} {
		c, err := Parse(hex)
		if err != nil {
			t.Fatal(err)
		}
		h, s, l := c.HSL()
		back := FromHSL(h, s, l, c.A)
		if d := channelDistance(c, back); d > 1 {
			t.Errorf("%s round-trip drifted by %d channel units (got %s)", hex, d, back.Hex())
		}
	}
}

func TestLightenDarken(t *testing.T) {
	c, _ := Parse("#808080")

	light := c.Lighten(0.5)
	if light.R != 0xC0 || light.G != 0xC0 || light.B != 0xC0 {
		t.Errorf("Lighten(0.5) = %s, want #FFC0C0C0", light.Hex())
	}

	dark := c.Darken(0.5)
	if dark.R != 0x40 || dark.G != 0x40 || dark.B != 0x40 {
		t.Errorf("Darken(0.5) = %s, want #FF404040", dark.Hex())
	}

	// Extremes are total, not erroring
	if got := c.Lighten(1.0); got.R != 255 {
		t.Errorf("Lighten(1.0) = %s, want white", got.Hex())
	}
	if got := c.Darken(1.0); got.R != 0 {
		t.Errorf("Darken(1.0) = %s, want black", got.Hex())
	}

	// Alpha preserved
	tr, _ := Parse("#80FF0000")
	if got := tr.Lighten(0.3); got.A != 0x80 {
		t.Errorf("Lighten changed alpha: %s", got.Hex())
	}
}

func TestCompositeOver(t *testing.T) {
	fg, _ := Parse("#80FF0000") // half-transparent red
	bg, _ := Parse("#000000")
	out := fg.CompositeOver(bg)
	if out.A != 0xFF {
		t.Errorf("composite should be opaque, got alpha %d", out.A)
	}
	if out.R < 0x7E || out.R > 0x82 {
		t.Errorf("composite red channel = %d, want ~128", out.R)
	}
	if out.G != 0 || out.B != 0 {
		t.Errorf("composite leaked into green/blue: %s", out.Hex())
	}
}

func TestLuminanceClassification(t *testing.T) {
	testCases := []struct {
		hex  string
		dark bool
	}{
		{"#000000", true},
		{"#FFFFFF", false},
		{"#0F1210", true},
		{"#F3F3F3", false},
		{"#C42B1C", true},
	}
	for _, tc := range testCases {
		c, err := Parse(tc.hex)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.IsDark(); got != tc.dark {
			t.Errorf("IsDark(%s) = %v (luminance %.3f), want %v", tc.hex, got, c.Luminance(), tc.dark)
		}
	}
	white, _ := Parse("#FFFFFF")
	if math.Abs(white.Luminance()-1.0) > 0.001 {
		t.Errorf("white luminance = %f, want 1.0", white.Luminance())
	}
}

func TestWithAlpha(t *testing.T) {
	c, _ := Parse("#C42B1C")
	faded := c.WithAlpha(0.55)
	if faded.A != 0x8C {
		t.Errorf("WithAlpha(0.55) alpha = %#x, want 0x8c", faded.A)
	}
	if faded.R != c.R || faded.G != c.G || faded.B != c.B {
		t.Errorf("WithAlpha changed color channels: %s", faded.Hex())
	}
}

func TestTintKeepsLightness(t *testing.T) {
	seed, _ := Parse("#F0F0F0")
	_, _, wantL := seed.HSL()
	tinted := seed.Tint(10, 0.12)
	h, s, l := tinted.HSL()
	if math.Abs(l-wantL) > 0.02 {
		t.Errorf("Tint moved lightness from %.3f to %.3f", wantL, l)
	}
	if s > 0.15 {
		t.Errorf("Tint saturation %.3f exceeds requested cap", s)
	}
	if math.Abs(h-10) > 5 && s > 0.01 {
		t.Errorf("Tint hue = %.1f, want ~10", h)
	}
}

func channelDistance(a, b ARGB) int {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	max := d(a.R, b.R)
	if v := d(a.G, b.G); v > max {
		max = v
	}
	if v := d(a.B, b.B); v > max {
		max = v
	}
	return max
}
