package palette

import (
	"github.com/uprooted/retheme/pkg/colorx"
	"github.com/uprooted/retheme/pkg/errors"
)

// Saturation/lightness clamps applied to the accent seed before any
// derivation. They keep neon and near-black seeds usable while still
// allowing genuinely dark or washed-out accents.
const (
	maxAccentSat      = 0.88
	minAccentLight    = 0.02
	maxAccentLight    = 0.65
	textTintSat       = 0.10
	textSecondaryFade = 0.78
	textTertiaryFade  = 0.55
	textDisabledFade  = 0.36
)

// Background tier lightness steps, applied at the background's own hue
// and saturation. Accent hue never leaks into surfaces.
var surfaceSteps = [4]float64{0, 0.035, 0.07, 0.11}

// generator holds the derived tier colors one Generate call works from.
type generator struct {
	accent  colorx.ARGB // clamped seed
	bg      colorx.ARGB
	accentL [4]colorx.ARGB // [0]=seed, then Light1..Light3
	accentD [4]colorx.ARGB // [0]=seed, then Dark1..Dark3
	surface [4]colorx.ARGB
	text    colorx.ARGB // brightened primary, opaque
	textOnA colorx.ARGB
}

// Generate derives the full resource palette and the tree
// color-substitution table from an accent and a background seed.
// Both seeds must be well-formed hex; this is the validation boundary
// for everything downstream.
func Generate(accent, background string) (*Palette, *TreeColorMap, error) {
	accentHex, err := colorx.Normalize(accent)
	if err != nil {
		return nil, nil, errors.ValidationError("BAD_ACCENT", "invalid accent color").WithCause(err)
	}
	bgHex, err := colorx.Normalize(background)
	if err != nil {
		return nil, nil, errors.ValidationError("BAD_BACKGROUND", "invalid background color").WithCause(err)
	}

	g := newGenerator(accentHex, bgHex)
	return g.palette(), g.treeMap(), nil
}

func newGenerator(accentHex, bgHex string) *generator {
	seed, _ := colorx.Parse(accentHex)
	bg, _ := colorx.Parse(bgHex)

	h, s0, l0 := seed.HSL()
	s := colorx.Clamp(s0, 0, maxAccentSat)
	l := colorx.Clamp(l0, minAccentLight, maxAccentLight)
	// An unclamped seed is used bit-exact; round-tripping through HSL
	// could drift a channel and break revert equality for presets.
	acc := seed
	acc.A = 0xFF
	if s != s0 || l != l0 {
		acc = colorx.FromHSL(h, s, l, 0xFF)
	}

	g := &generator{accent: acc, bg: bg}

	// Six accent tints/shades at slightly eased saturation so the
	// extremes do not go fluorescent.
	g.accentL[0] = acc
	g.accentL[1] = colorx.FromHSL(h, s*0.97, colorx.Clamp(l+0.12, 0, 1), 0xFF)
	g.accentL[2] = colorx.FromHSL(h, s*0.94, colorx.Clamp(l+0.20, 0, 1), 0xFF)
	g.accentL[3] = colorx.FromHSL(h, s*0.90, colorx.Clamp(l+0.28, 0, 1), 0xFF)
	g.accentD[0] = acc
	g.accentD[1] = colorx.FromHSL(h, s*0.97, colorx.Clamp(l-0.12, 0, 1), 0xFF)
	g.accentD[2] = colorx.FromHSL(h, s*0.94, colorx.Clamp(l-0.22, 0, 1), 0xFF)
	g.accentD[3] = colorx.FromHSL(h, s*0.90, colorx.Clamp(l-0.32, 0, 1), 0xFF)

	// Surface tiers step lightness at the background's own hue.
	bh, bs0, bl := bg.HSL()
	bs := colorx.Clamp(bs0, 0, maxAccentSat)
	for i, step := range surfaceSteps {
		g.surface[i] = colorx.FromHSL(bh, bs, colorx.Clamp(bl+step, 0, 1), 0xFF)
	}
	if bs == bs0 {
		// Base tier is the seed itself when no clamp applied, bit-exact.
		g.surface[0] = bg
		g.surface[0].A = 0xFF
	}

	// Text seed: near-white on dark surfaces, near-black on light ones,
	// faintly tinted with the accent hue so it reads warm.
	var seedText colorx.ARGB
	if bg.IsDark() {
		seedText, _ = colorx.Parse("#F3F3F3")
	} else {
		seedText, _ = colorx.Parse("#1B1B1B")
	}
	tinted := seedText.Tint(h, textTintSat)
	if bg.IsDark() {
		g.text = tinted.Lighten(0.08)
	} else {
		g.text = tinted.Darken(0.08)
	}

	if acc.IsDark() {
		g.textOnA, _ = colorx.Parse("#FFFFFF")
	} else {
		g.textOnA, _ = colorx.Parse("#111111")
	}
	return g
}

// palette emits the named resource slots. Alpha fractions are fixed per
// key; only the base colors vary with the seeds.
func (g *generator) palette() *Palette {
	p := NewPalette()
	set := func(key string, c colorx.ARGB, kind Kind) { p.Set(key, c.Hex(), kind) }

	// Accent ramp
	set("SystemAccentColor", g.accent, KindColor)
	set("SystemAccentColorLight1", g.accentL[1], KindColor)
	set("SystemAccentColorLight2", g.accentL[2], KindColor)
	set("SystemAccentColorLight3", g.accentL[3], KindColor)
	set("SystemAccentColorDark1", g.accentD[1], KindColor)
	set("SystemAccentColorDark2", g.accentD[2], KindColor)
	set("SystemAccentColorDark3", g.accentD[3], KindColor)

	// Accent fills
	set("AccentFillColorDefaultBrush", g.accent, KindBrush)
	set("AccentFillColorSecondaryBrush", g.accent.WithAlpha(0.90), KindBrush)
	set("AccentFillColorTertiaryBrush", g.accent.WithAlpha(0.80), KindBrush)
	set("AccentFillColorDisabledBrush", g.accent.WithAlpha(0.40), KindBrush)
	set("AccentFillColorSelectedTextBackgroundBrush", g.accent.WithAlpha(0.35), KindBrush)
	set("AccentTextFillColorPrimaryBrush", g.accentL[3], KindBrush)
	set("AccentTextFillColorSecondaryBrush", g.accentL[2], KindBrush)
	set("AccentTextFillColorTertiaryBrush", g.accentL[1], KindBrush)
	set("AccentTextFillColorDisabledBrush", g.text.WithAlpha(textDisabledFade), KindBrush)

	// Text tiers
	set("TextFillColorPrimary", g.text, KindColor)
	set("TextFillColorSecondary", g.text.WithAlpha(textSecondaryFade), KindColor)
	set("TextFillColorTertiary", g.text.WithAlpha(textTertiaryFade), KindColor)
	set("TextFillColorDisabled", g.text.WithAlpha(textDisabledFade), KindColor)
	set("TextOnAccentFillColorPrimary", g.textOnA, KindColor)
	set("TextOnAccentFillColorSecondary", g.textOnA.WithAlpha(0.70), KindColor)
	set("TextControlSelectionHighlightColor", g.accent.WithAlpha(0.35), KindColor)

	// Surfaces
	set("SolidBackgroundFillColorBase", g.surface[0], KindColor)
	set("SolidBackgroundFillColorSecondary", g.surface[1], KindColor)
	set("SolidBackgroundFillColorTertiary", g.surface[2], KindColor)
	set("SolidBackgroundFillColorQuaternary", g.surface[3], KindColor)
	set("LayerFillColorDefault", g.surface[1].WithAlpha(0.70), KindColor)
	set("LayerFillColorAlt", g.surface[2], KindColor)
	set("CardBackgroundFillColorDefault", g.surface[1].WithAlpha(0.90), KindColor)
	set("CardBackgroundFillColorSecondary", g.surface[2].WithAlpha(0.90), KindColor)
	set("SmokeFillColorDefault", g.surface[0].Darken(0.5).WithAlpha(0.30), KindColor)

	// Strokes
	set("CardStrokeColorDefault", g.text.WithAlpha(0.12), KindColor)
	set("ControlStrokeColorDefault", g.text.WithAlpha(0.16), KindColor)
	set("ControlStrokeColorSecondary", g.text.WithAlpha(0.22), KindColor)
	set("SurfaceStrokeColorDefault", g.text.WithAlpha(0.20), KindColor)
	set("SurfaceStrokeColorFlyout", g.surface[0].Darken(0.30), KindColor)
	set("DividerStrokeColorDefault", g.text.WithAlpha(0.10), KindColor)
	set("FocusStrokeColorOuter", g.accentL[1], KindColor)
	set("FocusStrokeColorInner", g.surface[0], KindColor)

	// Control fills
	set("ControlFillColorDefault", g.surface[1], KindColor)
	set("ControlFillColorSecondary", g.surface[2], KindColor)
	set("ControlFillColorTertiary", g.surface[1].WithAlpha(0.60), KindColor)
	set("ControlFillColorDisabled", g.surface[1].WithAlpha(0.45), KindColor)
	set("ControlFillColorInputActive", g.surface[0], KindColor)
	set("ControlSolidFillColorDefault", g.surface[2], KindColor)
	set("SubtleFillColorSecondary", g.text.WithAlpha(0.08), KindColor)
	set("SubtleFillColorTertiary", g.text.WithAlpha(0.05), KindColor)
	set("SubtleFillColorDisabled", g.text.WithAlpha(0.0), KindColor)

	// Interaction states
	set("ButtonBackground", g.accent, KindBrush)
	set("ButtonBackgroundPointerOver", g.accentL[1], KindBrush)
	set("ButtonBackgroundPressed", g.accentD[1], KindBrush)
	set("ButtonBackgroundDisabled", g.accent.WithAlpha(0.35), KindBrush)
	set("ListViewItemBackgroundSelected", g.accent.WithAlpha(0.25), KindBrush)
	set("ListViewItemBackgroundPointerOver", g.text.WithAlpha(0.08), KindBrush)
	set("ToggleSwitchFillOn", g.accent, KindBrush)
	set("ToggleSwitchFillOnPointerOver", g.accentL[1], KindBrush)
	set("ScrollBarThumbFill", g.text.WithAlpha(0.35), KindBrush)
	set("ScrollBarThumbFillPointerOver", g.text.WithAlpha(0.55), KindBrush)

	return p
}

// Colors the host hard-codes into its native tree rather than reading
// from its resource tables. The walk only ever rewrites values found in
// this table (or values derived from it on earlier applies).
type hostRole int

const (
	roleAccent hostRole = iota
	roleSurface
	roleText
	roleControl
	roleOverlay
)

var hostTreeColors = []struct {
	hex  string
	role hostRole
	tier int
}{
	{"#FF3B6AF8", roleAccent, 0},  // primary action blue
	{"#FF5E85F5", roleAccent, 1},  // hover tint
	{"#FF2B50C8", roleAccent, -1}, // pressed shade
	{"#FF7B9AF9", roleAccent, 2},  // link text
	{"#FF202225", roleSurface, 0}, // window background
	{"#FF26282C", roleSurface, 1}, // sidebar
	{"#FF2F3136", roleSurface, 2}, // channel list
	{"#FF36393F", roleSurface, 3}, // content pane
	{"#FFF2F3F5", roleText, 0},    // primary text
	{"#FFB9BBBE", roleText, 1},    // secondary text
	{"#FF72767D", roleText, 2},    // muted text
	{"#FF40444B", roleControl, 0}, // input field
	{"#FF4F545C", roleControl, 1}, // hovered control
	{"#FF18191C", roleOverlay, 0}, // tooltip / popup scrim
	{"#FF111214", roleOverlay, 1}, // modal underlay
}

// treeMap derives a replacement for every known hard-coded host color
// with the same hue/tier logic the palette uses, then makes the value
// set collision-free.
func (g *generator) treeMap() *TreeColorMap {
	t := NewTreeColorMap()
	for _, hc := range hostTreeColors {
		t.Set(hc.hex, g.deriveFor(hc.role, hc.tier).Hex())
	}
	t.ensureUniqueValues()
	return t
}

func (g *generator) deriveFor(role hostRole, tier int) colorx.ARGB {
	switch role {
	case roleAccent:
		if tier >= 0 {
			return g.accentL[min(tier, 3)]
		}
		return g.accentD[min(-tier, 3)]
	case roleSurface:
		return g.surface[min(tier, 3)]
	case roleText:
		// Tree foregrounds must stay opaque: fade tiers are composited
		// over the base surface instead of carrying alpha.
		switch tier {
		case 0:
			return g.text
		case 1:
			return g.text.WithAlpha(textSecondaryFade).CompositeOver(g.surface[0])
		default:
			return g.text.WithAlpha(textTertiaryFade).CompositeOver(g.surface[0])
		}
	case roleControl:
		return g.surface[min(tier+1, 3)]
	default: // roleOverlay
		return g.surface[0].Darken(0.12 + 0.08*float64(tier))
	}
}
