package theme

// Palette and ttk styles for the scanner window. InitStyles activates the
// base theme once the Tk app exists; views reference the style names below.

import (
	"image/color"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg        = "#f7f9fb"
	ColorSurface   = "#ffffff"
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb"
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981"
	ColorWarn      = "#d97706"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Warn      string
	Text      string
	TextMuted string
}

var darkPalette = PaletteSnapshot{
	AppBg:     "#0f172a",
	Surface:   "#1e293b",
	Border:    "#334155",
	Primary:   "#3b82f6",
	Danger:    "#ef4444",
	Accent:    "#10b981",
	Warn:      "#f59e0b",
	Text:      "#f1f5f9",
	TextMuted: "#94a3b8",
}

var lightPalette = PaletteSnapshot{
	AppBg:     ColorBg,
	Surface:   ColorSurface,
	Border:    ColorBorder,
	Primary:   ColorPrimary,
	Danger:    ColorDanger,
	Accent:    ColorAccent,
	Warn:      ColorWarn,
	Text:      ColorText,
	TextMuted: ColorTextMuted,
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return darkPalette
	}
	return lightPalette
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleWarnLabel     = "warn.TLabel"
	StyleStepLabel     = "step.TLabel"
)

var darkMode bool

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark switches mode and reapplies styles. Returns new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(CurrentPalette())
	return darkMode
}

// ToggleDark flips dark mode.
func ToggleDark() bool { return SetDark(!darkMode) }

// IsDark reports current mode.
func IsDark() bool { return darkMode }

// Hex renders a sticker color as a Tk color string.
func Hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleWarnLabel,
		Foreground("white"),
		Background(p.Warn),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleStepLabel,
		Foreground(p.Text),
		Background(p.Surface),
		Padding("2p 1p"),
	)
}
