package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scatter/internal/ui/sheet"
)

// ComputedStyle holds resolved values used for drawing (raylib types where applicable).
// LeftPct/TopPct: 0 to 100 for percentage positioning; -1 means use Left/Top as pixels.
// Padding is the offset (in pixels) from the node's left/top when drawing text.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32 // -1 = not set
	TopPct     int32 // -1 = not set
	Padding    int32
	FontSize   int32
}

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, zero size).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   defaultFontSize,
	}
}

func toColor(s string) (rl.Color, bool) {
	c, ok := sheet.ParseColor(s)
	return rl.NewColor(c.R, c.G, c.B, c.A), ok
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		v = strings.TrimSpace(v)
		switch k {
		case "background":
			if c, ok := toColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := toColor(v); ok {
				out.Color = c
			}
		case "border":
			if c, ok := toColor(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := sheet.ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := sheet.ParsePx(v); ok {
				out.Height = n
			}
		case "left", "x":
			if pct, ok := sheet.ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := sheet.ParsePx(v); ok {
				out.Left = n
			}
		case "top", "y":
			if pct, ok := sheet.ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := sheet.ParsePx(v); ok {
				out.Top = n
			}
		case "padding":
			if n, ok := sheet.ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := sheet.ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		}
	}
	return out
}
