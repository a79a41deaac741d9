package ui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scatter/internal/ui/sheet"
)

const defaultFontSize = 20

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached per class and id, and dropped when the stylesheet changes, so nodes can be
// rebuilt every frame without re-resolving.
// If font is loaded (LoadFont), text is drawn with that font; otherwise raylib's default (pixel) font is used.
type Engine struct {
	sheet  *sheet.Stylesheet
	nodes  []*Node
	styles map[string]ComputedStyle
	font   rl.Font
}

// New creates an empty UI engine (no stylesheet, no nodes).
func New() *Engine {
	return &Engine{styles: make(map[string]ComputedStyle)}
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	s, err := sheet.Parse(string(data))
	if err != nil {
		return fmt.Errorf("ui: %s: %w", path, err)
	}
	e.SetStylesheet(s)
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded or merged CSS).
func (e *Engine) SetStylesheet(s *sheet.Stylesheet) {
	e.sheet = s
	e.styles = make(map[string]ComputedStyle)
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps using the default font.
// Call after the window/OpenGL context exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font returns the loaded font; its texture ID is zero when none is loaded.
func (e *Engine) Font() rl.Font {
	return e.font
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

func (e *Engine) style(n *Node) ComputedStyle {
	key := n.Class + "#" + n.ID
	if st, ok := e.styles[key]; ok {
		return st
	}
	st := ResolveProps(e.sheet.Match(n.Class, n.ID))
	e.styles[key] = st
	return st
}

// Draw draws all nodes: for each node, resolve style (cached), update bounds from style, then draw background, border, and text.
func (e *Engine) Draw() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	for _, n := range e.nodes {
		style := e.style(n)
		if style.Width > 0 {
			n.Bounds.Width = float32(style.Width)
		}
		if style.Height > 0 {
			n.Bounds.Height = float32(style.Height)
		}
		w := int32(n.Bounds.Width)
		h := int32(n.Bounds.Height)
		x := style.Left
		y := style.Top
		if style.LeftPct >= 0 {
			x = (screenW - w) * style.LeftPct / 100
		}
		if style.TopPct >= 0 {
			y = (screenH - h) * style.TopPct / 100
		}
		x += int32(n.Offset.X)
		y += int32(n.Offset.Y)
		n.Bounds.X, n.Bounds.Y = float32(x), float32(y)

		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text != "" {
			textX := x + style.Padding
			textY := y + style.Padding
			if e.font.Texture.ID != 0 {
				rl.DrawTextEx(e.font, n.Text, rl.NewVector2(float32(textX), float32(textY)), float32(style.FontSize), 1, style.Color)
			} else {
				rl.DrawText(n.Text, textX, textY, style.FontSize, style.Color)
			}
		}
	}
}

// HasStylesheet returns whether a CSS file has been loaded.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}
