// Package panel holds the live-tunable parameters of the demo: a numeric control for the instance count
// and a color control for the backdrop. Controls are plain values; input and drawing live elsewhere.
package panel

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Number is a bounded numeric control. Dragging changes the shown value; committing fires OnFinishChange.
type Number struct {
	Label          string
	Min, Max, Step float64
	// OnFinishChange is called with the value when a drag is committed and the value changed.
	OnFinishChange func(v float64)

	value     float64
	committed float64
}

// NewNumber returns a control showing initial (snapped and clamped). Nothing fires until the first commit.
func NewNumber(label string, min, max, step, initial float64) *Number {
	n := &Number{Label: label, Min: min, Max: max, Step: step}
	n.value = n.normalize(initial)
	n.committed = n.value
	return n
}

// Value returns the shown value.
func (n *Number) Value() float64 {
	return n.value
}

// Dragging reports whether the shown value differs from the last committed one.
func (n *Number) Dragging() bool {
	return n.value != n.committed
}

// Drag moves the shown value to v without firing.
func (n *Number) Drag(v float64) {
	n.value = n.normalize(v)
}

// Nudge drags by steps increments.
func (n *Number) Nudge(steps int) {
	n.Drag(n.value + float64(steps)*n.Step)
}

// Commit fires OnFinishChange if the shown value changed since the last commit.
func (n *Number) Commit() {
	if !n.Dragging() {
		return
	}
	n.committed = n.value
	if n.OnFinishChange != nil {
		n.OnFinishChange(n.value)
	}
}

// Set drags to v and commits.
func (n *Number) Set(v float64) {
	n.Drag(v)
	n.Commit()
}

func (n *Number) normalize(v float64) float64 {
	if n.Step > 0 {
		v = n.Min + math.Round((v-n.Min)/n.Step)*n.Step
	}
	return math.Min(math.Max(v, n.Min), n.Max)
}

// String formats the value with as many decimals as the step needs.
func (n *Number) String() string {
	if n.Step == math.Trunc(n.Step) {
		return fmt.Sprintf("%d", int64(n.value))
	}
	return fmt.Sprintf("%g", n.value)
}

// Color is a hex color control. Every successful Set fires OnChange.
type Color struct {
	Label    string
	OnChange func(c color.RGBA)

	value colorful.Color
}

// NewColor returns a control holding hex.
func NewColor(label, hex string) (*Color, error) {
	v, err := ParseHex(hex)
	if err != nil {
		return nil, err
	}
	return &Color{Label: label, value: v}, nil
}

// Set parses hex ("#rrggbb", "#rgb", with or without '#') and fires OnChange.
func (c *Color) Set(hex string) error {
	v, err := ParseHex(hex)
	if err != nil {
		return err
	}
	c.value = v
	if c.OnChange != nil {
		c.OnChange(c.RGBA())
	}
	return nil
}

// Hex returns the value as "#rrggbb".
func (c *Color) Hex() string {
	return c.value.Hex()
}

// RGBA returns the value as an opaque color.
func (c *Color) RGBA() color.RGBA {
	r, g, b := c.value.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ParseHex parses a hex color, accepting the short form and a missing '#'.
func ParseHex(s string) (colorful.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("panel: color %q: %w", s, err)
	}
	return c, nil
}
