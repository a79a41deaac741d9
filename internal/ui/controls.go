package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scatter/internal/panel"
)

const rowHeight = 28

// ControlsView draws the parameter panel in the top-right corner: a title, one row per control and a status line.
// It owns its nodes and rewrites their text on every AppendNodes call.
type ControlsView struct {
	frame  *Node
	title  *Node
	rows   []*Node
	status *Node
}

// NewControlsView creates the view, styled by .controls, .controls-title, .controls-row,
// .controls-row-active and .controls-status.
func NewControlsView() *ControlsView {
	return &ControlsView{
		frame:  NewNode("panel", "controls", "", ""),
		title:  NewNode("label", "controls-title", "", "Controls"),
		status: NewNode("label", "controls-status", "", ""),
	}
}

// AppendNodes appends the panel nodes to dst when visible is true. When visible is false, dst is returned unchanged.
func (v *ControlsView) AppendNodes(dst []*Node, visible bool, rows []panel.Row, status string) []*Node {
	if !visible {
		return dst
	}
	for len(v.rows) < len(rows) {
		v.rows = append(v.rows, NewNode("label", "controls-row", "", ""))
	}
	dst = append(dst, v.frame, v.title)
	for i, r := range rows {
		n := v.rows[i]
		n.ID = r.Label
		n.Class = "controls-row"
		if r.Active {
			n.Class = "controls-row-active"
		}
		n.Text = r.Label + ": " + r.Value
		n.Offset = rl.NewVector2(0, float32((i+1)*rowHeight))
		dst = append(dst, n)
	}
	v.status.Text = status
	v.status.Offset = rl.NewVector2(0, float32((len(rows)+1)*rowHeight))
	v.frame.Bounds.Height = float32((len(rows) + 2) * rowHeight)
	return append(dst, v.status)
}
