// Package frame advances instance rotation once per display refresh and hands the scene to the renderer.
package frame

import (
	"fmt"

	"scatter/internal/camera"
	"scatter/internal/pool"
	"scatter/internal/scene"
)

// RotationMode selects when an instance's rotation increment is drawn.
type RotationMode int

const (
	// PerFrame draws a new increment for every instance on every frame, so the spin jitters.
	PerFrame RotationMode = iota
	// Fixed keeps the increment drawn when the instance was created, so the spin is steady.
	Fixed
)

// ParseRotationMode maps the config names "per_frame" and "fixed" to a RotationMode.
func ParseRotationMode(s string) (RotationMode, error) {
	switch s {
	case "", "per_frame":
		return PerFrame, nil
	case "fixed":
		return Fixed, nil
	}
	return PerFrame, fmt.Errorf("frame: unknown rotation mode %q", s)
}

func (m RotationMode) String() string {
	if m == Fixed {
		return "fixed"
	}
	return "per_frame"
}

// Renderer draws the scene from the given camera.
type Renderer interface {
	Render(scn *scene.Scene, view camera.View)
}

// Viewer supplies the camera state for a frame.
type Viewer interface {
	View() camera.View
}

// Driver runs the per-frame work. Tick is called by the render loop and never stops on its own.
type Driver struct {
	scene    *scene.Scene
	pool     *pool.Pool
	viewer   Viewer
	renderer Renderer
	mode     RotationMode
	frames   uint64
}

// New returns a driver rotating p's instances and rendering scn through r.
func New(scn *scene.Scene, p *pool.Pool, viewer Viewer, r Renderer, mode RotationMode) *Driver {
	return &Driver{scene: scn, pool: p, viewer: viewer, renderer: r, mode: mode}
}

// Tick advances every instance and renders one frame.
func (d *Driver) Tick() {
	d.Advance()
	d.renderer.Render(d.scene, d.viewer.View())
	d.frames++
}

// Advance adds each instance's rotation increment to its Y rotation.
func (d *Driver) Advance() {
	for _, in := range d.pool.Instances() {
		if d.mode == PerFrame {
			in.Speed = d.pool.RotationStep()
		}
		in.Node.RotationY += in.Speed
	}
}

// Frames returns the number of completed ticks.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Mode returns the rotation mode in use.
func (d *Driver) Mode() RotationMode {
	return d.mode
}
