// Package camera implements an orbit camera with damped rotation and eased zoom.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	minDistance = 1
	// pitchLimit keeps the camera off the poles, where the up vector would flip.
	pitchLimit  = math32.Pi/2 - 0.01
	rotateSpeed = 0.005
	zoomStep    = 0.95
)

// View is the camera state the renderer needs for one frame.
type View struct {
	Position [3]float32
	Target   [3]float32
	Up       [3]float32
	Fovy     float32
	Near     float32
	Far      float32
	Aspect   float32
}

// Options configure the perspective and the orbit limits.
type Options struct {
	Fov         float32
	Near        float32
	Far         float32
	Position    [3]float32
	Target      [3]float32
	MaxDistance float32
	// Damping is the fraction of the remaining rotation applied per update (0 < Damping <= 1).
	Damping float32
	// ZoomDuration is how long, in seconds, a wheel zoom takes to settle.
	ZoomDuration float32
}

// DefaultOptions matches the demo's starting camera.
func DefaultOptions() Options {
	return Options{
		Fov:          75,
		Near:         0.1,
		Far:          1000,
		Position:     [3]float32{30, 1, 15},
		MaxDistance:  120,
		Damping:      0.05,
		ZoomDuration: 0.25,
	}
}

// Input is the pointer movement collected since the previous update.
type Input struct {
	// DragX/DragY are pixels moved while the rotate button is held.
	DragX, DragY float32
	// Wheel is the scroll amount; positive zooms in.
	Wheel float32
}

// Orbit circles a target point. Rotation keeps drifting after a drag and slows down by Damping each update.
type Orbit struct {
	opts             Options
	yaw, pitch       float32
	distance         float32
	yawVel, pitchVel float32
	zoom             *gween.Tween
	zoomTarget       float32
	aspect           float32
}

// NewOrbit places the camera at opts.Position looking at opts.Target.
func NewOrbit(opts Options) *Orbit {
	if opts.Damping <= 0 || opts.Damping > 1 {
		opts.Damping = 1
	}
	d := sub(opts.Position, opts.Target)
	dist := length(d)
	o := &Orbit{opts: opts, distance: dist, aspect: 16.0 / 9.0}
	if dist > 0 {
		o.yaw = math32.Atan2(d[0], d[2])
		o.pitch = clamp(math32.Asin(d[1]/dist), -pitchLimit, pitchLimit)
	}
	if opts.MaxDistance > 0 && o.distance > opts.MaxDistance {
		o.distance = opts.MaxDistance
	}
	o.zoomTarget = o.distance
	return o
}

// Update applies pointer input and advances damping and zoom by dt seconds.
func (o *Orbit) Update(dt float32, in Input) {
	o.yawVel -= in.DragX * rotateSpeed
	o.pitchVel += in.DragY * rotateSpeed

	o.yaw += o.yawVel * o.opts.Damping
	o.pitch = clamp(o.pitch+o.pitchVel*o.opts.Damping, -pitchLimit, pitchLimit)
	o.yawVel *= 1 - o.opts.Damping
	o.pitchVel *= 1 - o.opts.Damping

	if in.Wheel != 0 {
		o.zoomTarget = o.clampDistance(o.zoomTarget * math32.Pow(zoomStep, in.Wheel))
		if o.opts.ZoomDuration > 0 {
			o.zoom = gween.New(o.distance, o.zoomTarget, o.opts.ZoomDuration, ease.OutQuad)
		} else {
			o.distance = o.zoomTarget
		}
	}
	if o.zoom != nil {
		d, done := o.zoom.Update(dt)
		o.distance = d
		if done {
			o.distance = o.zoomTarget
			o.zoom = nil
		}
	}
}

func (o *Orbit) clampDistance(d float32) float32 {
	max := o.opts.MaxDistance
	if max <= 0 {
		max = o.opts.Far
	}
	return clamp(d, minDistance, max)
}

// Resize updates the aspect ratio after the window changed size.
func (o *Orbit) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.aspect = float32(width) / float32(height)
}

// Distance returns the current distance to the target.
func (o *Orbit) Distance() float32 {
	return o.distance
}

// View returns the camera for the current frame.
func (o *Orbit) View() View {
	cp := math32.Cos(o.pitch)
	offset := [3]float32{
		o.distance * cp * math32.Sin(o.yaw),
		o.distance * math32.Sin(o.pitch),
		o.distance * cp * math32.Cos(o.yaw),
	}
	t := o.opts.Target
	return View{
		Position: [3]float32{t[0] + offset[0], t[1] + offset[1], t[2] + offset[2]},
		Target:   t,
		Up:       [3]float32{0, 1, 0},
		Fovy:     o.opts.Fov,
		Near:     o.opts.Near,
		Far:      o.opts.Far,
		Aspect:   o.aspect,
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func length(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
