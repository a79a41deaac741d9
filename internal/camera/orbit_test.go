package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartsAtConfiguredPosition(t *testing.T) {
	o := NewOrbit(DefaultOptions())
	v := o.View()
	assert.InDeltaSlice(t, []float32{30, 1, 15}, v.Position[:], 1e-3)
	assert.Equal(t, [3]float32{0, 1, 0}, v.Up)
	assert.Equal(t, float32(75), v.Fovy)
}

func TestDistanceClampedToMax(t *testing.T) {
	opts := DefaultOptions()
	opts.Position = [3]float32{0, 0, 500}
	o := NewOrbit(opts)
	assert.Equal(t, float32(120), o.Distance())

	for i := 0; i < 10; i++ {
		o.Update(1, Input{Wheel: -20})
	}
	assert.InDelta(t, 120, o.Distance(), 1e-3)
}

func TestZoomEasesToTarget(t *testing.T) {
	o := NewOrbit(DefaultOptions())
	start := o.Distance()
	o.Update(0.05, Input{Wheel: 4})
	mid := o.Distance()
	assert.Less(t, mid, start)

	want := start * 0.95 * 0.95 * 0.95 * 0.95
	assert.Greater(t, mid, want)
	for i := 0; i < 10; i++ {
		o.Update(0.05, Input{})
	}
	assert.InDelta(t, want, o.Distance(), 1e-3)
}

func TestRotationIsDamped(t *testing.T) {
	o := NewOrbit(DefaultOptions())
	before := o.View().Position
	o.Update(1.0/60, Input{DragX: 100})
	first := o.View().Position
	assert.NotEqual(t, before, first)

	// Rotation keeps drifting after the drag ends, then settles.
	o.Update(1.0/60, Input{})
	second := o.View().Position
	assert.NotEqual(t, first, second)
	for i := 0; i < 1000; i++ {
		o.Update(1.0/60, Input{})
	}
	settled := o.View().Position
	o.Update(1.0/60, Input{})
	got := o.View().Position
	assert.InDeltaSlice(t, settled[:], got[:], 1e-4)
	assert.InDelta(t, length(sub(settled, [3]float32{})), o.Distance(), 1e-3)
}

func TestPitchStaysOffThePoles(t *testing.T) {
	o := NewOrbit(DefaultOptions())
	for i := 0; i < 200; i++ {
		o.Update(1.0/60, Input{DragY: 500})
	}
	v := o.View()
	assert.Less(t, v.Position[1], o.Distance())
}

func TestResize(t *testing.T) {
	o := NewOrbit(DefaultOptions())
	o.Resize(800, 400)
	assert.Equal(t, float32(2), o.View().Aspect)
	o.Resize(0, 400)
	assert.Equal(t, float32(2), o.View().Aspect)
}
