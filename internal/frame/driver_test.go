package frame

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatter/internal/camera"
	"scatter/internal/pool"
	"scatter/internal/scene"
)

type recorder struct {
	calls  int
	counts []int
	views  []camera.View
}

func (r *recorder) Render(scn *scene.Scene, view camera.View) {
	r.calls++
	r.counts = append(r.counts, scn.Len())
	r.views = append(r.views, view)
}

func setup(t *testing.T, mode RotationMode, count int) (*Driver, *pool.Pool, *recorder) {
	t.Helper()
	scn := scene.New()
	p := pool.New(scn, rand.New(rand.NewSource(11)), pool.DefaultOptions(), nil)
	tmpl := scene.NewNode("tmpl")
	tmpl.Caps = scene.CapShadow
	p.Resolve(tmpl)
	p.SetDesiredCount(count)
	rec := &recorder{}
	return New(scn, p, camera.NewOrbit(camera.DefaultOptions()), rec, mode), p, rec
}

func rotations(p *pool.Pool) []float32 {
	out := make([]float32, 0, p.Len())
	for _, in := range p.Instances() {
		out = append(out, in.Node.RotationY)
	}
	return out
}

func TestTickRotatesEveryInstanceAndRenders(t *testing.T) {
	d, p, rec := setup(t, PerFrame, 10)
	before := rotations(p)
	d.Tick()
	after := rotations(p)

	require.Len(t, after, 10)
	for i := range after {
		delta := after[i] - before[i]
		assert.GreaterOrEqual(t, delta, float32(0))
		assert.Less(t, delta, float32(0.1))
	}
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []int{10}, rec.counts)
	assert.Equal(t, uint64(1), d.Frames())
}

func TestPerFrameRedrawsIncrement(t *testing.T) {
	d, p, _ := setup(t, PerFrame, 5)
	first := make([]float32, 0, 5)
	for _, in := range p.Instances() {
		first = append(first, in.Speed)
	}
	d.Tick()
	changed := 0
	for i, in := range p.Instances() {
		if in.Speed != first[i] {
			changed++
		}
	}
	assert.Equal(t, 5, changed)
}

func TestFixedKeepsIncrement(t *testing.T) {
	d, p, _ := setup(t, Fixed, 5)
	speeds := make([]float32, 0, 5)
	start := rotations(p)
	for _, in := range p.Instances() {
		speeds = append(speeds, in.Speed)
	}
	for i := 0; i < 3; i++ {
		d.Tick()
	}
	for i, in := range p.Instances() {
		assert.Equal(t, speeds[i], in.Speed)
		assert.InDelta(t, start[i]+3*speeds[i], in.Node.RotationY, 1e-5)
	}
}

func TestTicksWithFailedTemplate(t *testing.T) {
	scn := scene.New()
	p := pool.New(scn, rand.New(rand.NewSource(1)), pool.DefaultOptions(), nil)
	p.SetDesiredCount(50)
	p.Fail(errors.New("unreachable"))
	p.SetDesiredCount(60)
	rec := &recorder{}
	d := New(scn, p, camera.NewOrbit(camera.DefaultOptions()), rec, PerFrame)

	assert.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			d.Tick()
		}
	})
	assert.Equal(t, 5, rec.calls)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, rec.counts)
}

func TestParseRotationMode(t *testing.T) {
	m, err := ParseRotationMode("fixed")
	require.NoError(t, err)
	assert.Equal(t, Fixed, m)
	m, err = ParseRotationMode("")
	require.NoError(t, err)
	assert.Equal(t, PerFrame, m)
	_, err = ParseRotationMode("smooth")
	assert.Error(t, err)
}
