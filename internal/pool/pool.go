// Package pool keeps a list of scattered clones of one template model in step with a desired count.
//
// Growth clones the template and places each clone at random; shrinking drops clones from the tail of
// the list, removing them from the scene in the same call. The template arrives asynchronously, so the
// pool remembers the requested count while it is loading and builds it once the template is ready.
package pool

import (
	"math/rand"

	"github.com/chewxy/math32"

	"scatter/internal/logger"
	"scatter/internal/scene"
)

// State is the lifecycle of the template model.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Template is the model every instance is cloned from. Node is set only when Ready, Err only when Failed.
type Template struct {
	State State
	Node  *scene.Node
	Err   error
}

// Instance is one placed clone of the template.
type Instance struct {
	Node *scene.Node
	// Serial is the 1-based creation number over the pool's lifetime.
	Serial int
	// Speed is the rotation added to Node.RotationY on every frame.
	Speed float32
}

// Options bound the count and shape the random placement.
type Options struct {
	Min, Max int
	// Spread is the edge length of the cube, centered on the origin, that positions are drawn from.
	Spread float32
	// Scales are drawn from [ScaleMin, ScaleMin+ScaleRange).
	ScaleMin   float32
	ScaleRange float32
	// Rotation increments are drawn from [0, MaxRotationStep).
	MaxRotationStep float32
}

// DefaultOptions returns the bounds of the count control and the placement used by the demo.
func DefaultOptions() Options {
	return Options{
		Min:             1,
		Max:             300,
		Spread:          200,
		ScaleMin:        0.1,
		ScaleRange:      1,
		MaxRotationStep: 0.1,
	}
}

// Pool owns the placed instances. It is not safe for concurrent use; all calls come from the main loop.
type Pool struct {
	scene     *scene.Scene
	rnd       *rand.Rand
	opts      Options
	log       *logger.Logger
	tmpl      Template
	desired   int
	instances []*Instance
	serial    int
}

// New returns an empty pool adding its instances to scn. The template starts Loading.
func New(scn *scene.Scene, rnd *rand.Rand, opts Options, log *logger.Logger) *Pool {
	return &Pool{scene: scn, rnd: rnd, opts: opts, log: log}
}

// Template returns the current template state.
func (p *Pool) Template() Template {
	return p.tmpl
}

// Desired returns the last requested count after clamping.
func (p *Pool) Desired() int {
	return p.desired
}

// Len returns the number of live instances.
func (p *Pool) Len() int {
	return len(p.instances)
}

// Instances returns the live instances in creation order. The slice must not be modified.
func (p *Pool) Instances() []*Instance {
	return p.instances
}

// Options returns the bounds and placement ranges the pool was built with.
func (p *Pool) Options() Options {
	return p.opts
}

// SetDesiredCount records n as the target and, if the template is ready, grows or shrinks the pool to match.
// n is clamped to [Min, Max]. While loading the count is only recorded; after a failed load growth is ignored.
func (p *Pool) SetDesiredCount(n int) {
	if c := p.clamp(n); c != n {
		p.log.Warnf("pool: count %d out of range [%d, %d], using %d", n, p.opts.Min, p.opts.Max, c)
		n = c
	}
	p.desired = n
	switch p.tmpl.State {
	case Loading:
		return
	case Failed:
		p.shrink(n)
		return
	}
	p.reconcile()
}

func (p *Pool) clamp(n int) int {
	if n < p.opts.Min {
		return p.opts.Min
	}
	if n > p.opts.Max {
		return p.opts.Max
	}
	return n
}

// Resolve marks the template ready and builds the pending count. It is ignored unless the template is loading.
func (p *Pool) Resolve(tmpl *scene.Node) {
	if p.tmpl.State != Loading || tmpl == nil {
		return
	}
	p.tmpl = Template{State: Ready, Node: tmpl}
	p.reconcile()
}

// Fail marks the template as failed. The pool never grows afterwards.
func (p *Pool) Fail(err error) {
	if p.tmpl.State != Loading {
		return
	}
	p.tmpl = Template{State: Failed, Err: err}
}

func (p *Pool) reconcile() {
	switch {
	case p.desired > len(p.instances):
		p.grow(p.desired - len(p.instances))
	case p.desired < len(p.instances):
		p.shrink(p.desired)
	}
}

// grow clones count new instances, then flags every shadow-capable node in the scene.
func (p *Pool) grow(count int) {
	created := 0
	for i := 0; i < count; i++ {
		node, err := p.tmpl.Node.Clone()
		if err != nil {
			p.log.Errorf("pool: %v", err)
			break
		}
		p.place(node)
		p.serial++
		p.instances = append(p.instances, &Instance{
			Node:   node,
			Serial: p.serial,
			Speed:  p.RotationStep(),
		})
		p.scene.Add(node)
		created++
	}
	if created > 0 {
		p.markShadows()
	}
}

func (p *Pool) place(n *scene.Node) {
	r := p.rnd
	n.Position = [3]float32{
		(r.Float32() - 0.5) * p.opts.Spread,
		(r.Float32() - 0.5) * p.opts.Spread,
		(r.Float32() - 0.5) * p.opts.Spread,
	}
	n.SetUniformScale(r.Float32()*p.opts.ScaleRange + p.opts.ScaleMin)
	n.RotationY = (r.Float32() - 0.5) * 2 * math32.Pi
}

// RotationStep draws a rotation increment from [0, MaxRotationStep).
func (p *Pool) RotationStep() float32 {
	return p.rnd.Float32() * p.opts.MaxRotationStep
}

// shrink truncates the list to n entries, removing each dropped instance from the scene.
func (p *Pool) shrink(n int) {
	if n < 0 {
		n = 0
	}
	for len(p.instances) > n {
		last := len(p.instances) - 1
		p.scene.Remove(p.instances[last].Node)
		p.instances[last] = nil
		p.instances = p.instances[:last]
	}
}

// markShadows walks the whole scene, not just new instances.
func (p *Pool) markShadows() {
	p.scene.Walk(func(n *scene.Node) {
		if n.Has(scene.CapShadow) {
			n.CastShadow = true
			n.ReceiveShadow = true
		}
	})
}

// Reseed restarts the placement generator from seed. Existing instances keep their placement.
func (p *Pool) Reseed(seed int64) {
	p.rnd.Seed(seed)
}

// Respawn drops every instance and, if the template is ready, builds the desired count again with fresh placement.
func (p *Pool) Respawn() {
	p.shrink(0)
	if p.tmpl.State == Ready {
		p.reconcile()
	}
}
