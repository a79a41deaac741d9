package scene

import "image/color"

// DirectionalLight is the single sun-style light of the scene. Position is also the direction the light shines from
// towards the origin.
type DirectionalLight struct {
	Position      [3]float32
	Color         color.RGBA
	Intensity     float32
	CastShadow    bool
	ShadowMapSize int
	ShadowFar     float32
	NormalBias    float32
}

// Scene is the renderable scene: a flat list of top-level nodes, a background color and the directional light.
// It is mutated only from the main goroutine.
type Scene struct {
	Background color.RGBA
	Light      *DirectionalLight
	children   []*Node
}

// New returns an empty scene with a white background and a white light.
func New() *Scene {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	return &Scene{
		Background: white,
		Light: &DirectionalLight{
			Position:      [3]float32{0.25, 3, -2.25},
			Color:         white,
			Intensity:     1,
			CastShadow:    true,
			ShadowMapSize: 1024,
			ShadowFar:     15,
			NormalBias:    0.05,
		},
	}
}

// Add appends n as a top-level node. Adding a node twice is a no-op.
func (s *Scene) Add(n *Node) {
	if s.index(n) >= 0 {
		return
	}
	s.children = append(s.children, n)
}

// Remove detaches n. It reports whether n was part of the scene.
func (s *Scene) Remove(n *Node) bool {
	i := s.index(n)
	if i < 0 {
		return false
	}
	copy(s.children[i:], s.children[i+1:])
	s.children[len(s.children)-1] = nil
	s.children = s.children[:len(s.children)-1]
	return true
}

// index searches from the end: removals usually target the most recently added nodes.
func (s *Scene) index(n *Node) int {
	for i := len(s.children) - 1; i >= 0; i-- {
		if s.children[i] == n {
			return i
		}
	}
	return -1
}

// Contains reports whether n is a top-level node of the scene.
func (s *Scene) Contains(n *Node) bool {
	return s.index(n) >= 0
}

// Children returns the top-level nodes in insertion order. The slice must not be modified.
func (s *Scene) Children() []*Node {
	return s.children
}

// Len returns the number of top-level nodes.
func (s *Scene) Len() int {
	return len(s.children)
}

// Walk visits every node of the scene, depth first.
func (s *Scene) Walk(fn func(*Node)) {
	for _, c := range s.children {
		c.Walk(fn)
	}
}

// SetBackdrop sets the background and the light color to c in one step, so a frame never sees them differ.
func (s *Scene) SetBackdrop(c color.RGBA) {
	s.Background = c
	if s.Light != nil {
		s.Light.Color = c
	}
}
