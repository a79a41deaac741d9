package scene

import (
	"fmt"
	"sync/atomic"

	"github.com/jinzhu/copier"
)

// Capability is a set of rendering features a node declares about itself.
// The renderer and the shadow pass look only at these flags, never at what kind of node it is.
type Capability uint8

const (
	// CapShadow marks a node that owns geometry and can take part in shadow casting and receiving.
	CapShadow Capability = 1 << iota
)

var lastID atomic.Int64

// Node is one element of the scene graph. Transforms are local to the parent.
// MeshStart/MeshEnd index into the GPU meshes of the model the tree was built from ([start, end)).
type Node struct {
	ID            int64 `copier:"-"`
	Name          string
	Position      [3]float32
	Scale         [3]float32
	RotationY     float32
	Caps          Capability
	CastShadow    bool
	ReceiveShadow bool
	MeshStart     int
	MeshEnd       int
	Children      []*Node
}

// NewNode returns a node with unit scale and a fresh ID.
func NewNode(name string) *Node {
	return &Node{ID: lastID.Add(1), Name: name, Scale: [3]float32{1, 1, 1}}
}

// Has reports whether the node declares every flag in c.
func (n *Node) Has(c Capability) bool {
	return n.Caps&c == c
}

// HasMeshes reports whether the node owns at least one GPU mesh.
func (n *Node) HasMeshes() bool {
	return n.MeshEnd > n.MeshStart
}

// AddChild appends c to n's children.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Walk calls fn on n and every descendant, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of the subtree rooted at n. Every copied node gets a new ID.
func (n *Node) Clone() (*Node, error) {
	out := &Node{}
	if err := copier.CopyWithOption(out, n, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scene: clone %q: %w", n.Name, err)
	}
	out.Walk(func(c *Node) {
		c.ID = lastID.Add(1)
	})
	return out, nil
}

// SetUniformScale sets the same scale on all three axes.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = [3]float32{s, s, s}
}
