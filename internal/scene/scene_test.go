package scene

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *Node {
	root := NewNode("root")
	body := NewNode("body")
	body.Caps = CapShadow
	body.MeshStart, body.MeshEnd = 0, 2
	head := NewNode("head")
	head.Caps = CapShadow
	head.MeshStart, head.MeshEnd = 2, 3
	body.AddChild(head)
	root.AddChild(body)
	root.AddChild(NewNode("empty"))
	return root
}

func TestWalkOrder(t *testing.T) {
	var names []string
	testTree().Walk(func(n *Node) {
		names = append(names, n.Name)
	})
	assert.Equal(t, []string{"root", "body", "head", "empty"}, names)
}

func TestCloneIsDeepWithFreshIDs(t *testing.T) {
	orig := testTree()
	clone, err := orig.Clone()
	require.NoError(t, err)

	var origIDs, cloneIDs []int64
	orig.Walk(func(n *Node) { origIDs = append(origIDs, n.ID) })
	clone.Walk(func(n *Node) { cloneIDs = append(cloneIDs, n.ID) })
	require.Len(t, cloneIDs, len(origIDs))
	for i := range origIDs {
		assert.NotEqual(t, origIDs[i], cloneIDs[i])
	}

	require.Len(t, clone.Children, 2)
	body := clone.Children[0]
	assert.Equal(t, "body", body.Name)
	assert.True(t, body.Has(CapShadow))
	assert.Equal(t, 2, body.MeshEnd)
	assert.NotSame(t, orig.Children[0], body)

	body.Position[0] = 42
	body.Children[0].Name = "changed"
	assert.Equal(t, float32(0), orig.Children[0].Position[0])
	assert.Equal(t, "head", orig.Children[0].Children[0].Name)
}

func TestSceneAddRemove(t *testing.T) {
	s := New()
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.Add(b)
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Remove(b))
	assert.False(t, s.Remove(b))
	assert.Equal(t, []*Node{a, c}, s.Children())
	assert.False(t, s.Contains(b))
	assert.True(t, s.Contains(c))
}

func TestSceneWalkVisitsDescendants(t *testing.T) {
	s := New()
	s.Add(testTree())
	s.Add(testTree())
	n := 0
	s.Walk(func(*Node) { n++ })
	assert.Equal(t, 8, n)
}

func TestSetBackdropUpdatesLight(t *testing.T) {
	s := New()
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	s.SetBackdrop(c)
	assert.Equal(t, c, s.Background)
	assert.Equal(t, c, s.Light.Color)
}
