// Package asset loads the template model: it resolves the source (local file, URL, zip bundle) and turns
// the glTF node hierarchy into a scene.Node tree whose mesh nodes declare the shadow capability.
package asset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"scatter/internal/scene"
)

// Model is a parsed template ready to be uploaded to the GPU and cloned.
type Model struct {
	// Source is what the caller asked for (path or URL); Path is the local file the GPU loader reads.
	Source string
	Path   string
	Root   *scene.Node
	// MeshCount is the number of GPU meshes the file flattens into.
	MeshCount int
}

// Open parses the glTF or GLB file at path.
func Open(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	m, err := Build(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("asset: %s: %w", path, err)
	}
	m.Source, m.Path = path, path
	return m, nil
}

// Build converts the default scene of doc into a node tree rooted at a node called name.
//
// GPU meshes are numbered the way the GPU loader flattens a glTF file: nodes in document order, and for each
// node that references a mesh, one GPU mesh per triangle primitive. Every node gets the range it owns, and nodes
// with a non-empty range are tagged CapShadow.
func Build(doc *gltf.Document, name string) (*Model, error) {
	ranges := make([][2]int, len(doc.Nodes))
	next := 0
	for i, n := range doc.Nodes {
		ranges[i] = [2]int{next, next}
		if n == nil || n.Mesh == nil {
			continue
		}
		if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d references missing mesh %d", i, *n.Mesh)
		}
		for _, p := range doc.Meshes[*n.Mesh].Primitives {
			if p != nil && p.Mode == gltf.PrimitiveTriangles {
				next++
			}
		}
		ranges[i][1] = next
	}

	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no nodes to display")
	}
	b := builder{doc: doc, ranges: ranges, visiting: make(map[int]bool)}
	root := scene.NewNode(name)
	for _, i := range roots {
		child, err := b.node(i)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	if next == 0 {
		return nil, fmt.Errorf("no triangle meshes")
	}
	return &Model{Root: root, MeshCount: next}, nil
}

// sceneRoots returns the root nodes of the default scene, or of the first scene, or every parentless node.
func sceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil {
			si = *doc.Scene
		}
		if si < 0 || si >= len(doc.Scenes) || doc.Scenes[si] == nil {
			return nil, fmt.Errorf("default scene %d does not exist", si)
		}
		return doc.Scenes[si].Nodes, nil
	}
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

type builder struct {
	doc      *gltf.Document
	ranges   [][2]int
	visiting map[int]bool
}

func (b *builder) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(b.doc.Nodes) || b.doc.Nodes[i] == nil {
		return nil, fmt.Errorf("node %d does not exist", i)
	}
	if b.visiting[i] {
		return nil, fmt.Errorf("node %d is its own ancestor", i)
	}
	b.visiting[i] = true
	defer delete(b.visiting, i)

	src := b.doc.Nodes[i]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node%d", i)
	}
	n := scene.NewNode(name)
	n.MeshStart, n.MeshEnd = b.ranges[i][0], b.ranges[i][1]
	if n.HasMeshes() {
		n.Caps |= scene.CapShadow
	}
	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}
