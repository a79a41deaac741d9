package asset

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatter/internal/scene"
)

const catGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Sketchfab_Scene", "nodes": [0]}],
  "nodes": [
    {"name": "Root", "children": [1, 2]},
    {"name": "Body", "mesh": 0},
    {"name": "Whiskers", "mesh": 1}
  ],
  "meshes": [
    {"primitives": [{"attributes": {}}, {"attributes": {}}]},
    {"primitives": [{"attributes": {}, "mode": 1}]}
  ],
  "buffers": [{"byteLength": 4, "uri": "scene.bin"}],
  "images": [{"uri": "textures/fur.png"}]
}`

func names(n *scene.Node) []string {
	var out []string
	n.Walk(func(c *scene.Node) { out = append(out, c.Name) })
	return out
}

func TestBuildAssignsMeshRanges(t *testing.T) {
	doc := &gltf.Document{
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []int{0, 3}}},
		Nodes: []*gltf.Node{
			{Name: "root", Children: []int{1, 2}},
			{Name: "body", Mesh: gltf.Index(0)},
			{Name: "head", Mesh: gltf.Index(1)},
			{Mesh: gltf.Index(0)},
		},
		Meshes: []*gltf.Mesh{
			{Primitives: []*gltf.Primitive{{}, {}}},
			{Primitives: []*gltf.Primitive{{Mode: gltf.PrimitiveLines}, {}}},
		},
	}
	m, err := Build(doc, "cat")
	require.NoError(t, err)
	assert.Equal(t, 5, m.MeshCount)
	assert.Equal(t, []string{"cat", "root", "body", "head", "node3"}, names(m.Root))

	root := m.Root.Children[0]
	assert.False(t, root.Has(scene.CapShadow))
	body, head := root.Children[0], root.Children[1]
	assert.Equal(t, [2]int{0, 2}, [2]int{body.MeshStart, body.MeshEnd})
	assert.Equal(t, [2]int{2, 3}, [2]int{head.MeshStart, head.MeshEnd})
	assert.True(t, body.Has(scene.CapShadow))
	assert.True(t, head.Has(scene.CapShadow))
	third := m.Root.Children[1]
	assert.Equal(t, [2]int{3, 5}, [2]int{third.MeshStart, third.MeshEnd})
}

func TestBuildWithoutScenesUsesParentlessNodes(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "child", Mesh: gltf.Index(0)},
			{Name: "parent", Children: []int{0}},
		},
		Meshes: []*gltf.Mesh{{Primitives: []*gltf.Primitive{{}}}},
	}
	m, err := Build(doc, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "parent", "child"}, names(m.Root))
}

func TestBuildRejectsBrokenDocuments(t *testing.T) {
	cycle := &gltf.Document{
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Nodes: []*gltf.Node{
			{Name: "a", Children: []int{1}, Mesh: gltf.Index(0)},
			{Name: "b", Children: []int{0}},
		},
		Meshes: []*gltf.Mesh{{Primitives: []*gltf.Primitive{{}}}},
	}
	_, err := Build(cycle, "x")
	assert.ErrorContains(t, err, "own ancestor")

	noMesh := &gltf.Document{
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Nodes:  []*gltf.Node{{Name: "empty"}},
	}
	_, err = Build(noMesh, "x")
	assert.ErrorContains(t, err, "no triangle meshes")

	badMesh := &gltf.Document{
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Nodes:  []*gltf.Node{{Mesh: gltf.Index(4)}},
	}
	_, err = Build(badMesh, "x")
	assert.ErrorContains(t, err, "missing mesh 4")
}

func writeCat(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.gltf"), []byte(catGLTF), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.bin"), []byte{0, 0, 0, 0}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "fur.png"), []byte("png"), 0644))
	return filepath.Join(dir, "scene.gltf")
}

func TestOpenLocalFile(t *testing.T) {
	p := writeCat(t, t.TempDir())
	m, err := Open(p)
	require.NoError(t, err)
	assert.Equal(t, p, m.Path)
	assert.Equal(t, 2, m.MeshCount)
	assert.Equal(t, []string{"scene", "Root", "Body", "Whiskers"}, names(m.Root))
	whiskers := m.Root.Children[0].Children[1]
	assert.False(t, whiskers.HasMeshes(), "line primitives are not drawn")
}

func TestLoadMissingFileFails(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	res := <-l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Nil(t, res.Model)
	assert.Error(t, res.Err)
}

func TestLoadUnpacksZip(t *testing.T) {
	src := t.TempDir()
	writeCat(t, filepath.Join(src, "dingus"))

	zipPath := filepath.Join(t.TempDir(), "dingus.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, rel := range []string{"dingus/scene.gltf", "dingus/scene.bin", "dingus/textures/fur.png"} {
		data, err := os.ReadFile(filepath.Join(src, filepath.FromSlash(rel)))
		require.NoError(t, err)
		w, err := zw.Create(rel)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cache := t.TempDir()
	res := <-NewLoader(cache, nil).Load(context.Background(), zipPath)
	require.NoError(t, res.Err)
	assert.Equal(t, zipPath, res.Model.Source)
	assert.Equal(t, filepath.Join(cache, "unpacked", "dingus", "dingus", "scene.gltf"), res.Model.Path)
	assert.Equal(t, 2, res.Model.MeshCount)
}

func TestLoadFetchesRemoteGLTFWithDependencies(t *testing.T) {
	served := t.TempDir()
	writeCat(t, served)
	srv := httptest.NewServer(http.StripPrefix("/models/dingus_the_cat/", http.FileServer(http.Dir(served))))
	defer srv.Close()

	cache := t.TempDir()
	res := <-NewLoader(cache, nil).Load(context.Background(), srv.URL+"/models/dingus_the_cat/scene.gltf")
	require.NoError(t, res.Err)

	dir := filepath.Join(cache, "models", "dingus_the_cat_scene")
	assert.Equal(t, filepath.Join(dir, "scene.gltf"), res.Model.Path)
	assert.FileExists(t, filepath.Join(dir, "scene.bin"))
	assert.FileExists(t, filepath.Join(dir, "textures", "fur.png"))
}

func TestCacheName(t *testing.T) {
	assert.Equal(t, "dingus_the_cat_scene", cacheName("https://x.test/models/dingus_the_cat/scene.gltf"))
	assert.Equal(t, "cat", cacheName("https://x.test/cat.glb"))
}
