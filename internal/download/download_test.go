package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadNamesFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "model/gltf-binary")
		_, _ = w.Write([]byte("glTF"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	p, err := Download(context.Background(), srv.URL+"/models/cat.glb?v=2", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.glb"), p)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(data))
}

func TestDownloadUsesContentTypeAndDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="dingus cat"`)
		_, _ = w.Write([]byte("PK"))
	}))
	defer srv.Close()

	p, err := Download(context.Background(), srv.URL+"/get", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "dingus_cat.zip", filepath.Base(p))
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/missing.gltf", t.TempDir())
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestCachedSkipsSecondFetch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("png"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	first, err := Cached(context.Background(), srv.URL+"/env/sky.png", dir)
	require.NoError(t, err)
	second, err := Cached(context.Background(), srv.URL+"/env/sky.png", dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.glb"))
	assert.True(t, IsURL("http://example.com/a.glb"))
	assert.False(t, IsURL("assets/a.glb"))
}
