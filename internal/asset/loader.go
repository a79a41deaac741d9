package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"scatter/internal/archive"
	"scatter/internal/download"
	"scatter/internal/logger"
)

// Result is the outcome of one asynchronous load. Exactly one of Model and Err is set.
type Result struct {
	Model *Model
	Err   error
}

// Loader resolves model sources and parses them off the main goroutine.
type Loader struct {
	// CacheDir receives downloaded and unpacked assets.
	CacheDir string
	Log      *logger.Logger
}

// NewLoader returns a loader caching remote assets under cacheDir.
func NewLoader(cacheDir string, log *logger.Logger) *Loader {
	return &Loader{CacheDir: cacheDir, Log: log}
}

// Load resolves and parses src on a new goroutine and delivers exactly one Result.
// There is no timeout beyond the per-download one; ctx is only used for HTTP requests.
func (l *Loader) Load(ctx context.Context, src string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		m, err := l.LoadSync(ctx, src)
		ch <- Result{Model: m, Err: err}
	}()
	return ch
}

// LoadSync resolves and parses src on the calling goroutine.
func (l *Loader) LoadSync(ctx context.Context, src string) (*Model, error) {
	p, err := l.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	m, err := Open(p)
	if err != nil {
		return nil, err
	}
	m.Source = src
	return m, nil
}

// Resolve turns src into a local .gltf or .glb path. URLs are downloaded into the cache, together with the
// buffers and images a .gltf refers to; .zip bundles are unpacked and their main model file is returned.
func (l *Loader) Resolve(ctx context.Context, src string) (string, error) {
	local := src
	if download.IsURL(src) {
		dir := filepath.Join(l.CacheDir, "models", cacheName(src))
		p, err := download.Cached(ctx, src, dir)
		if err != nil {
			return "", fmt.Errorf("asset: %w", err)
		}
		l.Log.Infof("asset: fetched %s", src)
		if strings.EqualFold(filepath.Ext(p), ".gltf") {
			if err := l.fetchDependencies(ctx, src, p, dir); err != nil {
				return "", err
			}
		}
		local = p
	}
	if _, err := os.Stat(local); err != nil {
		return "", fmt.Errorf("asset: %w", err)
	}
	switch strings.ToLower(filepath.Ext(local)) {
	case ".gltf", ".glb":
		return local, nil
	case ".zip":
		return l.unpack(local)
	}
	return "", fmt.Errorf("asset: %s: unsupported model format", local)
}

func (l *Loader) unpack(zipPath string) (string, error) {
	dir := filepath.Join(l.CacheDir, "unpacked", strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath)))
	if _, err := archive.Unzip(zipPath, dir); err != nil {
		return "", fmt.Errorf("asset: %w", err)
	}
	models, err := archive.FindModels(dir)
	if err != nil {
		return "", fmt.Errorf("asset: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("asset: %s holds no .gltf or .glb file", zipPath)
	}
	if len(models) > 1 {
		l.Log.Warnf("asset: %s holds %d models, using %s", zipPath, len(models), models[0])
	}
	return models[0], nil
}

// fetchDependencies downloads the relative buffer and image URIs of the .gltf at local, next to it.
func (l *Loader) fetchDependencies(ctx context.Context, src, local, dir string) error {
	data, err := os.ReadFile(local)
	if err != nil {
		return fmt.Errorf("asset: %w", err)
	}
	var doc gltf.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("asset: %s: %w", src, err)
	}
	var uris []string
	for _, b := range doc.Buffers {
		if b != nil {
			uris = append(uris, b.URI)
		}
	}
	for _, img := range doc.Images {
		if img != nil {
			uris = append(uris, img.URI)
		}
	}
	base, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("asset: %w", err)
	}
	for _, uri := range uris {
		if uri == "" || strings.HasPrefix(uri, "data:") {
			continue
		}
		ref, err := url.Parse(uri)
		if err != nil || ref.IsAbs() || strings.Contains(uri, "..") {
			l.Log.Warnf("asset: skipping dependency %q", uri)
			continue
		}
		rel, _ := url.PathUnescape(ref.Path)
		dest := filepath.Join(dir, filepath.FromSlash(path.Dir(rel)))
		if _, err := download.Cached(ctx, base.ResolveReference(ref).String(), dest); err != nil {
			return fmt.Errorf("asset: %w", err)
		}
	}
	return nil
}

// cacheName is the directory a remote model is cached in: the parent directory and file stem of its URL path.
func cacheName(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return "model"
	}
	stem := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if parent := path.Base(path.Dir(u.Path)); parent != "/" && parent != "." {
		stem = parent + "_" + stem
	}
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "model"
	}
	return b.String()
}
