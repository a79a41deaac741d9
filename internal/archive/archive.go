package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Unzip extracts zipPath into destDir, preserving directory structure.
// destDir is created if needed. Returns the list of extracted file paths, or an error.
// Entries that would land outside destDir are skipped.
func Unzip(zipPath, destDir string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	for _, f := range r.File {
		dest := filepath.Clean(filepath.Join(destDir, f.Name))
		absDest, err := filepath.Abs(dest)
		if err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		if !strings.HasPrefix(absDest, absDir+string(os.PathSeparator)) && absDest != absDir {
			continue // skip path escape
		}
		if f.FileInfo().IsDir() {
			_ = os.MkdirAll(dest, 0755)
			continue
		}
		if err := extract(f, dest); err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func extract(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(out, rc)
	return err
}

// FindModels returns the .gltf and .glb files under dir. Files named scene.* come first, then
// shallower paths, then alphabetical order, so the first entry is the most likely root asset.
func FindModels(dir string) ([]string, error) {
	var found []string
	err := filepath.Walk(filepath.Clean(dir), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".gltf", ".glb":
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find models: %w", err)
	}
	sort.SliceStable(found, func(i, j int) bool {
		si, sj := isScene(found[i]), isScene(found[j])
		if si != sj {
			return si
		}
		di, dj := strings.Count(found[i], string(os.PathSeparator)), strings.Count(found[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return found[i] < found[j]
	})
	return found, nil
}

func isScene(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.TrimSuffix(base, filepath.Ext(base)) == "scene"
}
