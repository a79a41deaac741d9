package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatter/internal/frame"
)

func TestMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 20, c.Instances.Initial)
	assert.Equal(t, 300, c.PoolOptions().Max)
}

func TestParseKeepsUnsetDefaults(t *testing.T) {
	c, err := Parse([]byte(`
model: https://example.com/cat.zip
background: "#0af"
instances:
  initial: 50
  rotation: fixed
`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.zip", c.Model)
	assert.Equal(t, 50, c.Instances.Initial)
	assert.Equal(t, 300, c.Instances.Max)
	assert.Equal(t, frame.Fixed, c.RotationMode())
	assert.Equal(t, color.RGBA{R: 0, G: 0xaa, B: 0xff, A: 255}, c.BackgroundColor())
	assert.Equal(t, float32(3), c.Renderer.Exposure)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte(`
instances:
  min: 10
  max: 5
  rotation: wobble
background: blue
renderer:
  tone_mapping: reinhard
`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "instances range [10, 5] is empty")
	assert.Contains(t, msg, `unknown rotation mode "wobble"`)
	assert.Contains(t, msg, `color "blue"`)
	assert.Contains(t, msg, `unknown tone_mapping "reinhard"`)
}

func TestParseRejectsBadYAML(t *testing.T) {
	c, err := Parse([]byte("window: [1, 2"))
	assert.Error(t, err)
	assert.Equal(t, Default(), c)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SCATTER_MODEL":      "other.glb",
		"SCATTER_COUNT":      "150",
		"SCATTER_BACKGROUND": "#102030",
		"SCATTER_SEED":       "7",
	}
	c := Default()
	require.NoError(t, c.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "other.glb", c.Model)
	assert.Equal(t, 150, c.Instances.Initial)
	assert.Equal(t, "#102030", c.Background)
	assert.Equal(t, int64(7), c.Instances.Seed)

	env["SCATTER_COUNT"] = "many"
	assert.Error(t, c.ApplyEnv(func(k string) string { return env[k] }))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)
	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)
	_, err = ParseColor("ff8000")
	assert.Error(t, err)
}

func TestCameraOptions(t *testing.T) {
	o := Default().CameraOptions()
	assert.Equal(t, float32(120), o.MaxDistance)
	assert.Equal(t, [3]float32{30, 1, 15}, o.Position)
}

func TestWatchDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scatter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("background: \"#000000\"\n"), 0644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("background: \"#ff0000\"\n"), 0644))
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Updates():
			if c.Background == "#ff0000" {
				return
			}
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}
}

func TestParseDebugAndFont(t *testing.T) {
	c, err := Parse([]byte(`
debug:
  show_fps: false
  show_stats: true
font: Inter
`))
	require.NoError(t, err)
	assert.Equal(t, Debug{ShowStats: true}, c.Debug)
	assert.Equal(t, "Inter", c.Font)
	assert.Equal(t, Debug{ShowFPS: true}, Default().Debug)
}
