package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"scatter/internal/camera"
	"scatter/internal/frame"
	"scatter/internal/pool"
)

// DefaultPath is the path to the config file, relative to the process working directory.
const DefaultPath = "config/scatter.yaml"

// Window holds the window and frame pacing settings.
type Window struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
	// MaxPixelRatio caps the display scale used for the render resolution.
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
}

// Instances configures the count control and how clones are scattered.
type Instances struct {
	Initial         int     `yaml:"initial"`
	Min             int     `yaml:"min"`
	Max             int     `yaml:"max"`
	Spread          float32 `yaml:"spread"`
	ScaleMin        float32 `yaml:"scale_min"`
	ScaleRange      float32 `yaml:"scale_range"`
	MaxRotationStep float32 `yaml:"max_rotation_step"`
	// Rotation is "per_frame" (increment drawn every frame) or "fixed" (drawn once per instance).
	Rotation string `yaml:"rotation"`
	// Seed for the placement generator; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// Light configures the directional light and its shadow map.
type Light struct {
	Position      [3]float32 `yaml:"position"`
	Intensity     float32    `yaml:"intensity"`
	ShadowMapSize int        `yaml:"shadow_map_size"`
	ShadowFar     float32    `yaml:"shadow_far"`
	NormalBias    float32    `yaml:"normal_bias"`
}

// Renderer configures tone mapping and shadows.
type Renderer struct {
	Exposure float32 `yaml:"exposure"`
	// ToneMapping is "aces" or "none".
	ToneMapping string `yaml:"tone_mapping"`
	Shadows     bool   `yaml:"shadows"`
}

// Camera configures the orbit camera.
type Camera struct {
	Fov          float32    `yaml:"fov"`
	Near         float32    `yaml:"near"`
	Far          float32    `yaml:"far"`
	Position     [3]float32 `yaml:"position"`
	MaxDistance  float32    `yaml:"max_distance"`
	Damping      float32    `yaml:"damping"`
	ZoomDuration float32    `yaml:"zoom_duration"`
}

// Debug holds the overlays shown at startup. They can be toggled with the fps and stats commands.
type Debug struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	ShowStats    bool `yaml:"show_stats"`
}

// Config is everything the demo reads at startup. It is never written back.
type Config struct {
	Window Window `yaml:"window"`
	// Model is a path or http(s) URL to a .gltf, .glb or a .zip holding one.
	Model string `yaml:"model"`
	// Environment lists the images the ambient lighting is derived from (paths or URLs).
	Environment []string  `yaml:"environment"`
	Instances   Instances `yaml:"instances"`
	// Background is a hex color shared by the backdrop and the light.
	Background string   `yaml:"background"`
	Light      Light    `yaml:"light"`
	Renderer   Renderer `yaml:"renderer"`
	Camera     Camera   `yaml:"camera"`
	Debug      Debug    `yaml:"debug"`
	LogFile    string   `yaml:"log_file"`
	// AssetCache is where downloaded assets are stored.
	AssetCache string `yaml:"asset_cache"`
	// Stylesheet is the CSS file used to draw the panel.
	Stylesheet string `yaml:"stylesheet"`
	// Font is a font file or family name looked up under assets/fonts; empty uses raylib's built-in font.
	Font string `yaml:"font"`
}

// Default returns the demo's defaults: 20 instances of the cat model on a white background.
func Default() Config {
	return Config{
		Window: Window{
			Width:         1280,
			Height:        720,
			Title:         "scatter",
			TargetFPS:     60,
			MaxPixelRatio: 2,
		},
		Model: "assets/models/dingus_the_cat/scene.gltf",
		Environment: []string{
			"assets/textures/HEAD_baseColor.png",
			"assets/textures/HEAD_metallicRoughness.png",
			"assets/textures/Screenshot_2023-05-17_165926_baseColor.png",
		},
		Instances: Instances{
			Initial:         20,
			Min:             1,
			Max:             300,
			Spread:          200,
			ScaleMin:        0.1,
			ScaleRange:      1,
			MaxRotationStep: 0.1,
			Rotation:        "per_frame",
		},
		Background: "#ffffff",
		Light: Light{
			Position:      [3]float32{0.25, 3, -2.25},
			Intensity:     1,
			ShadowMapSize: 1024,
			ShadowFar:     15,
			NormalBias:    0.05,
		},
		Renderer: Renderer{
			Exposure:    3,
			ToneMapping: "aces",
			Shadows:     true,
		},
		Camera: Camera{
			Fov:          75,
			Near:         0.1,
			Far:          1000,
			Position:     [3]float32{30, 1, 15},
			MaxDistance:  120,
			Damping:      0.05,
			ZoomDuration: 0.25,
		},
		Debug:      Debug{ShowFPS: true},
		LogFile:    "logs/scatter.txt",
		AssetCache: "assets/cache",
		Stylesheet: "assets/ui/panel.css",
	}
}

// Load reads the config at path. A missing file yields Default() and no error.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// ApplyEnv overrides fields from SCATTER_MODEL, SCATTER_COUNT, SCATTER_BACKGROUND and SCATTER_SEED.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("SCATTER_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("SCATTER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SCATTER_COUNT: %w", err)
		}
		c.Instances.Initial = n
	}
	if v := getenv("SCATTER_BACKGROUND"); v != "" {
		c.Background = v
	}
	if v := getenv("SCATTER_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: SCATTER_SEED: %w", err)
		}
		c.Instances.Seed = n
	}
	return c.Validate()
}

// Validate reports every impossible value at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.MaxPixelRatio <= 0 {
		bad("max_pixel_ratio must be positive")
	}
	if c.Model == "" {
		bad("model is required")
	}
	in := c.Instances
	if in.Min < 0 || in.Min > in.Max {
		bad("instances range [%d, %d] is empty", in.Min, in.Max)
	}
	if in.Spread <= 0 || in.ScaleMin <= 0 || in.ScaleRange < 0 || in.MaxRotationStep < 0 {
		bad("instances spread, scale and rotation step must not be negative")
	}
	if _, err := frame.ParseRotationMode(in.Rotation); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	switch c.Renderer.ToneMapping {
	case "aces", "none":
	default:
		bad("unknown tone_mapping %q", c.Renderer.ToneMapping)
	}
	if c.Renderer.Shadows && c.Light.ShadowMapSize <= 0 {
		bad("shadow_map_size must be positive when shadows are on")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera clip range [%g, %g] is invalid", c.Camera.Near, c.Camera.Far)
	}
	return errors.Join(errs...)
}

// ParseColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// BackgroundColor returns the parsed background.
func (c Config) BackgroundColor() color.RGBA {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return bg
}

// RotationMode returns the parsed rotation mode.
func (c Config) RotationMode() frame.RotationMode {
	m, _ := frame.ParseRotationMode(c.Instances.Rotation)
	return m
}

// PoolOptions returns the count bounds and placement ranges.
func (c Config) PoolOptions() pool.Options {
	in := c.Instances
	return pool.Options{
		Min:             in.Min,
		Max:             in.Max,
		Spread:          in.Spread,
		ScaleMin:        in.ScaleMin,
		ScaleRange:      in.ScaleRange,
		MaxRotationStep: in.MaxRotationStep,
	}
}

// CameraOptions returns the orbit camera settings.
func (c Config) CameraOptions() camera.Options {
	cam := c.Camera
	return camera.Options{
		Fov:          cam.Fov,
		Near:         cam.Near,
		Far:          cam.Far,
		Position:     cam.Position,
		MaxDistance:  cam.MaxDistance,
		Damping:      cam.Damping,
		ZoomDuration: cam.ZoomDuration,
	}
}
