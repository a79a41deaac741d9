// Package session ties the demo's state together: the scene, the instance pool, the camera and the pending
// template load. Everything here runs on the main goroutine; only the load itself happens elsewhere.
package session

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"time"

	"scatter/internal/asset"
	"scatter/internal/camera"
	"scatter/internal/config"
	"scatter/internal/logger"
	"scatter/internal/pool"
	"scatter/internal/scene"
)

// ErrNoTemplate is the pool's failure reason when a load finishes without a model.
var ErrNoTemplate = errors.New("session: load finished without a model")

// Uploader moves a parsed model to the GPU. It must be called on the thread that owns the graphics context.
type Uploader interface {
	Upload(m *asset.Model) error
}

// Loader starts an asynchronous model load.
type Loader interface {
	Load(ctx context.Context, src string) <-chan asset.Result
}

// Session is the explicit context passed to the frame driver, the panel and the commands.
type Session struct {
	Scene  *scene.Scene
	Pool   *pool.Pool
	Camera *camera.Orbit

	cfg config.Config
	// file is the config as last read from disk; reloads are diffed against it.
	file     config.Config
	log      *logger.Logger
	uploader Uploader
	pending  <-chan asset.Result
	cancel   context.CancelFunc
	model    *asset.Model
}

// New builds the scene, pool and camera from cfg. The initial count is recorded and built once the template loads.
func New(cfg config.Config, up Uploader, log *logger.Logger) *Session {
	seed := cfg.Instances.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	scn := scene.New()
	s := &Session{
		Scene:    scn,
		Pool:     pool.New(scn, rand.New(rand.NewSource(seed)), cfg.PoolOptions(), log),
		Camera:   camera.NewOrbit(cfg.CameraOptions()),
		cfg:      cfg,
		file:     cfg,
		log:      log,
		uploader: up,
	}
	s.applyLight(cfg)
	s.SetBackground(cfg.BackgroundColor())
	s.Pool.SetDesiredCount(cfg.Instances.Initial)
	return s
}

func (s *Session) applyLight(cfg config.Config) {
	l := s.Scene.Light
	l.Position = cfg.Light.Position
	l.Intensity = cfg.Light.Intensity
	l.CastShadow = cfg.Renderer.Shadows
	l.ShadowMapSize = cfg.Light.ShadowMapSize
	l.ShadowFar = cfg.Light.ShadowFar
	l.NormalBias = cfg.Light.NormalBias
}

// Start begins loading src through l. Only one load runs per session; later calls are ignored.
func (s *Session) Start(ctx context.Context, l Loader, src string) {
	if s.pending != nil || s.Pool.Template().State != pool.Loading {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.log.Infof("session: loading %s", src)
	s.pending = l.Load(ctx, src)
}

// Poll applies a finished load, if any, without blocking. It uploads the model and resolves the pool, or marks
// the pool failed. It reports whether a load was applied during this call.
func (s *Session) Poll() bool {
	if s.pending == nil {
		return false
	}
	var res asset.Result
	select {
	case res = <-s.pending:
	default:
		return false
	}
	s.pending = nil
	s.finish(res)
	return true
}

func (s *Session) finish(res asset.Result) {
	err := res.Err
	if err == nil && res.Model == nil {
		err = ErrNoTemplate
	}
	if err == nil && s.uploader != nil {
		err = s.uploader.Upload(res.Model)
	}
	if err != nil {
		s.log.Errorf("session: template failed: %v", err)
		s.Pool.Fail(err)
		return
	}
	s.model = res.Model
	s.Pool.Resolve(res.Model.Root)
	s.log.Infof("session: template %s ready, %d meshes, %d instances", res.Model.Root.Name, res.Model.MeshCount, s.Pool.Len())
}

// Model returns the uploaded template, or nil before it is ready.
func (s *Session) Model() *asset.Model {
	return s.model
}

// Config returns the config currently applied.
func (s *Session) Config() config.Config {
	return s.cfg
}

// SetDesiredCount forwards to the pool.
func (s *Session) SetDesiredCount(n int) {
	s.Pool.SetDesiredCount(n)
}

// SetBackground sets the backdrop and the light color in one step.
func (s *Session) SetBackground(c color.RGBA) {
	s.Scene.SetBackdrop(c)
}

// View returns the camera state for the frame driver.
func (s *Session) View() camera.View {
	return s.Camera.View()
}

// Reload reports which runtime values a reloaded config changed.
type Reload struct {
	Count      bool
	Background bool
}

// SetFileConfig records cfg as the config read from disk, before environment overrides. Reloads apply only
// the fields that differ from it, so values set at startup or at runtime survive unrelated edits.
func (s *Session) SetFileConfig(cfg config.Config) {
	s.file = cfg
}

// ApplyConfig applies the parts of a reloaded config that can change while running: light always, and count,
// background and seed when they differ from the previous file. Changes to the model, window or bounds need a
// restart and are only logged.
func (s *Session) ApplyConfig(cfg config.Config) Reload {
	old := s.file
	s.file = cfg
	var r Reload
	if cfg.Model != old.Model {
		s.log.Warnf("session: model changed to %s, restart to load it", cfg.Model)
	}
	if cfg.Window != old.Window || cfg.Instances.Min != old.Instances.Min || cfg.Instances.Max != old.Instances.Max {
		s.log.Warnf("session: window and count bounds apply after a restart")
	}
	s.cfg.Light = cfg.Light
	s.cfg.Renderer = cfg.Renderer
	s.applyLight(s.cfg)
	if cfg.Background != old.Background {
		s.cfg.Background = cfg.Background
		s.SetBackground(cfg.BackgroundColor())
		r.Background = true
	}
	if cfg.Instances.Seed != old.Instances.Seed && cfg.Instances.Seed != 0 {
		s.cfg.Instances.Seed = cfg.Instances.Seed
		s.Pool.Reseed(cfg.Instances.Seed)
	}
	if cfg.Instances.Initial != old.Instances.Initial {
		s.cfg.Instances.Initial = cfg.Instances.Initial
		s.SetDesiredCount(cfg.Instances.Initial)
		r.Count = true
	}
	return r
}

// Close cancels a load still in flight.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
