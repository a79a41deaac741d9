package main

import (
	"fmt"
	"strconv"

	"scatter/internal/commands"
	"scatter/internal/config"
	"scatter/internal/debug"
	"scatter/internal/environment"
	"scatter/internal/logger"
	"scatter/internal/panel"
	"scatter/internal/pool"
	"scatter/internal/render"
	"scatter/internal/session"
)

// app holds what the terminal commands and the config watcher act on.
type app struct {
	configPath string
	log        *logger.Logger
	session    *session.Session
	renderer   *render.Renderer
	env        *environment.Map
	panel      *panel.Panel
	debug      *debug.Debug
	watcher    *config.Watcher
}

func (a *app) register(reg *commands.Registry) {
	fps := commands.NewFlags("fps")
	mem := fps.Bool("mem", false, "toggle the heap usage line instead")
	reg.Register("fps", "toggle the frame rate overlay", fps, func([]string) error {
		if *mem {
			a.debug.SetShowMemAlloc(!a.debug.ShowMemAlloc)
			return nil
		}
		a.debug.SetShowFPS(!a.debug.ShowFPS)
		return nil
	})

	stats := commands.NewFlags("stats")
	overlay := stats.Bool("overlay", false, "also toggle the stats overlay line")
	reg.Register("stats", "log instance count and template state", stats, func([]string) error {
		a.log.Log(a.debug.StatsLine(a.debug.Stats()))
		if *overlay {
			a.debug.SetShowStats(!a.debug.ShowStats)
		}
		return nil
	})

	reg.Register("reload", "re-read the config file", nil, func([]string) error {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.apply(cfg)
		return nil
	})

	seed := commands.NewFlags("seed")
	respawn := seed.BoolP("respawn", "r", false, "re-place every instance now")
	reg.Register("seed", "restart placement from a seed", seed, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd seed <n> [--respawn]")
		}
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		a.session.Pool.Reseed(n)
		if *respawn {
			a.session.Pool.Respawn()
		}
		a.log.Infof("seed: %d", n)
		return nil
	})
}

// apply pushes a reloaded config to the session, the renderer and the panel. The panel only follows the
// values the edit changed, so a count or background set at runtime survives unrelated edits.
func (a *app) apply(cfg config.Config) {
	r := a.session.ApplyConfig(cfg)
	a.renderer.SetOptions(renderOptions(cfg, a.env))
	if r.Count {
		a.panel.Count.Set(float64(a.session.Pool.Desired()))
	}
	if r.Background {
		if err := a.panel.Background.Set(cfg.Background); err != nil {
			a.log.Errorf("%v", err)
		}
	}
	a.debug.SetShowFPS(cfg.Debug.ShowFPS)
	a.debug.SetShowMemAlloc(cfg.Debug.ShowMemAlloc)
	a.debug.SetShowStats(cfg.Debug.ShowStats)
	a.log.Infof("config: reloaded %s", a.configPath)
}

// pollConfig applies the latest config written to disk, if any. It never blocks.
func (a *app) pollConfig() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		a.apply(cfg)
	case err := <-a.watcher.Errors():
		a.log.Errorf("%v", err)
	default:
	}
}

// status is the line under the panel controls.
func (a *app) status() string {
	t := a.session.Pool.Template()
	switch t.State {
	case pool.Ready:
		return fmt.Sprintf("%d instances", a.session.Pool.Len())
	case pool.Failed:
		return "model failed to load"
	default:
		return "loading model..."
	}
}
