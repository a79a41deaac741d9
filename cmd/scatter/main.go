package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"scatter/internal/asset"
	"scatter/internal/commands"
	"scatter/internal/config"
	"scatter/internal/debug"
	"scatter/internal/env"
	"scatter/internal/environment"
	"scatter/internal/fonts"
	"scatter/internal/frame"
	"scatter/internal/graphics"
	"scatter/internal/logger"
	"scatter/internal/panel"
	"scatter/internal/render"
	"scatter/internal/session"
	"scatter/internal/terminal"
	"scatter/internal/ui"
)

func main() {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "config file")
	envPath := pflag.String("env", ".env", "file with KEY=VALUE overrides")
	pflag.Parse()

	envKeys, envErr := env.Load(*envPath)
	cfg, cfgErr := config.Load(*configPath)
	fileCfg := cfg
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.New(cfg.LogFile)
	if envErr != nil {
		log.Warnf("%v", envErr)
	} else if len(envKeys) > 0 {
		log.Infof("env: set %v from %s", envKeys, *envPath)
	}
	if cfgErr != nil {
		log.Errorf("%v; using defaults", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	envMap := environment.Load(ctx, cfg.Environment, cfg.AssetCache, log)
	rend := render.New(renderOptions(cfg, envMap), log)
	sess := session.New(cfg, rend, log)
	sess.SetFileConfig(fileCfg)
	defer sess.Close()
	sess.Start(ctx, asset.NewLoader(cfg.AssetCache, log), cfg.Model)
	driver := frame.New(sess.Scene, sess.Pool, sess, rend, cfg.RotationMode())

	bounds := sess.Pool.Options()
	count := panel.NewNumber("count", float64(bounds.Min), float64(bounds.Max), 1, float64(cfg.Instances.Initial))
	count.OnFinishChange = func(v float64) { sess.SetDesiredCount(int(v)) }
	bg, err := panel.NewColor("background", cfg.Background)
	if err != nil {
		log.Errorf("%v", err)
		bg, _ = panel.NewColor("background", "#ffffff")
	}
	bg.OnChange = sess.SetBackground
	pnl := panel.New(count, bg, log)

	dbg := debug.New()
	dbg.SetShowFPS(cfg.Debug.ShowFPS)
	dbg.SetShowMemAlloc(cfg.Debug.ShowMemAlloc)
	dbg.SetShowStats(cfg.Debug.ShowStats)
	dbg.Stats = func() debug.Stats {
		return debug.Stats{
			Instances: sess.Pool.Len(),
			Desired:   sess.Pool.Desired(),
			Template:  sess.Pool.Template().State.String(),
			Frames:    driver.Frames(),
			Rotation:  driver.Mode().String(),
		}
	}

	a := &app{
		configPath: *configPath,
		log:        log,
		session:    sess,
		renderer:   rend,
		env:        envMap,
		panel:      pnl,
		debug:      dbg,
	}
	reg := commands.NewRegistry(log)
	pnl.Register(reg)
	a.register(reg)
	term := terminal.New(log, reg)

	if w, err := config.Watch(*configPath); err != nil {
		log.Warnf("%v; live reload off", err)
	} else {
		a.watcher = w
		defer w.Close()
	}

	engine := ui.New()
	if err := engine.LoadCSS(cfg.Stylesheet); err != nil {
		log.Warnf("%v", err)
	}
	controls := ui.NewControlsView()

	fontLoaded := cfg.Font == ""
	update := func() {
		if !fontLoaded {
			fontLoaded = true
			loadFont(cfg.Font, engine, term, dbg, log)
		}
		sess.Poll()
		a.pollConfig()
		term.Update()
		in := readInput(term.IsOpen())
		pnl.Update(in.panel)
		sess.Camera.Update(in.dt, in.camera)
	}
	draw := func() {
		driver.Tick()
		nodes := controls.AppendNodes(nil, true, pnl.Rows(), a.status())
		engine.SetNodes(nodes)
		engine.Draw()
		dbg.Draw()
		term.Draw()
	}
	graphics.Run(graphics.Options{
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Title:         cfg.Window.Title,
		TargetFPS:     cfg.Window.TargetFPS,
		MaxPixelRatio: cfg.Window.MaxPixelRatio,
		OnResize:      sess.Camera.Resize,
		OnClose:       rend.Unload,
	}, update, draw)
}

func renderOptions(cfg config.Config, envMap *environment.Map) render.Options {
	return render.Options{
		Exposure:    cfg.Renderer.Exposure,
		ToneMapping: cfg.Renderer.ToneMapping == "aces",
		Shadows:     cfg.Renderer.Shadows,
		Ambient:     envMap.Ambient,
	}
}

// loadFont needs the window, so it runs on the first frame.
func loadFont(search string, engine *ui.Engine, term *terminal.Terminal, dbg *debug.Debug, log *logger.Logger) {
	path, err := fonts.Find(search, fonts.DefaultDirs())
	if err != nil {
		log.Warnf("font %q: %v", search, err)
		return
	}
	if err := engine.LoadFont(path); err != nil {
		log.Warnf("font %s: %v", path, err)
		return
	}
	term.SetFont(engine.Font())
	dbg.SetFont(engine.Font())
	log.Infof("font: %s", path)
}
