package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options configure the window opened by Run.
type Options struct {
	Width, Height int
	Title         string
	TargetFPS     int
	// MaxPixelRatio caps the display scale used for high-DPI rendering.
	MaxPixelRatio float32
	// OnResize is called with the framebuffer size once at start and whenever the window size changes.
	OnResize func(width, height int)
	// OnClose runs after the loop ends, while the graphics context still exists.
	OnClose func()
}

// Run opens a resizable window and runs the main loop until it is closed. Each frame it calls update (input,
// state), then begins drawing and calls draw. Clearing is left to draw so the scene can use its own background.
// ESC is reserved for the terminal; close the window with its button.
func Run(opts Options, update, draw func()) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	if opts.MaxPixelRatio > 1 {
		flags |= rl.FlagWindowHighdpi
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	if opts.OnClose != nil {
		defer opts.OnClose()
	}

	rl.SetExitKey(rl.KeyNull)
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}

	w, h := framebufferSize(opts.MaxPixelRatio)
	if opts.OnResize != nil {
		opts.OnResize(w, h)
	}
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w, h = framebufferSize(opts.MaxPixelRatio)
			if opts.OnResize != nil {
				opts.OnResize(w, h)
			}
		}
		update()

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
}

// PixelRatio returns the display scale, capped at max.
func PixelRatio(max float32) float32 {
	scale := rl.GetWindowScaleDPI()
	r := scale.X
	if scale.Y > r {
		r = scale.Y
	}
	if r < 1 {
		r = 1
	}
	if max > 0 && r > max {
		r = max
	}
	return r
}

func framebufferSize(maxRatio float32) (int, int) {
	r := PixelRatio(maxRatio)
	return int(float32(rl.GetScreenWidth()) * r), int(float32(rl.GetScreenHeight()) * r)
}
