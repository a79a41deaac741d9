package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scatter/internal/camera"
	"scatter/internal/panel"
)

// frameInput is the keyboard and mouse state for one frame, split by consumer.
type frameInput struct {
	dt     float32
	panel  panel.Input
	camera camera.Input
}

// readInput polls raylib. While the terminal is open the keyboard belongs to it, so the panel sees no keys.
func readInput(terminalOpen bool) frameInput {
	in := frameInput{dt: rl.GetFrameTime()}
	if !terminalOpen {
		in.panel = panel.Input{Up: rl.IsKeyDown(rl.KeyUp), Down: rl.IsKeyDown(rl.KeyDown)}
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		in.camera.DragX, in.camera.DragY = d.X, d.Y
	}
	in.camera.Wheel = rl.GetMouseWheelMove()
	return in
}
