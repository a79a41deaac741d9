package debug

import (
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats is what the overlay reports about the scene besides frame rate and memory.
type Stats struct {
	Instances int
	Desired   int
	Template  string
	Frames    uint64
	Rotation  string
}

// Debug holds runtime debugging features (e.g. FPS display). All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	// Stats, if set, is read when the stats line is refreshed.
	Stats        func() Stats
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	printer      *message.Printer
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastStats    string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{printer: message.NewPrinter(language.English)}
}

// SetShowFPS sets whether the FPS counter is drawn (top-left, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowStats sets whether the instance count and template state are drawn.
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
}

// SetFont sets the font used to draw the overlay (e.g. same as UI). Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// StatsLine formats s the way the overlay shows it.
func (d *Debug) StatsLine(s Stats) string {
	return d.printer.Sprintf("Instances: %d / %d (%s), %s rotation, frame %d", s.Instances, s.Desired, s.Template, s.Rotation, s.Frames)
}

// Draw renders any enabled debug overlays in the top-left corner, leaving the right side to the panel.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") || (d.ShowStats && d.lastStats == "") {
		update = true
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = d.printer.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawLine(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = d.printer.Sprintf("Mem: %.2f MiB, %d GCs", float64(d.lastMemStats.Alloc)/(1024*1024), d.lastMemStats.NumGC)
		}
		d.drawLine(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.ShowStats && d.Stats != nil {
		if update {
			d.lastStats = d.StatsLine(d.Stats())
		}
		d.drawLine(d.lastStats, y)
	}
}

func (d *Debug) drawLine(text string, y int32) {
	if text == "" {
		return
	}
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, text, rl.NewVector2(fpsPadding, float32(y)), fpsFontSize, 1, rl.Green)
		return
	}
	rl.DrawText(text, fpsPadding, y, fpsFontSize, rl.Green)
}
