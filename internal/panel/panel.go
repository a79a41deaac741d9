package panel

import (
	"fmt"
	"strconv"

	"scatter/internal/commands"
	"scatter/internal/logger"
)

// Frames a key must be held before the count starts moving faster.
const fastAfter = 30

// Input is the panel's view of the keyboard for one frame.
type Input struct {
	Up, Down bool
}

// Row is one line of the panel as drawn.
type Row struct {
	Label string
	Value string
	// Active is set while the row is being dragged.
	Active bool
}

// Panel groups the count and background controls.
type Panel struct {
	Count      *Number
	Background *Color

	log  *logger.Logger
	held int
}

// New returns a panel over the two controls.
func New(count *Number, background *Color, log *logger.Logger) *Panel {
	return &Panel{Count: count, Background: background, log: log}
}

// Update drags the count while Up or Down is held and commits when both are released. Call once per frame.
func (p *Panel) Update(in Input) {
	dir := 0
	if in.Up {
		dir++
	}
	if in.Down {
		dir--
	}
	if dir == 0 {
		p.held = 0
		p.Count.Commit()
		return
	}
	p.held++
	step := 1
	if p.held > fastAfter {
		step = 5
	}
	p.Count.Nudge(dir * step)
}

// Rows returns the lines to draw.
func (p *Panel) Rows() []Row {
	return []Row{
		{Label: p.Count.Label, Value: p.Count.String(), Active: p.Count.Dragging()},
		{Label: p.Background.Label, Value: p.Background.Hex()},
	}
}

// Register adds the count and background commands to r. They go through the same callbacks as the keyboard.
func (p *Panel) Register(r *commands.Registry) {
	r.Register("count", fmt.Sprintf("set the instance count (%g-%g)", p.Count.Min, p.Count.Max), nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd count <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		p.Count.Set(float64(n))
		p.log.Infof("count: %s", p.Count)
		return nil
	})
	r.Register("background", "set the background and light color (#rrggbb)", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd background <#hex>")
		}
		if err := p.Background.Set(args[0]); err != nil {
			return err
		}
		p.log.Infof("background: %s", p.Background.Hex())
		return nil
	})
}
