package ui2d

import "github.com/Faultbox/roomview/internal/engine/input"

// Pointer holds the mouse state the UI reacts to. Positions are converted to
// the bottom-left origin used for drawing.
type Pointer struct {
	X, Y float32

	LeftDown     bool
	LeftPressed  bool
	LeftReleased bool

	screenHeight float32
}

// NewPointer creates a pointer for a window of the given height.
func NewPointer(screenHeight int) *Pointer {
	return &Pointer{screenHeight: float32(screenHeight)}
}

// Handle applies one input event.
func (p *Pointer) Handle(e input.Event) {
	switch e.Type {
	case input.EventMouseMove:
		p.moveTo(e.MouseX, e.MouseY)
	case input.EventMouseDown:
		p.moveTo(e.MouseX, e.MouseY)
		if e.Button == input.ButtonLeft {
			p.LeftDown = true
			p.LeftPressed = true
		}
	case input.EventMouseUp:
		p.moveTo(e.MouseX, e.MouseY)
		if e.Button == input.ButtonLeft {
			p.LeftDown = false
			p.LeftReleased = true
		}
	}
}

func (p *Pointer) moveTo(x, y int) {
	p.X = float32(x)
	p.Y = p.screenHeight - float32(y)
}

// EndFrame clears the per-frame edge flags.
func (p *Pointer) EndFrame() {
	p.LeftPressed = false
	p.LeftReleased = false
}
