package ui2d

// ButtonSize is the side length of a light toggle button.
const ButtonSize = 50

// LightButtonOrigins are the bottom-left corners of the light toggles in an
// 800x800 window.
var LightButtonOrigins = [...][2]float32{
	{500, 80},
	{570, 80},
	{640, 80},
	{710, 80},
}

// Default light toggle colors: the key light first, then the others.
var (
	ColorKeyLightButton    = Color{0.20, 0.45, 0.45, 1}
	ColorKeyLightActive    = Color{0.60, 0.85, 0.85, 1}
	ColorLightButton       = Color{0.45, 0.35, 0.65, 1}
	ColorLightButtonActive = Color{0.85, 0.75, 0.95, 1}
)

// Button is a square toggle. It shows its active color while on.
type Button struct {
	Rect   Rect
	Normal Color
	Active Color
	On     bool

	hovered bool
}

// Color returns the fill color for the button's current state.
func (b *Button) Color() Color {
	c := b.Normal
	if b.On {
		c = b.Active
	}
	if b.hovered {
		c = c.Lighten(0.15)
	}
	return c
}

// ButtonBar is a row of toggle buttons.
type ButtonBar struct {
	buttons []Button
}

// NewLightButtons creates the four light toggles, all on.
func NewLightButtons() *ButtonBar {
	bar := &ButtonBar{}
	for i, o := range LightButtonOrigins {
		normal, active := ColorLightButton, ColorLightButtonActive
		if i == 0 {
			normal, active = ColorKeyLightButton, ColorKeyLightActive
		}
		bar.buttons = append(bar.buttons, Button{
			Rect:   Rect{X: o[0], Y: o[1], W: ButtonSize, H: ButtonSize},
			Normal: normal,
			Active: active,
			On:     true,
		})
	}
	return bar
}

// Len returns the number of buttons.
func (b *ButtonBar) Len() int {
	return len(b.buttons)
}

// At returns button i, or nil when i is out of range.
func (b *ButtonBar) At(i int) *Button {
	if i < 0 || i >= len(b.buttons) {
		return nil
	}
	return &b.buttons[i]
}

// SetOn sets the toggle state of button i. Out-of-range indices are ignored.
func (b *ButtonBar) SetOn(i int, on bool) {
	if btn := b.At(i); btn != nil {
		btn.On = on
	}
}

// HitTest returns the index of the button under (x, y), or -1.
func (b *ButtonBar) HitTest(x, y float32) int {
	for i := range b.buttons {
		if b.buttons[i].Rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Update refreshes hover state and toggles the button clicked this frame.
// It returns the toggled index, or -1.
func (b *ButtonBar) Update(p *Pointer) int {
	hit := b.HitTest(p.X, p.Y)
	for i := range b.buttons {
		b.buttons[i].hovered = i == hit
	}
	if hit < 0 || !p.LeftPressed {
		return -1
	}
	b.buttons[hit].On = !b.buttons[hit].On
	return hit
}

// Draw queues every button into batch.
func (b *ButtonBar) Draw(batch *Batch) {
	for i := range b.buttons {
		btn := &b.buttons[i]
		batch.Rect(btn.Rect, btn.Color())
		batch.Outline(btn.Rect, 2, ColorButtonBorder)
	}
}
