package viewer

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/input"
	"github.com/Faultbox/roomview/internal/engine/scene"
	"github.com/Faultbox/roomview/internal/engine/ui2d"
	"github.com/Faultbox/roomview/internal/logger"
)

// Orthographic view volume bound to the O key.
var orthoBox = [6]float32{-3, 3, -3, 3, 1, 100}

// Controller turns input events into scene changes. It holds no GL state.
type Controller struct {
	scene   *scene.Scene
	buttons *ui2d.ButtonBar
	pointer *ui2d.Pointer

	fov, aspect, near, far float32

	dragging bool

	Quit       bool
	Screenshot bool
	ShowWalls  bool
}

// NewController binds input to s. The light buttons start in the state of
// their light slots.
func NewController(s *scene.Scene, cfg *config.Config) *Controller {
	c := &Controller{
		scene:     s,
		buttons:   ui2d.NewLightButtons(),
		pointer:   ui2d.NewPointer(cfg.Graphics.Height),
		fov:       cfg.Graphics.FOV,
		aspect:    float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height),
		near:      cfg.Graphics.Near,
		far:       cfg.Graphics.Far,
		ShowWalls: cfg.Scene.ShowWalls,
	}
	c.syncButtons()
	return c
}

// Buttons returns the light toggle bar.
func (c *Controller) Buttons() *ui2d.ButtonBar { return c.buttons }

func (c *Controller) syncButtons() {
	for i := 0; i < c.buttons.Len(); i++ {
		l := c.scene.Lights().At(i)
		c.buttons.SetOn(i, l != nil && l.IsLightOn())
	}
}

// Handle applies one event.
func (c *Controller) Handle(ev input.Event) {
	c.pointer.Handle(ev)

	switch ev.Type {
	case input.EventQuit:
		c.Quit = true
	case input.EventKeyDown:
		c.handleKey(ev)
	case input.EventMouseDown:
		if ev.Button != input.ButtonLeft {
			return
		}
		if hit := c.buttons.Update(c.pointer); hit >= 0 {
			on := c.scene.ToggleLight(hit)
			c.buttons.SetOn(hit, on)
		} else {
			c.dragging = true
		}
		// The press is consumed here so later events this frame do not toggle again.
		c.pointer.EndFrame()
	case input.EventMouseUp:
		if ev.Button == input.ButtonLeft {
			c.dragging = false
		}
	case input.EventMouseMove:
		if c.dragging {
			c.scene.Camera().Orbit(float32(ev.DX), float32(ev.DY))
		}
	case input.EventMouseWheel:
		c.scene.Camera().Zoom(ev.Wheel)
	}
}

func (c *Controller) handleKey(ev input.Event) {
	cam := c.scene.Camera()

	// Movement repeats while the key is held.
	switch ev.Key {
	case sdl.SCANCODE_W:
		cam.MoveForward(1)
		return
	case sdl.SCANCODE_S:
		cam.MoveForward(-1)
		return
	case sdl.SCANCODE_A:
		cam.MoveRight(-1)
		return
	case sdl.SCANCODE_D:
		cam.MoveRight(1)
		return
	}
	if ev.Repeat {
		return
	}

	switch ev.Key {
	case sdl.SCANCODE_ESCAPE:
		c.Quit = true
	case sdl.SCANCODE_C:
		c.scene.ToggleCameraRadius()
	case sdl.SCANCODE_L:
		c.scene.ToggleKeyLightMotion()
	case sdl.SCANCODE_P:
		cam.SetPerspective(c.fov, c.aspect, c.near, c.far)
		logger.Info("projection", zap.Stringer("mode", cam.Projection()))
	case sdl.SCANCODE_O:
		cam.SetOrthographic(orthoBox[0], orthoBox[1], orthoBox[2], orthoBox[3], orthoBox[4], orthoBox[5])
		logger.Info("projection", zap.Stringer("mode", cam.Projection()))
	case sdl.SCANCODE_R:
		c.scene.CycleKeyDiffuse(0)
	case sdl.SCANCODE_G:
		c.scene.CycleKeyDiffuse(1)
	case sdl.SCANCODE_B:
		c.scene.CycleKeyDiffuse(2)
	case sdl.SCANCODE_V:
		c.ShowWalls = !c.ShowWalls
	case sdl.SCANCODE_F12:
		c.Screenshot = true
	}
}

// EndFrame refreshes button hover state and clears per-frame flags.
func (c *Controller) EndFrame() {
	c.buttons.Update(c.pointer)
	c.pointer.EndFrame()
	c.Screenshot = false
}
