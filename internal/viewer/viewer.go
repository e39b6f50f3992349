// Package viewer runs the window, input and frame loop around a scene.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/assets"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/debug"
	"github.com/Faultbox/roomview/internal/engine/input"
	"github.com/Faultbox/roomview/internal/engine/scene"
	"github.com/Faultbox/roomview/internal/engine/texture"
	"github.com/Faultbox/roomview/internal/engine/ui2d"
	"github.com/Faultbox/roomview/internal/engine/window"
	"github.com/Faultbox/roomview/internal/logger"
)

// Viewer is the interactive room viewer.
type Viewer struct {
	config   *config.Config
	running  bool
	window   *window.Window
	input    *input.Input
	assets   *assets.Manager
	textures *texture.Pool
	scene    *scene.Scene
	renderer *scene.Renderer
	ui       *ui2d.Renderer
	controls *Controller
	shots    *debug.ScreenshotCapture
}

// New opens the window and builds the scene. Models and textures that fail
// to load are skipped.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		config: cfg,
		assets: assets.NewManager(),
		shots:  debug.NewScreenshotCapture(cfg.Screenshots.Dir, "roomview"),
	}
	if cfg.Scene.AssetDir != "" {
		if err := v.assets.AddDir(cfg.Scene.AssetDir); err != nil {
			logger.Warn("asset directory unavailable", zap.String("dir", cfg.Scene.AssetDir), zap.Error(err))
		}
	}

	layout, err := scene.LoadLayout(cfg.Scene.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	v.scene, err = scene.New(cfg, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	loaded := v.scene.LoadModels(v.assets)
	logger.Info("models loaded", zap.Int("loaded", loaded), zap.Int("requested", len(layout.Models)))

	// Create window (this also creates the OpenGL context)
	v.window, err = window.New(window.Config{
		Title:  cfg.Graphics.Title,
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.textures = texture.NewPool(v.assets, texture.GLUploader{})
	v.renderer, err = scene.NewRenderer(v.scene, v.textures)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.ui, err = ui2d.New(cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create ui: %w", err)
	}

	v.input = input.New()
	v.controls = NewController(v.scene, cfg)

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run drives the frame loop until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	frameLog := logger.Sampled("frame")

	logger.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.controls.Handle(event)
		}
		if v.controls.Quit {
			v.running = false
			break
		}

		// 2. Update
		v.scene.Update(dt)

		// 3. Render
		v.render()
		if v.controls.Screenshot {
			v.capture()
		}

		// 4. Present
		v.window.SwapBuffers()
		v.controls.EndFrame()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			frameLog.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) render() {
	v.renderer.ShowWalls = v.controls.ShowWalls
	v.renderer.Draw(v.scene)

	v.ui.Begin()
	v.controls.Buttons().Draw(v.ui.Batch())
	v.ui.End()
}

func (v *Viewer) capture() {
	w, h := v.window.GetSize()
	if _, err := v.shots.CaptureFromPixels(debug.ReadFramebuffer(w, h), w, h); err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
	}
}

// Close releases GL, window and asset resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.ui != nil {
		v.ui.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.textures != nil {
		v.textures.Cleanup()
	}
	if v.window != nil {
		v.window.Close()
	}
	if v.assets != nil {
		v.assets.Close()
	}
}
