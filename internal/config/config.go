// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Camera      CameraConfig      `yaml:"camera"`
	Collision   CollisionConfig   `yaml:"collision"`
	Lighting    LightingConfig    `yaml:"lighting"`
	Scene       SceneConfig       `yaml:"scene"`
	Logging     LoggingConfig     `yaml:"logging"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
}

// GraphicsConfig holds window and projection settings.
type GraphicsConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Title  string  `yaml:"title"`
	VSync  bool    `yaml:"vsync"`
	FOV    float32 `yaml:"fov"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// CameraConfig holds the start pose and input sensitivity.
type CameraConfig struct {
	Eye              [3]float32 `yaml:"eye"`
	Center           [3]float32 `yaml:"center"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	ZoomStep         float32    `yaml:"zoom_step"`
	MoveSpeed        float32    `yaml:"move_speed"`
}

// CollisionConfig describes the room walls and the camera collider.
type CollisionConfig struct {
	RoomCenter      [3]float32 `yaml:"room_center"`
	RoomHalfSize    float32    `yaml:"room_half_size"`
	WallThickness   float32    `yaml:"wall_thickness"`
	CameraRadius    float32    `yaml:"camera_radius"`
	AltCameraRadius float32    `yaml:"alt_camera_radius"`
	Sweep           bool       `yaml:"sweep"`
}

// LightingConfig holds shading settings shared by all lights.
type LightingConfig struct {
	MaxLights     int        `yaml:"max_lights"`
	DirectionMode string     `yaml:"direction_mode"` // eager or lazy
	GlobalAmbient [3]float32 `yaml:"global_ambient"`
}

// SceneConfig points at the scene content.
type SceneConfig struct {
	Layout    string `yaml:"layout"` // empty uses the built-in room
	AssetDir  string `yaml:"asset_dir"`
	ShowWalls bool   `yaml:"show_walls"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level            string `yaml:"level"`
	LogFile          string `yaml:"log_file"`
	SampleFirst      int    `yaml:"sample_first"`
	SampleThereafter int    `yaml:"sample_thereafter"`
}

// ScreenshotsConfig holds screenshot output settings.
type ScreenshotsConfig struct {
	Dir string `yaml:"dir"`
}

// maxLights is the size of the light array compiled into the shader.
const maxLights = 8

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  800,
			Height: 800,
			Title:  "Room Viewer",
			VSync:  true,
			FOV:    45,
			Near:   1,
			Far:    100,
		},
		Camera: CameraConfig{
			Eye:              [3]float32{5, 5, 5},
			Center:           [3]float32{0, 4, 0},
			MouseSensitivity: 0.005,
			ZoomStep:         0.2,
			MoveSpeed:        0.05,
		},
		Collision: CollisionConfig{
			RoomCenter:      [3]float32{0, 10.1, 0},
			RoomHalfSize:    8.6,
			WallThickness:   2.0,
			CameraRadius:    0.3,
			AltCameraRadius: 1.3,
			Sweep:           true,
		},
		Lighting: LightingConfig{
			MaxLights:     maxLights,
			DirectionMode: "eager",
			GlobalAmbient: [3]float32{0.1, 0.1, 0.1},
		},
		Scene: SceneConfig{
			AssetDir:  "assets",
			ShowWalls: false,
		},
		Logging: LoggingConfig{
			Level:            "info",
			LogFile:          "",
			SampleFirst:      1,
			SampleThereafter: 120,
		},
		Screenshots: ScreenshotsConfig{
			Dir: "screenshots",
		},
	}
}

// Validate returns every setting the viewer cannot run with, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		errs = append(errs, fmt.Errorf("graphics: fov %.1f out of range (0, 180)", c.Graphics.FOV))
	}
	if c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near {
		errs = append(errs, fmt.Errorf("graphics: need 0 < near < far, got %.2f and %.2f", c.Graphics.Near, c.Graphics.Far))
	}
	if c.Collision.RoomHalfSize <= 0 {
		errs = append(errs, fmt.Errorf("collision: room_half_size %.2f must be positive", c.Collision.RoomHalfSize))
	}
	if c.Collision.WallThickness <= 0 {
		errs = append(errs, fmt.Errorf("collision: wall_thickness %.2f must be positive", c.Collision.WallThickness))
	}
	if c.Collision.CameraRadius <= 0 || c.Collision.AltCameraRadius <= 0 {
		errs = append(errs, errors.New("collision: camera radii must be positive"))
	}
	if c.Lighting.MaxLights <= 0 || c.Lighting.MaxLights > maxLights {
		errs = append(errs, fmt.Errorf("lighting: max_lights %d must be in 1..%d", c.Lighting.MaxLights, maxLights))
	}
	switch c.Lighting.DirectionMode {
	case "eager", "lazy":
	default:
		errs = append(errs, fmt.Errorf("lighting: unknown direction_mode %q", c.Lighting.DirectionMode))
	}
	if c.Camera.MoveSpeed <= 0 {
		errs = append(errs, fmt.Errorf("camera: move_speed %.3f must be positive", c.Camera.MoveSpeed))
	}

	return errors.Join(errs...)
}
