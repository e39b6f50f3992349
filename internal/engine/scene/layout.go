package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/roomview/internal/assets/obj"
	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/model"
)

// Layout describes the room contents: walls, lights, generated shapes,
// placed models and invisible sphere obstacles.
type Layout struct {
	Room            *RoomLayout       `yaml:"room,omitempty"`
	GlobalAmbient   *[3]float32       `yaml:"global_ambient,omitempty"`
	Lights          []LightLayout     `yaml:"lights"`
	Primitives      []PrimitiveLayout `yaml:"primitives,omitempty"`
	Models          []ModelLayout     `yaml:"models"`
	SphereObstacles []SphereLayout    `yaml:"sphere_obstacles,omitempty"`
}

// RoomLayout overrides the room from the collision config.
type RoomLayout struct {
	Center        [3]float32 `yaml:"center"`
	HalfSize      float32    `yaml:"half_size"`
	WallThickness float32    `yaml:"wall_thickness"`
}

// LightLayout is one light. Type is "point" or "spot"; spot lights need a
// target and cone.
type LightLayout struct {
	Name        string                `yaml:"name"`
	Type        string                `yaml:"type"`
	Position    [3]float32            `yaml:"position"`
	Target      [3]float32            `yaml:"target,omitempty"`
	Ambient     [3]float32            `yaml:"ambient"`
	Diffuse     [3]float32            `yaml:"diffuse"`
	Specular    [3]float32            `yaml:"specular"`
	Attenuation *lighting.Attenuation `yaml:"attenuation,omitempty"`
	Cone        *lighting.Cone        `yaml:"cone,omitempty"`
	Intensity   *float32              `yaml:"intensity,omitempty"`
	Motion      bool                  `yaml:"motion,omitempty"`
	Off         bool                  `yaml:"off,omitempty"`
}

// Primitive shapes.
const (
	ShapePlane  = "plane"
	ShapeSphere = "sphere"
)

// PrimitiveLayout is a generated shape. A plane uses Size and Divisions, a
// sphere Radius and Segments. An obstacle sphere collides as a sphere.
type PrimitiveLayout struct {
	Name      string     `yaml:"name"`
	Shape     string     `yaml:"shape"`
	Position  [3]float32 `yaml:"position"`
	Size      float32    `yaml:"size,omitempty"`
	Divisions int        `yaml:"divisions,omitempty"`
	Radius    float32    `yaml:"radius,omitempty"`
	Segments  int        `yaml:"segments,omitempty"`
	Ambient   [3]float32 `yaml:"ambient"`
	Diffuse   [3]float32 `yaml:"diffuse"`
	Specular  [3]float32 `yaml:"specular"`
	Shininess float32    `yaml:"shininess"`
	Obstacle  bool       `yaml:"obstacle,omitempty"`
}

// SphereLayout is an invisible spherical obstacle.
type SphereLayout struct {
	Center [3]float32 `yaml:"center"`
	Radius float32    `yaml:"radius"`
}

// ModelLayout places an OBJ file.
type ModelLayout struct {
	Name          string        `yaml:"name"`
	Path          string        `yaml:"path"`
	Position      [3]float32    `yaml:"position"`
	RotationY     float32       `yaml:"rotation_y"` // degrees
	Scale         *[3]float32   `yaml:"scale,omitempty"`
	Obstacle      bool          `yaml:"obstacle,omitempty"`
	SmoothNormals bool          `yaml:"smooth_normals,omitempty"`
	Follow        *FollowLayout `yaml:"follow,omitempty"`
	Patrol        *PatrolLayout `yaml:"patrol,omitempty"`
}

// FollowLayout attaches a model to the camera. Offset is (right, up, forward).
type FollowLayout struct {
	Offset         [3]float32 `yaml:"offset"`
	Rotation       bool       `yaml:"rotation"`
	RotationOffset float32    `yaml:"rotation_offset"` // degrees
}

// PatrolLayout drives a model around a square track.
type PatrolLayout struct {
	Extent float32 `yaml:"extent"`
	Speed  float32 `yaml:"speed"`
}

// spotAmbient, spotDiffuse and spotSpecular are shared by the default spots.
var (
	spotAmbient  = [3]float32{0.1, 0, 0}
	spotDiffuse  = [3]float32{0.6, 0.6, 0.6}
	spotSpecular = [3]float32{1, 0.8, 0.8}
)

// DefaultLayout is the built-in room: a key light, a ceiling point light and
// three spot lights aimed at a tiled floor, and a sphere standing on it.
func DefaultLayout() *Layout {
	att := lighting.DefaultAttenuation()
	return &Layout{
		Primitives: []PrimitiveLayout{
			{
				Name:      "floor",
				Shape:     ShapePlane,
				Position:  [3]float32{0, 1.5, 0},
				Size:      17.2,
				Divisions: 30,
				Ambient:   [3]float32{0.0918, 0.0906, 0.0863},
				Diffuse:   [3]float32{0.8258, 0.8152, 0.7765},
				Specular:  [3]float32{0.25, 0.25, 0.25},
				Shininess: 32,
			},
			{
				Name:      "ball",
				Shape:     ShapeSphere,
				Position:  [3]float32{-2, 2.5, 2},
				Radius:    1,
				Segments:  32,
				Ambient:   [3]float32{0.125, 0.075, 0.075},
				Diffuse:   [3]float32{0.86, 0.54, 0.54},
				Specular:  [3]float32{0.2, 0.2, 0.2},
				Shininess: 32,
				Obstacle:  true,
			},
		},
		Lights: []LightLayout{
			{
				Name:        "key",
				Type:        "point",
				Position:    [3]float32{3.5, 5.5, 0},
				Ambient:     [3]float32{0.3, 0.3, 0.3},
				Diffuse:     [3]float32{0.6, 0.6, 0.6},
				Specular:    [3]float32{0.2, 0.2, 0.2},
				Attenuation: &att,
			},
			{
				Name:     "ceiling",
				Type:     "point",
				Position: [3]float32{0, 10, 0},
				Ambient:  [3]float32{0.3, 0.3, 0.3},
				Diffuse:  [3]float32{0.8, 0.8, 0.8},
				Specular: [3]float32{0.2, 0.2, 0.2},
			},
			{
				Name:     "spot-west",
				Type:     "spot",
				Position: [3]float32{-4, 10, 4},
				Target:   [3]float32{-3.8, 0, 3.8},
				Ambient:  spotAmbient,
				Diffuse:  spotDiffuse,
				Specular: spotSpecular,
				Cone:     &lighting.Cone{InnerDeg: 12.5, OuterDeg: 20.5, Exponent: 2.5},
			},
			{
				Name:     "spot-north",
				Type:     "spot",
				Position: [3]float32{0, 10, -5},
				Target:   [3]float32{0, 0, -5},
				Ambient:  spotAmbient,
				Diffuse:  spotDiffuse,
				Specular: spotSpecular,
				Cone:     &lighting.Cone{InnerDeg: 12.5, OuterDeg: 17.5, Exponent: 2},
			},
			{
				Name:     "spot-east",
				Type:     "spot",
				Position: [3]float32{4, 10, 0},
				Target:   [3]float32{4, 0, 4},
				Ambient:  spotAmbient,
				Diffuse:  spotDiffuse,
				Specular: spotSpecular,
				Cone:     &lighting.Cone{InnerDeg: 12.5, OuterDeg: 17.5, Exponent: 2},
			},
		},
	}
}

// ParseLayout decodes a YAML layout and checks it.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadLayout reads a layout file. An empty path returns DefaultLayout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Validate reports every malformed light and model, joined.
func (l *Layout) Validate() error {
	var errs []error
	if l.Room != nil && (l.Room.HalfSize <= 0 || l.Room.WallThickness <= 0) {
		errs = append(errs, errors.New("room: half_size and wall_thickness must be positive"))
	}
	for i, lt := range l.Lights {
		switch lt.Type {
		case "point", "":
		case "spot":
			if lt.Cone == nil {
				errs = append(errs, fmt.Errorf("light %d (%s): spot light needs a cone", i, lt.Name))
			} else if lt.Cone.OuterDeg < lt.Cone.InnerDeg {
				errs = append(errs, fmt.Errorf("light %d (%s): outer cone %.1f smaller than inner %.1f", i, lt.Name, lt.Cone.OuterDeg, lt.Cone.InnerDeg))
			}
			if lt.Target == lt.Position {
				errs = append(errs, fmt.Errorf("light %d (%s): target equals position", i, lt.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("light %d (%s): unknown type %q", i, lt.Name, lt.Type))
		}
		if lt.Intensity != nil && *lt.Intensity < 0 {
			errs = append(errs, fmt.Errorf("light %d (%s): negative intensity", i, lt.Name))
		}
	}
	for i, p := range l.Primitives {
		switch p.Shape {
		case ShapePlane:
			if p.Size <= 0 {
				errs = append(errs, fmt.Errorf("primitive %d (%s): plane size must be positive", i, p.Name))
			}
		case ShapeSphere:
			if p.Radius <= 0 {
				errs = append(errs, fmt.Errorf("primitive %d (%s): sphere radius must be positive", i, p.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("primitive %d (%s): unknown shape %q", i, p.Name, p.Shape))
		}
	}
	for i, sp := range l.SphereObstacles {
		if sp.Radius <= 0 {
			errs = append(errs, fmt.Errorf("sphere obstacle %d: radius must be positive", i))
		}
	}
	for i, m := range l.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("model %d (%s): path is required", i, m.Name))
		}
		if m.Follow != nil && m.Patrol != nil {
			errs = append(errs, fmt.Errorf("model %d (%s): follow and patrol are exclusive", i, m.Name))
		}
	}
	return errors.Join(errs...)
}

// Build creates the light described by lt.
func (lt LightLayout) Build(mode lighting.DirectionMode) *lighting.Light {
	att := lighting.DefaultAttenuation()
	if lt.Attenuation != nil {
		att = *lt.Attenuation
	}
	amb := rgba(lt.Ambient)
	diff := rgba(lt.Diffuse)
	spec := rgba(lt.Specular)

	var light *lighting.Light
	if lt.Type == "spot" && lt.Cone != nil {
		light = lighting.NewSpot(mgl32.Vec3(lt.Position), mgl32.Vec3(lt.Target), *lt.Cone, amb, diff, spec, att)
		light.SetDirectionMode(mode)
	} else {
		light = lighting.NewPoint(mgl32.Vec3(lt.Position), amb, diff, spec, att)
	}
	light.Name = lt.Name
	if lt.Intensity != nil {
		light.SetIntensity(*lt.Intensity)
	}
	light.SetMotion(lt.Motion)
	light.SetLightOn(!lt.Off)
	return light
}

// defaultSegments is the sphere slice count when a layout gives none.
const defaultSegments = 24

// Mesh generates the shape, or returns nil for an unknown shape.
func (p PrimitiveLayout) Mesh() *model.Mesh {
	name := p.Name
	if name == "" {
		name = p.Shape
	}
	mat := obj.Material{
		Name:      name,
		Ambient:   mgl32.Vec3(p.Ambient),
		Diffuse:   mgl32.Vec3(p.Diffuse),
		Specular:  mgl32.Vec3(p.Specular),
		Shininess: p.Shininess,
		Dissolve:  1,
	}
	switch p.Shape {
	case ShapePlane:
		return model.Plane(p.Size, p.Divisions, mat)
	case ShapeSphere:
		segments := p.Segments
		if segments <= 0 {
			segments = defaultSegments
		}
		return model.Sphere(p.Radius, segments, max(segments/2, 2), mat)
	}
	return nil
}

func rgba(c [3]float32) mgl32.Vec4 {
	return mgl32.Vec4{c[0], c[1], c[2], 1}
}
