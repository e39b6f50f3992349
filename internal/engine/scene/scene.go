// Package scene owns the room: camera, walls, lights and placed models, and
// drives their per-frame update.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/assets/obj"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/engine/camera"
	"github.com/Faultbox/roomview/internal/engine/collision"
	"github.com/Faultbox/roomview/internal/engine/debug"
	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/model"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/logger"
)

// markerSize is the edge length of the wire cube drawn at each light.
const markerSize = 0.3

// Drawer renders one uploaded mesh. *model.GPUMesh implements it.
type Drawer interface {
	Draw(prog model.Program, m mgl32.Mat4, normal mgl32.Mat3)
}

// Scene is the room state. It is owned by the frame loop.
type Scene struct {
	camera    *camera.Camera
	walls     *collision.Manager
	mover     camera.Mover
	lights    *lighting.Manager
	instances []*model.Instance

	layout        *Layout
	globalAmbient mgl32.Vec3
	dirMode       lighting.DirectionMode

	log *zap.Logger
}

// New builds the room from cfg and layout. Lights beyond the manager's
// capacity are dropped with a warning. Models are loaded by LoadModels.
func New(cfg *config.Config, layout *Layout) (*Scene, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	mode, ok := lighting.ParseDirectionMode(cfg.Lighting.DirectionMode)
	if !ok {
		return nil, fmt.Errorf("unknown direction mode %q", cfg.Lighting.DirectionMode)
	}

	s := &Scene{
		layout:        layout,
		globalAmbient: mgl32.Vec3(cfg.Lighting.GlobalAmbient),
		dirMode:       mode,
		log:           logger.Sampled("scene"),
	}
	if layout.GlobalAmbient != nil {
		s.globalAmbient = mgl32.Vec3(*layout.GlobalAmbient)
	}

	room := collision.Room{
		Center:    mgl32.Vec3(cfg.Collision.RoomCenter),
		HalfSize:  cfg.Collision.RoomHalfSize,
		Thickness: cfg.Collision.WallThickness,
	}
	if layout.Room != nil {
		room = collision.Room{
			Center:    mgl32.Vec3(layout.Room.Center),
			HalfSize:  layout.Room.HalfSize,
			Thickness: layout.Room.WallThickness,
		}
	}
	s.walls = collision.NewManager(collision.Config{
		Room:            room,
		CameraRadius:    cfg.Collision.CameraRadius,
		AltCameraRadius: cfg.Collision.AltCameraRadius,
	})
	s.mover = s.walls
	if cfg.Collision.Sweep {
		s.mover = collision.Swept{Manager: s.walls}
	}

	s.camera = camera.New(mgl32.Vec3(cfg.Camera.Eye), mgl32.Vec3(cfg.Camera.Center))
	s.camera.DragSensitivity = cfg.Camera.MouseSensitivity
	s.camera.ZoomSensitivity = cfg.Camera.ZoomStep
	s.camera.MoveSpeed = cfg.Camera.MoveSpeed
	s.camera.SetPerspective(cfg.Graphics.FOV, aspect(cfg.Graphics.Width, cfg.Graphics.Height), cfg.Graphics.Near, cfg.Graphics.Far)
	s.camera.SetMover(s.mover)

	s.lights = lighting.NewManagerWithLimit(cfg.Lighting.MaxLights)
	for _, lt := range layout.Lights {
		if _, err := s.lights.Add(lt.Build(mode)); err != nil {
			if errors.Is(err, lighting.ErrCapacity) {
				logger.Warn("light dropped, manager full",
					zap.String("light", lt.Name),
					zap.Int("limit", s.lights.Limit()))
				continue
			}
			return nil, fmt.Errorf("add light %s: %w", lt.Name, err)
		}
	}

	for _, p := range layout.Primitives {
		s.addPrimitive(p)
	}
	for _, sp := range layout.SphereObstacles {
		s.walls.AddSphereObstacle(bounds.Sphere{Center: mgl32.Vec3(sp.Center), Radius: sp.Radius})
	}
	if s.walls.CheckCameraCollision(s.camera.Eye()) {
		logger.Warn("camera starts inside a wall or obstacle", zap.Float32s("eye", cfg.Camera.Eye[:]))
	}

	logger.Info("scene created",
		zap.Int("lights", s.lights.Len()),
		zap.Int("primitives", len(layout.Primitives)),
		zap.Int("sphere_obstacles", s.walls.SphereObstacleCount()),
		zap.Int("walls", s.walls.WallCount()),
		zap.Bool("sweep", cfg.Collision.Sweep))
	return s, nil
}

func aspect(w, h int) float32 {
	if h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// LoadModels loads every model in the layout from src. A model that fails to
// load is logged and skipped. It returns the number of models placed.
func (s *Scene) LoadModels(src obj.Source) int {
	loaded := 0
	for _, ml := range s.layout.Models {
		in, err := s.loadModel(src, ml)
		if err != nil {
			logger.Warn("model skipped", zap.String("model", ml.Name), zap.String("path", ml.Path), zap.Error(err))
			continue
		}
		s.AddInstance(in, ml.Obstacle)
		loaded++
	}
	return loaded
}

func (s *Scene) loadModel(src obj.Source, ml ModelLayout) (*model.Instance, error) {
	parsed, err := obj.Load(src, ml.Path)
	if err != nil {
		return nil, err
	}

	t := model.NewTransform(mgl32.Vec3(ml.Position))
	t.Yaw = mgl32.DegToRad(ml.RotationY)
	if ml.Scale != nil {
		t.Scale = mgl32.Vec3(*ml.Scale)
	}

	mesh := model.BuildMesh(parsed, model.BuildOptions{
		ReverseWinding: t.Mirrored(),
		SmoothNormals:  ml.SmoothNormals,
	})
	if mesh == nil {
		return nil, errors.New("mesh has no triangles")
	}

	name := ml.Name
	if name == "" {
		name = ml.Path
	}
	in := model.NewInstance(name, mesh, t)
	if ml.Follow != nil {
		in.SetFollow(&model.Follower{
			Offset:         mgl32.Vec3(ml.Follow.Offset),
			FollowRotation: ml.Follow.Rotation,
			RotationOffset: mgl32.DegToRad(ml.Follow.RotationOffset),
		})
	}
	if ml.Patrol != nil {
		extent := ml.Patrol.Extent
		if extent <= 0 {
			extent = model.DefaultPatrolExtent
		}
		p := model.NewPatrol(extent)
		if ml.Patrol.Speed > 0 {
			p.Speed = ml.Patrol.Speed
		}
		in.SetPatrol(p)
	}
	return in, nil
}

// addPrimitive places a generated shape. An obstacle sphere registers as a
// sphere obstacle, anything else through AddInstance.
func (s *Scene) addPrimitive(p PrimitiveLayout) {
	mesh := p.Mesh()
	if mesh == nil {
		return
	}
	name := p.Name
	if name == "" {
		name = p.Shape
	}
	in := model.NewInstance(name, mesh, model.NewTransform(mgl32.Vec3(p.Position)))
	if p.Obstacle && p.Shape == ShapeSphere {
		in.Obstacle = true
		s.walls.AddSphereObstacle(bounds.Sphere{Center: in.Transform.Position, Radius: p.Radius})
		s.instances = append(s.instances, in)
		return
	}
	s.AddInstance(in, p.Obstacle)
}

// AddInstance places in. A static obstacle registers its world bounds with
// the collision manager; moving instances never do.
func (s *Scene) AddInstance(in *model.Instance, obstacle bool) {
	if obstacle && !in.Moves() {
		in.Obstacle = true
		box := in.WorldBounds()
		s.walls.AddObstacle(box)
		logger.Debug("obstacle registered",
			zap.String("model", in.Name),
			zap.Float32s("min", box.Min[:]),
			zap.Float32s("max", box.Max[:]))
	}
	s.instances = append(s.instances, in)
}

// Update advances lights and moving models by dt seconds.
func (s *Scene) Update(dt float32) {
	s.lights.Update(dt)
	for _, in := range s.instances {
		if in.Moves() {
			in.Update(dt, s.camera, s.mover)
		}
	}
}

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Collision returns the collision manager.
func (s *Scene) Collision() *collision.Manager { return s.walls }

// Lights returns the light manager.
func (s *Scene) Lights() *lighting.Manager { return s.lights }

// Instances returns the placed models.
func (s *Scene) Instances() []*model.Instance { return s.instances }

// GlobalAmbient returns the ambient term added to every surface.
func (s *Scene) GlobalAmbient() mgl32.Vec3 { return s.globalAmbient }

// KeyLight returns the light in slot 0, or nil.
func (s *Scene) KeyLight() *lighting.Light { return s.lights.At(0) }

// ToggleLight flips light slot i on or off and returns its new state.
// An out-of-range slot is ignored.
func (s *Scene) ToggleLight(i int) bool {
	l := s.lights.At(i)
	if l == nil {
		return false
	}
	l.SetLightOn(!l.IsLightOn())
	logger.Info("light toggled", zap.Int("slot", i), zap.String("light", l.Name), zap.Bool("on", l.IsLightOn()))
	return l.IsLightOn()
}

// ToggleKeyLightMotion starts or stops the key light's orbit.
func (s *Scene) ToggleKeyLightMotion() {
	if l := s.KeyLight(); l != nil {
		l.ToggleMotion()
		logger.Info("key light motion", zap.Bool("on", l.MotionEnabled()))
	}
}

// diffuseStep is how far CycleKeyDiffuse moves a channel.
const diffuseStep = 0.25

// CycleKeyDiffuse raises one channel (0 red, 1 green, 2 blue) of the key
// light's diffuse color, wrapping to zero past one.
func (s *Scene) CycleKeyDiffuse(channel int) {
	l := s.KeyLight()
	if l == nil || channel < 0 || channel > 2 {
		return
	}
	c := l.Diffuse()
	c[channel] += diffuseStep
	if c[channel] > 1+1e-4 {
		c[channel] = 0
	}
	l.SetDiffuse(c)
	logger.Info("key light diffuse", zap.Float32s("rgb", c[:3]))
}

// ToggleCameraRadius switches the camera collider between its two radii.
func (s *Scene) ToggleCameraRadius() float32 {
	r := s.walls.ToggleCameraRadius()
	logger.Info("camera radius", zap.Float32("radius", r))
	return r
}

// UploadFrame writes the per-frame uniforms for the phong program: camera,
// global ambient, the key light as uLight and every light into uLights.
func (s *Scene) UploadFrame(prog model.Program) {
	prog.SetMat4(shader.ViewProjUniform, s.camera.ViewProjection())
	prog.SetVec3(shader.ViewPosUniform, s.camera.Eye())
	prog.SetVec3(shader.GlobalAmbientUniform, s.globalAmbient)
	if key := s.KeyLight(); key != nil {
		lighting.Upload(prog, lighting.KeyLightUniform, key)
	}
	s.lights.Upload(prog)
}

// DrawModels draws instance i with drawers[i]. A nil drawer is skipped.
func (s *Scene) DrawModels(prog model.Program, drawers []Drawer) {
	for i, in := range s.instances {
		if i >= len(drawers) || drawers[i] == nil {
			continue
		}
		drawers[i].Draw(prog, in.Transform.Matrix(), in.Transform.NormalMatrix())
	}
}

// LightMarkers returns a wire cube at each light in its exported diffuse
// color, so a disabled light's marker goes dark.
func (s *Scene) LightMarkers() []debug.Wireframe {
	out := make([]debug.Wireframe, 0, s.lights.Len())
	for i, u := range s.lights.Uniforms() {
		l := s.lights.At(i)
		box := bounds.FromCenterSize(l.Position(), mgl32.Vec3{markerSize, markerSize, markerSize})
		out = append(out, debug.Wireframe{
			Vertices: debug.BoxVertices(box),
			Color:    mgl32.Vec4{u.Diffuse[0], u.Diffuse[1], u.Diffuse[2], 1},
		})
	}
	return out
}

// Wireframes returns the light markers and, when showWalls is set, the
// collision volumes.
func (s *Scene) Wireframes(showWalls bool) []debug.Wireframe {
	out := s.LightMarkers()
	if showWalls {
		out = append(out, debug.CollisionWireframes(s.walls)...)
	}
	return out
}
