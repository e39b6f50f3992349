package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/logger"
)

// Mover resolves a desired displacement against the room.
// collision.Manager implements it.
type Mover interface {
	SafeMovement(desired, current mgl32.Vec3) mgl32.Vec3
}

// View is the camera pose a follower tracks. camera.Camera implements it.
type View interface {
	Eye() mgl32.Vec3
	Forward() mgl32.Vec3
	Right() mgl32.Vec3
	CameraUp() mgl32.Vec3
}

// Follower keeps a model at a fixed offset in the camera's frame.
// Offset is (right, up, forward).
type Follower struct {
	Offset         mgl32.Vec3
	FollowRotation bool
	RotationOffset float32 // radians added to the camera yaw
}

// Target returns where the model should be and which way it should face.
func (f *Follower) Target(v View, yaw float32) (mgl32.Vec3, float32) {
	fwd := v.Forward()
	pos := v.Eye().
		Add(v.Right().Mul(f.Offset.X())).
		Add(v.CameraUp().Mul(f.Offset.Y())).
		Add(fwd.Mul(f.Offset.Z()))
	if f.FollowRotation {
		yaw = math32.Atan2(fwd.X(), fwd.Z()) + f.RotationOffset
	}
	return pos, yaw
}

// Patrol drives a model around a rectangular track on the XZ plane, turning
// right 90 degrees at each edge or when blocked.
type Patrol struct {
	Min, Max      mgl32.Vec2 // track edges on X and Z
	Speed         float32    // units per second
	RotationSpeed float32    // radians per second

	heading   float32 // yaw of the direction of travel
	targetYaw float32
	started   bool
}

// Default patrol settings.
const (
	DefaultPatrolExtent        = 20
	DefaultPatrolSpeed         = 2
	DefaultPatrolRotationSpeed = math32.Pi
)

// NewPatrol returns a patrol on the square track of half size extent,
// heading along +X.
func NewPatrol(extent float32) *Patrol {
	return &Patrol{
		Min:           mgl32.Vec2{-extent, -extent},
		Max:           mgl32.Vec2{extent, extent},
		Speed:         DefaultPatrolSpeed,
		RotationSpeed: DefaultPatrolRotationSpeed,
		heading:       math32.Pi / 2,
		targetYaw:     math32.Pi / 2,
	}
}

// Direction returns the unit direction of travel.
func (p *Patrol) Direction() mgl32.Vec3 {
	return headingDir(p.heading)
}

func headingDir(yaw float32) mgl32.Vec3 {
	d := mgl32.Vec3{math32.Sin(yaw), 0, math32.Cos(yaw)}
	// Snap so the axis-aligned track stays exact.
	for i := range d {
		d[i] = math32.Round(d[i]*1e6) / 1e6
	}
	return d
}

func (p *Patrol) turnRight() {
	p.heading = wrapAngle(p.heading + math32.Pi/2)
	p.targetYaw = p.heading
}

// Step advances t by dt seconds. mover may be nil.
func (p *Patrol) Step(dt float32, t *Transform, mover Mover) {
	if !p.started {
		t.Yaw = p.heading
		p.started = true
	}

	dir := p.Direction()
	delta := dir.Mul(p.Speed * dt)
	applied := delta
	if mover != nil {
		applied = mover.SafeMovement(delta, t.Position)
	}
	t.Position = t.Position.Add(applied)

	blocked := delta.Len() > 0 && applied.Len() < delta.Len()*0.5
	switch {
	case t.Position.X() > p.Max.X() && dir.X() > 0:
		t.Position[0] = p.Max.X()
		p.turnRight()
	case t.Position.Z() < p.Min.Y() && dir.Z() < 0:
		t.Position[2] = p.Min.Y()
		p.turnRight()
	case t.Position.X() < p.Min.X() && dir.X() < 0:
		t.Position[0] = p.Min.X()
		p.turnRight()
	case t.Position.Z() > p.Max.Y() && dir.Z() > 0:
		t.Position[2] = p.Max.Y()
		p.turnRight()
	case blocked:
		p.turnRight()
	}

	t.Yaw = wrapAngle(approachAngle(t.Yaw, p.targetYaw, p.RotationSpeed*dt))
}

// Instance is a mesh placed in the scene.
type Instance struct {
	Name      string
	Mesh      *Mesh
	Transform Transform
	Obstacle  bool

	follow *Follower
	patrol *Patrol
	log    *zap.Logger
}

// NewInstance places mesh with transform t.
func NewInstance(name string, mesh *Mesh, t Transform) *Instance {
	return &Instance{
		Name:      name,
		Mesh:      mesh,
		Transform: t,
		log:       logger.Sampled("model").With(zap.String("model", name)),
	}
}

// SetFollow makes the instance track the camera. nil stops following.
func (in *Instance) SetFollow(f *Follower) {
	in.follow = f
	if f != nil {
		logger.Info("model following camera",
			zap.String("model", in.Name),
			zap.Float32s("offset", f.Offset[:]),
			zap.Bool("rotation", f.FollowRotation))
	} else {
		logger.Info("model stopped following camera", zap.String("model", in.Name))
	}
}

// Following reports whether the instance tracks the camera.
func (in *Instance) Following() bool { return in.follow != nil }

// SetPatrol starts or, with nil, stops track motion.
func (in *Instance) SetPatrol(p *Patrol) { in.patrol = p }

// Patrolling reports whether track motion is active.
func (in *Instance) Patrolling() bool { return in.patrol != nil }

// Moves reports whether Update can change the transform.
func (in *Instance) Moves() bool { return in.follow != nil || in.patrol != nil }

// Update moves a following or patrolling instance. Motion goes through
// mover when it is not nil.
func (in *Instance) Update(dt float32, view View, mover Mover) {
	if in.follow != nil && view != nil {
		target, yaw := in.follow.Target(view, in.Transform.Yaw)
		delta := target.Sub(in.Transform.Position)
		if mover != nil {
			delta = mover.SafeMovement(delta, in.Transform.Position)
		}
		in.Transform.Position = in.Transform.Position.Add(delta)
		in.Transform.Yaw = yaw
		in.log.Debug("follow",
			zap.Float32s("position", in.Transform.Position[:]),
			zap.Float32("yaw", in.Transform.Yaw))
	}

	if in.patrol != nil && in.follow == nil {
		in.patrol.Step(dt, &in.Transform, mover)
		dir := in.patrol.Direction()
		in.log.Debug("patrol",
			zap.Float32s("position", in.Transform.Position[:]),
			zap.Float32s("direction", dir[:]))
	}
}

// WorldBounds returns the mesh bounds in world space.
func (in *Instance) WorldBounds() bounds.AABB {
	if in.Mesh == nil {
		return bounds.AABB{Min: in.Transform.Position, Max: in.Transform.Position}
	}
	return in.Transform.WorldBounds(in.Mesh.Bounds)
}
