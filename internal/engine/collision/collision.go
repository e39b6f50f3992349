// Package collision resolves camera and model movement against the room walls
// and registered obstacles.
package collision

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/logger"
)

// RaycastSteps is the number of fixed samples taken along a ray.
const RaycastSteps = 20

// Wall indices in the order InitializeWalls builds them.
const (
	WallLeft = iota
	WallRight
	WallFront
	WallBack
	WallFloor
	WallCeiling
	WallCount
)

var wallNames = [WallCount]string{"left", "right", "front", "back", "floor", "ceiling"}

// WallName returns a readable name for a wall index.
func WallName(i int) string {
	if i < 0 || i >= WallCount {
		return "unknown"
	}
	return wallNames[i]
}

// Room describes the inner volume enclosed by the walls.
type Room struct {
	Center    mgl32.Vec3
	HalfSize  float32
	Thickness float32
}

// DefaultRoom returns the room the viewer ships with.
func DefaultRoom() Room {
	return Room{
		Center:    mgl32.Vec3{0, 10.1, 0},
		HalfSize:  8.6,
		Thickness: 2.0,
	}
}

// Inner returns the box bounded by the inside faces of the walls.
func (r Room) Inner() bounds.AABB {
	h := mgl32.Vec3{r.HalfSize, r.HalfSize, r.HalfSize}
	return bounds.AABB{Min: r.Center.Sub(h), Max: r.Center.Add(h)}
}

// Config holds collision manager settings.
type Config struct {
	Room            Room
	CameraRadius    float32
	AltCameraRadius float32
}

// DefaultConfig returns the default collision settings.
func DefaultConfig() Config {
	return Config{
		Room:            DefaultRoom(),
		CameraRadius:    0.3,
		AltCameraRadius: 1.3,
	}
}

// Manager owns the room walls, obstacles and the camera collider.
// It is not safe for concurrent use; the frame loop owns it.
type Manager struct {
	room            Room
	walls           []bounds.AABB
	obstacles       []bounds.AABB
	sphereObstacles []bounds.Sphere
	camera          bounds.Sphere

	radius    float32
	altRadius float32
	usingAlt  bool

	log *zap.Logger
}

// NewManager creates a manager and builds the walls for cfg.Room.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		radius:    cfg.CameraRadius,
		altRadius: cfg.AltCameraRadius,
		log:       logger.Sampled("collision"),
	}
	if m.altRadius <= 0 {
		m.altRadius = m.radius
	}
	m.camera.Radius = m.radius
	m.InitializeWalls(cfg.Room)
	return m
}

// InitializeWalls replaces the wall set with six slabs of the given thickness
// just outside the room's inner bounds: left, right, front, back, floor, ceiling.
func (m *Manager) InitializeWalls(room Room) {
	m.room = room
	in := room.Inner()
	t := room.Thickness
	lo, hi := in.Min, in.Max

	m.walls = append(m.walls[:0],
		bounds.AABB{Min: mgl32.Vec3{lo.X() - t, lo.Y(), lo.Z()}, Max: mgl32.Vec3{lo.X(), hi.Y(), hi.Z()}},
		bounds.AABB{Min: mgl32.Vec3{hi.X(), lo.Y(), lo.Z()}, Max: mgl32.Vec3{hi.X() + t, hi.Y(), hi.Z()}},
		bounds.AABB{Min: mgl32.Vec3{lo.X(), lo.Y(), lo.Z() - t}, Max: mgl32.Vec3{hi.X(), hi.Y(), lo.Z()}},
		bounds.AABB{Min: mgl32.Vec3{lo.X(), lo.Y(), hi.Z()}, Max: mgl32.Vec3{hi.X(), hi.Y(), hi.Z() + t}},
		bounds.AABB{Min: mgl32.Vec3{lo.X(), lo.Y() - t, lo.Z()}, Max: mgl32.Vec3{hi.X(), lo.Y(), hi.Z()}},
		bounds.AABB{Min: mgl32.Vec3{lo.X(), hi.Y(), lo.Z()}, Max: mgl32.Vec3{hi.X(), hi.Y() + t, hi.Z()}},
	)
}

// Room returns the room the walls were last built from.
func (m *Manager) Room() Room {
	return m.room
}

// AddObstacle registers a box obstacle.
func (m *Manager) AddObstacle(box bounds.AABB) {
	m.obstacles = append(m.obstacles, box)
}

// AddSphereObstacle registers a spherical obstacle.
func (m *Manager) AddSphereObstacle(s bounds.Sphere) {
	m.sphereObstacles = append(m.sphereObstacles, s)
}

// RemoveObstacle removes the box obstacle at index i.
// An out-of-range index is ignored.
func (m *Manager) RemoveObstacle(i int) {
	if i < 0 || i >= len(m.obstacles) {
		return
	}
	m.obstacles = slices.Delete(m.obstacles, i, i+1)
}

// RemoveSphereObstacle removes the sphere obstacle at index i.
// An out-of-range index is ignored.
func (m *Manager) RemoveSphereObstacle(i int) {
	if i < 0 || i >= len(m.sphereObstacles) {
		return
	}
	m.sphereObstacles = slices.Delete(m.sphereObstacles, i, i+1)
}

// ClearObstacles removes every box and sphere obstacle. Walls are kept.
func (m *Manager) ClearObstacles() {
	m.obstacles = m.obstacles[:0]
	m.sphereObstacles = m.sphereObstacles[:0]
}

// CheckCameraCollision places the camera collider at pos and reports whether
// it overlaps any wall, box obstacle or sphere obstacle.
func (m *Manager) CheckCameraCollision(pos mgl32.Vec3) bool {
	m.camera.Center = pos

	for i, wall := range m.walls {
		if m.camera.IntersectsAABB(wall) {
			m.log.Debug("camera collides with wall",
				zap.String("wall", WallName(i)),
				zap.Float32s("pos", pos[:]))
			return true
		}
	}
	for i, box := range m.obstacles {
		if m.camera.IntersectsAABB(box) {
			m.log.Debug("camera collides with obstacle",
				zap.Int("obstacle", i),
				zap.Float32s("pos", pos[:]))
			return true
		}
	}
	for i, s := range m.sphereObstacles {
		if m.camera.Intersects(s) {
			m.log.Debug("camera collides with sphere obstacle",
				zap.Int("obstacle", i),
				zap.Float32s("pos", pos[:]))
			return true
		}
	}
	return false
}

// SafeMovement returns the part of desired that can be applied from current.
// An unobstructed move is returned unchanged. Otherwise each axis component is
// tried on its own and only the components that do not collide are kept, so the
// camera slides along a wall instead of stopping dead.
func (m *Manager) SafeMovement(desired, current mgl32.Vec3) mgl32.Vec3 {
	if !m.CheckCameraCollision(current.Add(desired)) {
		return desired
	}

	var result mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		if desired[axis] == 0 {
			continue
		}
		var step mgl32.Vec3
		step[axis] = desired[axis]
		if !m.CheckCameraCollision(current.Add(step)) {
			result[axis] = desired[axis]
		}
	}
	return result
}

// refineSteps bounds the bisection used by SweptMovement to close the last gap.
const refineSteps = 12

// SweptMovement applies desired in steps no longer than the camera radius,
// resolving each through SafeMovement, so a long move cannot skip over a thin
// box. When a step is fully blocked the remaining distance to the obstacle is
// closed by bisection and the sweep stops.
func (m *Manager) SweptMovement(desired, current mgl32.Vec3) mgl32.Vec3 {
	dist := desired.Len()
	if dist == 0 {
		return desired
	}
	r := m.camera.Radius
	if r <= 0 || dist <= r {
		return m.SafeMovement(desired, current)
	}

	n := int(math32.Ceil(dist / r))
	step := desired.Mul(1 / float32(n))
	pos := current

	for i := 0; i < n; i++ {
		moved := m.SafeMovement(step, pos)
		if moved == (mgl32.Vec3{}) {
			pos = pos.Add(m.approach(step, pos))
			break
		}
		pos = pos.Add(moved)
	}
	return pos.Sub(current)
}

// approach finds the largest fraction of step that stays collision free.
func (m *Manager) approach(step, pos mgl32.Vec3) mgl32.Vec3 {
	var lo, hi float32 = 0, 1
	for i := 0; i < refineSteps; i++ {
		mid := (lo + hi) / 2
		if m.CheckCameraCollision(pos.Add(step.Mul(mid))) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return step.Mul(lo)
}

// Raycast samples RaycastSteps points along origin + direction*t for t up to
// maxDistance and returns the first sampled point where the camera collider
// would collide. Thin obstacles between samples can be missed.
func (m *Manager) Raycast(origin, direction mgl32.Vec3, maxDistance float32) (mgl32.Vec3, bool) {
	stepSize := maxDistance / RaycastSteps
	for i := 1; i <= RaycastSteps; i++ {
		p := origin.Add(direction.Mul(stepSize * float32(i)))
		if m.CheckCameraCollision(p) {
			return p, true
		}
	}
	return mgl32.Vec3{}, false
}

// CameraRadius returns the current camera collider radius.
func (m *Manager) CameraRadius() float32 {
	return m.camera.Radius
}

// SetCameraRadius sets the camera collider radius and makes it the primary preset.
func (m *Manager) SetCameraRadius(r float32) {
	if r <= 0 {
		return
	}
	m.radius = r
	m.usingAlt = false
	m.camera.Radius = r
}

// ToggleCameraRadius switches between the primary and alternate radius and
// returns the radius now in effect.
func (m *Manager) ToggleCameraRadius() float32 {
	m.usingAlt = !m.usingAlt
	if m.usingAlt {
		m.camera.Radius = m.altRadius
	} else {
		m.camera.Radius = m.radius
	}
	return m.camera.Radius
}

// WallCount returns the number of walls.
func (m *Manager) WallCount() int { return len(m.walls) }

// ObstacleCount returns the number of box obstacles.
func (m *Manager) ObstacleCount() int { return len(m.obstacles) }

// SphereObstacleCount returns the number of sphere obstacles.
func (m *Manager) SphereObstacleCount() int { return len(m.sphereObstacles) }

// Walls returns a copy of the wall boxes.
func (m *Manager) Walls() []bounds.AABB { return slices.Clone(m.walls) }

// Obstacles returns a copy of the box obstacles.
func (m *Manager) Obstacles() []bounds.AABB { return slices.Clone(m.obstacles) }

// SphereObstacles returns a copy of the sphere obstacles.
func (m *Manager) SphereObstacles() []bounds.Sphere { return slices.Clone(m.sphereObstacles) }

// Swept adapts a Manager so that SafeMovement sweeps long moves.
type Swept struct {
	*Manager
}

// SafeMovement resolves desired with SweptMovement.
func (s Swept) SafeMovement(desired, current mgl32.Vec3) mgl32.Vec3 {
	return s.Manager.SweptMovement(desired, current)
}
