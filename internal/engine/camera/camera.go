// Package camera provides the orbiting, collision-aware viewer camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mover resolves a desired eye displacement into one that is safe to apply.
// collision.Manager implements it.
type Mover interface {
	SafeMovement(desired, current mgl32.Vec3) mgl32.Vec3
}

// Projection is the projection kind.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Spherical coordinate limits.
const (
	MinRadius = 1.0
	PhiMargin = 0.1
	// degenerateRadius is the eye-center distance below which angles are reset.
	degenerateRadius = 1e-5
)

// Camera looks from an eye point at a center point. The eye is also kept as
// spherical coordinates (theta around Y, phi from +Y, radius) about the center.
type Camera struct {
	eye, center, up mgl32.Vec3

	theta  float32
	phi    float32
	radius float32

	projType Projection
	fovDeg   float32
	aspect   float32
	near     float32
	far      float32

	view     mgl32.Mat4
	proj     mgl32.Mat4
	viewProj mgl32.Mat4

	viewDirty bool
	vpDirty   bool

	mover Mover

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
	MoveSpeed       float32
}

// New creates a perspective camera at eye looking at center.
func New(eye, center mgl32.Vec3) *Camera {
	c := &Camera{
		up:              mgl32.Vec3{0, 1, 0},
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.2,
		MoveSpeed:       0.05,
	}
	c.SetPerspective(45, 1, 1, 100)
	c.UpdateViewCenter(eye, center)
	return c
}

// SetMover installs the collision resolver used for eye movement.
// A nil mover leaves movement unconstrained.
func (c *Camera) SetMover(m Mover) {
	c.mover = m
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl32.Vec3 { return c.eye }

// Center returns the point the camera looks at.
func (c *Camera) Center() mgl32.Vec3 { return c.center }

// Up returns the up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// Theta returns the azimuth in radians.
func (c *Camera) Theta() float32 { return c.theta }

// Phi returns the polar angle from +Y in radians.
func (c *Camera) Phi() float32 { return c.phi }

// Radius returns the eye-center distance.
func (c *Camera) Radius() float32 { return c.radius }

// UpdateViewCenter sets eye and center and derives the spherical coordinates.
func (c *Camera) UpdateViewCenter(eye, center mgl32.Vec3) {
	c.eye = eye
	c.center = center
	c.syncSpherical()
	c.viewDirty = true
}

// UpdateView moves the eye, keeping the center.
func (c *Camera) UpdateView(eye mgl32.Vec3) {
	c.UpdateViewCenter(eye, c.center)
}

// UpdateCenter moves the center, keeping the eye.
func (c *Camera) UpdateCenter(center mgl32.Vec3) {
	c.UpdateViewCenter(c.eye, center)
}

// syncSpherical derives theta, phi and radius from eye and center.
// If clamping changes them the eye is moved back onto the sphere.
func (c *Camera) syncSpherical() {
	offset := c.eye.Sub(c.center)
	c.radius = offset.Len()

	if c.radius < degenerateRadius {
		c.radius = 1
		c.theta = 0
		c.phi = math32.Pi / 2
		c.eye = c.sphericalEye()
		return
	}

	c.theta = math32.Atan2(offset.Z(), offset.X())
	c.phi = math32.Acos(mgl32.Clamp(offset.Y()/c.radius, -1, 1))

	clamped := false
	if c.radius < MinRadius {
		c.radius = MinRadius
		clamped = true
	}
	if p := clampPhi(c.phi); p != c.phi {
		c.phi = p
		clamped = true
	}
	if clamped {
		c.eye = c.sphericalEye()
	}
}

func clampPhi(phi float32) float32 {
	return mgl32.Clamp(phi, PhiMargin, math32.Pi-PhiMargin)
}

// sphericalEye converts the current spherical coordinates to a world position.
func (c *Camera) sphericalEye() mgl32.Vec3 {
	return sphericalToCartesian(c.center, c.radius, c.theta, c.phi)
}

func sphericalToCartesian(center mgl32.Vec3, r, theta, phi float32) mgl32.Vec3 {
	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		center.X() + r*sinPhi*math32.Cos(theta),
		center.Y() + r*math32.Cos(phi),
		center.Z() + r*sinPhi*math32.Sin(theta),
	}
}

// moveEye applies desired to the eye through the mover and returns the
// displacement actually applied.
func (c *Camera) moveEye(desired mgl32.Vec3) mgl32.Vec3 {
	safe := desired
	if c.mover != nil {
		safe = c.mover.SafeMovement(desired, c.eye)
	}
	c.eye = c.eye.Add(safe)
	return safe
}

// Orbit rotates the eye about the center by a mouse delta in pixels.
// phi is kept away from the poles. A move blocked by the mover leaves the
// eye where the mover allowed and re-derives the angles from it.
func (c *Camera) Orbit(dx, dy float32) {
	theta := c.theta + dx*c.DragSensitivity
	phi := clampPhi(c.phi - dy*c.DragSensitivity)

	target := sphericalToCartesian(c.center, c.radius, theta, phi)
	desired := target.Sub(c.eye)
	applied := c.moveEye(desired)

	if applied == desired {
		c.eye = target
		c.theta, c.phi = theta, phi
	} else {
		c.syncSpherical()
	}
	c.viewDirty = true
}

// UpdateRadius changes the eye-center distance by delta. The move is routed
// through the mover and the radius recomputed from where the eye ends up.
func (c *Camera) UpdateRadius(delta float32) {
	radius := c.radius + delta
	if radius < MinRadius {
		radius = MinRadius
	}

	target := sphericalToCartesian(c.center, radius, c.theta, c.phi)
	c.moveEye(target.Sub(c.eye))

	c.radius = c.eye.Sub(c.center).Len()
	if c.radius < MinRadius {
		c.radius = MinRadius
		c.eye = c.sphericalEye()
	}
	c.viewDirty = true
}

// Zoom applies a scroll wheel offset. Scrolling up moves the eye closer.
func (c *Camera) Zoom(scroll float32) {
	c.UpdateRadius(-scroll * c.ZoomSensitivity)
}

// Move translates eye and center together by the collision-safe part of delta
// and returns what was applied.
func (c *Camera) Move(delta mgl32.Vec3) mgl32.Vec3 {
	applied := c.moveEye(delta)
	c.center = c.center.Add(applied)
	c.viewDirty = true
	return applied
}

// MoveForward moves along the view direction by steps * MoveSpeed.
func (c *Camera) MoveForward(steps float32) mgl32.Vec3 {
	return c.Move(c.Forward().Mul(steps * c.MoveSpeed))
}

// MoveRight strafes along the right vector by steps * MoveSpeed.
func (c *Camera) MoveRight(steps float32) mgl32.Vec3 {
	return c.Move(c.Right().Mul(steps * c.MoveSpeed))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	f := c.center.Sub(c.eye)
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// Right returns the unit right vector.
func (c *Camera) Right() mgl32.Vec3 {
	r := c.Forward().Cross(c.up)
	if r.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return r.Normalize()
}

// CameraUp returns the unit up vector of the view basis.
func (c *Camera) CameraUp() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

// SetPerspective switches to a perspective projection. fovDeg is vertical.
func (c *Camera) SetPerspective(fovDeg, aspect, near, far float32) {
	c.projType = Perspective
	c.fovDeg, c.aspect, c.near, c.far = fovDeg, aspect, near, far
	c.proj = mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
	c.vpDirty = true
}

// SetOrthographic switches to an orthographic projection.
func (c *Camera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.projType = Orthographic
	c.near, c.far = near, far
	c.proj = mgl32.Ortho(left, right, bottom, top, near, far)
	c.vpDirty = true
}

// Projection returns the active projection kind.
func (c *Camera) Projection() Projection { return c.projType }

// FOV returns the vertical field of view of the last perspective projection.
func (c *Camera) FOV() float32 { return c.fovDeg }

// ViewMatrix returns the look-at matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.viewDirty {
		c.view = mgl32.LookAtV(c.eye, c.center, c.up)
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.view
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.proj
}

// ViewProjection returns projection * view, recomputed only after changes.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	view := c.ViewMatrix()
	if c.vpDirty {
		c.viewProj = c.proj.Mul4(view)
		c.vpDirty = false
	}
	return c.viewProj
}
