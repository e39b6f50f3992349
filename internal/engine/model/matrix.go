package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/bounds"
)

// Transform places a model: scale, then rotate about Y, then translate.
type Transform struct {
	Position mgl32.Vec3
	Yaw      float32 // radians about +Y
	Scale    mgl32.Vec3
}

// NewTransform returns a transform at pos with unit scale.
func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{Position: pos, Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns the model matrix T * Ry * S.
func (t Transform) Matrix() mgl32.Mat4 {
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Yaw)).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of Matrix.
func (t Transform) NormalMatrix() mgl32.Mat3 {
	m := t.Matrix().Mat3()
	if m.Det() == 0 {
		return mgl32.Ident3()
	}
	return m.Inv().Transpose()
}

// Mirrored reports whether the scale flips handedness.
func (t Transform) Mirrored() bool {
	return t.Scale.X()*t.Scale.Y()*t.Scale.Z() < 0
}

// WorldBounds returns local transformed into world space.
func (t Transform) WorldBounds(local bounds.AABB) bounds.AABB {
	return local.Transform(t.Matrix())
}
