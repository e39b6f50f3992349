// Package bounds provides bounding volume primitives used for collision tests.
package bounds

import "github.com/go-gl/mathgl/mgl32"

// AABB is an axis-aligned bounding box. Min <= Max on every axis.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates a box from two corners, sorting components so Min <= Max.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// FromCenterSize creates a box centered at center with the given full extents.
func FromCenterSize(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return NewAABB(center.Sub(half), center.Add(half))
}

// Intersects reports whether two boxes overlap on all three axes.
// Touching faces count as overlapping.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Min.Y() <= other.Max.Y() && b.Max.Y() >= other.Min.Y() &&
		b.Min.Z() <= other.Max.Z() && b.Max.Z() >= other.Min.Z()
}

// Contains reports whether p lies within [Min, Max] on every axis.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Translate returns the box moved by offset.
func (b AABB) Translate(offset mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the full extents of the box.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// ClosestPoint clamps p into the box.
func (b AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl32.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		mgl32.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// Transform returns the box enclosing all eight corners of b transformed by m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	var out AABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		p := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		for k := 0; k < 3; k++ {
			if p[k] < out.Min[k] {
				out.Min[k] = p[k]
			}
			if p[k] > out.Max[k] {
				out.Max[k] = p[k]
			}
		}
	}
	return out
}

// Sphere is a bounding sphere with a positive radius.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Intersects reports whether two spheres overlap.
// Spheres that exactly touch do not intersect.
func (s Sphere) Intersects(other Sphere) bool {
	return s.Center.Sub(other.Center).Len() < s.Radius+other.Radius
}

// IntersectsAABB reports whether the sphere overlaps the box.
// The closest point of the box to the center must be strictly closer than the
// radius, so a sphere resting on a face is not colliding.
func (s Sphere) IntersectsAABB(box AABB) bool {
	closest := box.ClosestPoint(s.Center)
	return s.Center.Sub(closest).Len() < s.Radius
}
