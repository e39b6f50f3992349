// Package debug draws collision volumes and captures screenshots.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/engine/collision"
)

// BBoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding grows obstacle boxes so their outline does not z-fight
// with the model surface.
const DefaultBBoxPadding = 0.02

// Wireframe is a line list in one color. Vertices are x, y, z triples.
type Wireframe struct {
	Vertices []float32
	Color    mgl32.Vec4
}

// ObstacleColor is used for obstacle outlines.
var ObstacleColor = mgl32.Vec4{1, 1, 0, 1}

// BoxVertices returns the 12 edges of box as line vertices.
func BoxVertices(box bounds.AABB) []float32 {
	minX, minY, minZ := box.Min.X(), box.Min.Y(), box.Min.Z()
	maxX, maxY, maxZ := box.Max.X(), box.Max.Y(), box.Max.Z()
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// Pad grows box by padding on every side.
func Pad(box bounds.AABB, padding float32) bounds.AABB {
	p := mgl32.Vec3{padding, padding, padding}
	return bounds.AABB{Min: box.Min.Sub(p), Max: box.Max.Add(p)}
}

// WallWireframes outlines every wall in its debug color.
func WallWireframes(walls []collision.WallVisual) []Wireframe {
	out := make([]Wireframe, len(walls))
	for i, w := range walls {
		out[i] = Wireframe{
			Vertices: BoxVertices(bounds.FromCenterSize(w.Center, w.Size)),
			Color:    w.Color,
		}
	}
	return out
}

// ObstacleWireframes outlines obstacle boxes, all in one merged line list.
func ObstacleWireframes(boxes []bounds.AABB) Wireframe {
	wf := Wireframe{
		Vertices: make([]float32, 0, len(boxes)*BBoxWireframeVertexCount*3),
		Color:    ObstacleColor,
	}
	for _, b := range boxes {
		wf.Vertices = append(wf.Vertices, BoxVertices(Pad(b, DefaultBBoxPadding))...)
	}
	return wf
}

// CollisionWireframes returns outlines for every wall, and one merged
// outline of the box obstacles and the boxes around sphere obstacles.
func CollisionWireframes(m *collision.Manager) []Wireframe {
	out := WallWireframes(m.WallGeometry())
	boxes := m.Obstacles()
	for _, sp := range m.SphereObstacles() {
		d := 2 * sp.Radius
		boxes = append(boxes, bounds.FromCenterSize(sp.Center, mgl32.Vec3{d, d, d}))
	}
	if len(boxes) > 0 {
		out = append(out, ObstacleWireframes(boxes))
	}
	return out
}
