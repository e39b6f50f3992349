package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/assets/obj"
	"github.com/Faultbox/roomview/internal/engine/bounds"
)

// Plane builds a square of side size in the XZ plane, centered on the origin
// and facing +Y. It is split into divisions x divisions tiles, each with
// texture coordinates spanning one repeat.
func Plane(size float32, divisions int, mat obj.Material) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float32(divisions)
	up := mgl32.Vec3{0, 1, 0}

	g := obj.Group{Material: mat.Name}
	for i := 0; i < divisions; i++ {
		for j := 0; j < divisions; j++ {
			x0, z0 := -half+float32(i)*step, -half+float32(j)*step
			x1, z1 := x0+step, z0+step
			a := obj.Vertex{Position: mgl32.Vec3{x0, 0, z0}, Normal: up, TexCoord: mgl32.Vec2{0, 1}}
			b := obj.Vertex{Position: mgl32.Vec3{x0, 0, z1}, Normal: up, TexCoord: mgl32.Vec2{0, 0}}
			c := obj.Vertex{Position: mgl32.Vec3{x1, 0, z1}, Normal: up, TexCoord: mgl32.Vec2{1, 0}}
			d := obj.Vertex{Position: mgl32.Vec3{x1, 0, z0}, Normal: up, TexCoord: mgl32.Vec2{1, 1}}
			g.Vertices = append(g.Vertices, a, b, c, a, c, d)
		}
	}

	return BuildMesh(primitive(g, mat, bounds.NewAABB(
		mgl32.Vec3{-half, 0, -half},
		mgl32.Vec3{half, 0, half},
	)), BuildOptions{})
}

// Sphere builds a UV sphere of the given radius around the origin with
// outward normals. stacks runs pole to pole, slices around Y.
func Sphere(radius float32, slices, stacks int, mat obj.Material) *Mesh {
	slices = max(slices, 3)
	stacks = max(stacks, 2)

	at := func(i, j int) obj.Vertex {
		phi := math32.Pi * float32(i) / float32(stacks)
		theta := 2 * math32.Pi * float32(j) / float32(slices)
		n := mgl32.Vec3{
			math32.Sin(phi) * math32.Cos(theta),
			math32.Cos(phi),
			math32.Sin(phi) * math32.Sin(theta),
		}
		return obj.Vertex{
			Position: n.Mul(radius),
			Normal:   n,
			TexCoord: mgl32.Vec2{float32(j) / float32(slices), 1 - float32(i)/float32(stacks)},
		}
	}

	g := obj.Group{Material: mat.Name}
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			v1, v2, v3, v4 := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			// The pole rows collapse one triangle of each quad.
			if i < stacks-1 {
				g.Vertices = append(g.Vertices, v1, v3, v2)
			}
			if i > 0 {
				g.Vertices = append(g.Vertices, v1, v4, v3)
			}
		}
	}

	r := mgl32.Vec3{radius, radius, radius}
	return BuildMesh(primitive(g, mat, bounds.AABB{Min: r.Mul(-1), Max: r}), BuildOptions{})
}

func primitive(g obj.Group, mat obj.Material, box bounds.AABB) *obj.Mesh {
	return &obj.Mesh{
		Groups:    []obj.Group{g},
		Materials: map[string]obj.Material{mat.Name: mat},
		Bounds:    box,
	}
}
