package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/assets/obj"
)

// BuildMesh converts a parsed OBJ into an indexed mesh. Identical corners are
// shared. Returns nil when src has no triangles.
func BuildMesh(src *obj.Mesh, opts BuildOptions) *Mesh {
	if src == nil || src.TriangleCount() == 0 {
		return nil
	}

	mesh := &Mesh{Bounds: src.Bounds}
	lookup := make(map[Vertex]uint32)

	for _, g := range src.Groups {
		start := int32(len(mesh.Indices))
		for i := 0; i+2 < len(g.Vertices); i += 3 {
			tri := [3]obj.Vertex{g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2]}
			if opts.ReverseWinding {
				tri[0], tri[2] = tri[2], tri[0]
			}
			for _, v := range tri {
				vert := toVertex(v)
				idx, ok := lookup[vert]
				if !ok {
					idx = uint32(len(mesh.Vertices))
					mesh.Vertices = append(mesh.Vertices, vert)
					lookup[vert] = idx
				}
				mesh.Indices = append(mesh.Indices, idx)
			}
		}
		count := int32(len(mesh.Indices)) - start
		if count == 0 {
			continue
		}
		mesh.Groups = append(mesh.Groups, MaterialGroup{
			Material:   src.Material(g.Material),
			StartIndex: start,
			IndexCount: count,
		})
	}

	if opts.SmoothNormals {
		smoothNormals(mesh.Vertices)
	}
	return mesh
}

func toVertex(v obj.Vertex) Vertex {
	return Vertex{
		Position: [3]float32(v.Position),
		Normal:   [3]float32(v.Normal),
		TexCoord: [2]float32(v.TexCoord),
	}
}

// smoothNormals averages normals for vertices at the same position.
func smoothNormals(vertices []Vertex) {
	posMap := make(map[[3]float32][]int)
	for i, v := range vertices {
		posMap[v.Position] = append(posMap[v.Position], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum mgl32.Vec3
		for _, idx := range idxs {
			sum = sum.Add(mgl32.Vec3(vertices[idx].Normal))
		}
		if sum.Len() < 1e-4 {
			continue
		}
		avg := [3]float32(sum.Normalize())

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
