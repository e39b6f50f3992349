// Package model builds renderable meshes from OBJ data and moves placed
// model instances around the room.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/assets/obj"
	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/engine/lighting"
)

// Vertex is the GPU vertex layout: position, normal, texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// vertexSize is the byte stride of Vertex.
const vertexSize = 8 * 4

// MaterialGroup is a run of indices drawn with one material.
type MaterialGroup struct {
	Material   obj.Material
	StartIndex int32
	IndexCount int32
}

// Mesh holds indexed mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []MaterialGroup
	Bounds   bounds.AABB
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// ReverseWinding flips triangle order, for mirrored models.
	ReverseWinding bool
	// SmoothNormals averages normals of vertices sharing a position.
	SmoothNormals bool
}

// Program is the subset of a shader program a model draw needs.
// *shader.Program implements it.
type Program interface {
	lighting.UniformSink
	SetMat3(name string, m mgl32.Mat3)
	SetMat4(name string, m mgl32.Mat4)
}

// MaterialFromOBJ converts MTL coefficients to shading coefficients.
func MaterialFromOBJ(m obj.Material) lighting.Material {
	shininess := m.Shininess
	if shininess < 1 {
		shininess = 1
	}
	return lighting.Material{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Shininess: shininess,
	}
}
