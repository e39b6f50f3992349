package model

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/engine/texture"
	"github.com/Faultbox/roomview/internal/logger"
)

// Textures hands out GPU textures by path. *texture.Pool implements it.
type Textures interface {
	Get(name string, mipmap bool) (texture.Data, error)
}

// DrawGroup is one material run as it is drawn.
type DrawGroup struct {
	Material   lighting.Material
	Texture    uint32 // 0 when the material has no usable diffuse map
	StartIndex int32
	IndexCount int32
}

// ResolveGroups pairs each material group with its shading coefficients and
// diffuse texture. A texture that fails to load is left unset; the pool
// reports the failure once.
func ResolveGroups(mesh *Mesh, textures Textures) []DrawGroup {
	out := make([]DrawGroup, len(mesh.Groups))
	for i, g := range mesh.Groups {
		out[i] = DrawGroup{
			Material:   MaterialFromOBJ(g.Material),
			StartIndex: g.StartIndex,
			IndexCount: g.IndexCount,
		}
		if g.Material.DiffuseMap == "" || textures == nil {
			continue
		}
		tex, err := textures.Get(g.Material.DiffuseMap, true)
		if err != nil {
			logger.Debug("diffuse map not loaded",
				zap.String("material", g.Material.Name),
				zap.String("path", g.Material.DiffuseMap),
				zap.Error(err))
			continue
		}
		out[i].Texture = tex.ID
	}
	return out
}

// GPUMesh is a mesh resident in GL buffers.
type GPUMesh struct {
	vao, vbo, ebo uint32
	groups        []DrawGroup
}

// Upload creates GL buffers for mesh. Requires a current GL context.
func Upload(mesh *Mesh, textures Textures) (*GPUMesh, error) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, errors.New("empty mesh")
	}

	g := &GPUMesh{groups: ResolveGroups(mesh, textures)}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g, nil
}

// Draw renders every material group with the given model matrix. The caller
// has already bound prog and uploaded lights and camera uniforms.
func (g *GPUMesh) Draw(prog Program, model mgl32.Mat4, normal mgl32.Mat3) {
	prog.SetMat4(shader.ModelUniform, model)
	prog.SetMat3(shader.NormalMatrixUniform, normal)
	prog.SetInt(shader.DiffuseMapUniform, 0)

	gl.BindVertexArray(g.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	for _, group := range g.groups {
		lighting.UploadMaterial(prog, group.Material)
		if group.Texture != 0 {
			prog.SetInt(shader.HasTextureUniform, 1)
			gl.BindTexture(gl.TEXTURE_2D, group.Texture)
		} else {
			prog.SetInt(shader.HasTextureUniform, 0)
			gl.BindTexture(gl.TEXTURE_2D, 0)
		}
		gl.DrawElementsWithOffset(gl.TRIANGLES, group.IndexCount, gl.UNSIGNED_INT, uintptr(group.StartIndex*4))
	}
	gl.BindVertexArray(0)
}

// Delete releases the GL buffers. Textures belong to the pool.
func (g *GPUMesh) Delete() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	g.vao, g.vbo, g.ebo = 0, 0, 0
}
