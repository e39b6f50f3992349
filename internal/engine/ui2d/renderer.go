// Package ui2d provides a simple 2D UI rendering layer using OpenGL.
// Coordinates are window pixels with the origin at the bottom-left corner.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/shader"
)

// Renderer handles 2D UI rendering with OpenGL.
type Renderer struct {
	screenWidth  int
	screenHeight int

	program *shader.Program
	vao     uint32
	vbo     uint32

	batch Batch
}

// New creates a new 2D UI renderer.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
	}
	r.batch.vertices = make([]float32, 0, 1024)

	var err error
	r.program, err = shader.NewProgram("ui", shader.UI)
	if err != nil {
		return nil, fmt.Errorf("create ui shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)

	gl.BindVertexArray(0)
	return r, nil
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Batch returns the draw list for the current frame.
func (r *Renderer) Batch() *Batch {
	return &r.batch
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.batch.Reset()
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(rect Rect, color Color) {
	r.batch.Rect(rect, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(rect Rect, thickness float32, color Color) {
	r.batch.Outline(rect, thickness, color)
}

// End renders all queued quads on top of the scene.
func (r *Renderer) End() {
	if r.batch.VertexCount() == 0 {
		return
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := mgl32.Ortho(0, float32(r.screenWidth), 0, float32(r.screenHeight), -1, 1)

	r.program.Use()
	r.program.SetMat4(shader.ProjectionUniform, proj)

	verts := r.batch.Vertices()
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(r.batch.VertexCount()))

	gl.BindVertexArray(0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}
