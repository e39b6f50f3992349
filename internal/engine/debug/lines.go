package debug

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/shader"
)

// LineRenderer draws wireframes with the flat line shader.
type LineRenderer struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
}

// NewLineRenderer compiles the line shader and creates its buffers.
func NewLineRenderer() (*LineRenderer, error) {
	prog, err := shader.NewProgram("line", shader.Line)
	if err != nil {
		return nil, fmt.Errorf("create line shader: %w", err)
	}
	r := &LineRenderer{program: prog}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
	return r, nil
}

// Draw renders each wireframe as GL_LINES.
func (r *LineRenderer) Draw(viewProj mgl32.Mat4, frames []Wireframe) {
	if len(frames) == 0 {
		return
	}
	r.program.Use()
	r.program.SetMat4(shader.ViewProjUniform, viewProj)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	for _, f := range frames {
		if len(f.Vertices) == 0 {
			continue
		}
		r.program.SetVec4(shader.ColorUniform, f.Color)
		gl.BufferData(gl.ARRAY_BUFFER, len(f.Vertices)*4, unsafe.Pointer(&f.Vertices[0]), gl.DYNAMIC_DRAW)
		gl.DrawArrays(gl.LINES, 0, int32(len(f.Vertices)/3))
	}
	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (r *LineRenderer) Close() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	r.program.Delete()
}
