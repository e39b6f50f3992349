package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/debug"
	"github.com/Faultbox/roomview/internal/engine/model"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/logger"
)

// ClearColor is the background.
var ClearColor = [4]float32{0.1, 0.1, 0.12, 1}

// Renderer draws a Scene with the phong program. It requires a current GL
// context for its whole lifetime.
type Renderer struct {
	phong   *shader.Program
	lines   *debug.LineRenderer
	meshes  []*model.GPUMesh
	drawers []Drawer

	ShowWalls bool
}

// NewRenderer compiles the scene shaders and uploads every instance mesh.
// An instance whose upload fails is logged and not drawn.
func NewRenderer(s *Scene, textures model.Textures) (*Renderer, error) {
	phong, err := shader.NewProgram("phong", shader.Phong)
	if err != nil {
		return nil, fmt.Errorf("phong shader: %w", err)
	}
	lines, err := debug.NewLineRenderer()
	if err != nil {
		phong.Delete()
		return nil, err
	}

	r := &Renderer{phong: phong, lines: lines}
	for _, in := range s.Instances() {
		gpu, err := model.Upload(in.Mesh, textures)
		if err != nil {
			logger.Warn("model upload failed", zap.String("model", in.Name), zap.Error(err))
			r.drawers = append(r.drawers, nil)
			continue
		}
		r.meshes = append(r.meshes, gpu)
		r.drawers = append(r.drawers, gpu)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	return r, nil
}

// Draw clears the frame and renders shaded models, then the light markers and
// optional wall wireframes.
func (r *Renderer) Draw(s *Scene) {
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	r.phong.Use()
	s.UploadFrame(r.phong)
	s.DrawModels(r.phong, r.drawers)

	r.lines.Draw(s.Camera().ViewProjection(), s.Wireframes(r.ShowWalls))
}

// Close releases GL resources.
func (r *Renderer) Close() {
	for _, m := range r.meshes {
		m.Delete()
	}
	r.lines.Close()
	r.phong.Delete()
}
