package collision

import "github.com/go-gl/mathgl/mgl32"

// WallVisual is the debug-draw description of one wall.
type WallVisual struct {
	Name   string
	Center mgl32.Vec3
	Size   mgl32.Vec3
	Color  mgl32.Vec4
}

var (
	colorXWall = mgl32.Vec4{1, 0, 0, 1}
	colorZWall = mgl32.Vec4{0, 1, 0, 1}
	colorYWall = mgl32.Vec4{0, 0, 1, 1}
)

// WallGeometry returns center, size and color per wall for debug rendering.
// Side walls on X are red, on Z green, floor and ceiling blue.
func (m *Manager) WallGeometry() []WallVisual {
	out := make([]WallVisual, 0, len(m.walls))
	for i, w := range m.walls {
		color := colorYWall
		switch i {
		case WallLeft, WallRight:
			color = colorXWall
		case WallFront, WallBack:
			color = colorZWall
		}
		out = append(out, WallVisual{
			Name:   WallName(i),
			Center: w.Center(),
			Size:   w.Size(),
			Color:  color,
		})
	}
	return out
}
