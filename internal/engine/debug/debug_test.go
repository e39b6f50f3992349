package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/engine/collision"
)

func TestBoxVertices(t *testing.T) {
	box := bounds.AABB{Min: mgl32.Vec3{-1, 0, -2}, Max: mgl32.Vec3{1, 3, 2}}
	v := BoxVertices(box)
	if len(v) != BBoxWireframeVertexCount*3 {
		t.Fatalf("expected %d floats, got %d", BBoxWireframeVertexCount*3, len(v))
	}
	for i := 0; i < len(v); i += 3 {
		p := mgl32.Vec3{v[i], v[i+1], v[i+2]}
		if !box.Contains(p) {
			t.Errorf("vertex %v outside box", p)
		}
		for a := 0; a < 3; a++ {
			if p[a] != box.Min[a] && p[a] != box.Max[a] {
				t.Errorf("vertex %v is not a corner", p)
			}
		}
	}
}

func TestWallWireframesUseWallColors(t *testing.T) {
	m := collision.NewManager(collision.DefaultConfig())
	frames := CollisionWireframes(m)
	walls := m.WallGeometry()

	if len(frames) != len(walls) {
		t.Fatalf("expected %d frames without obstacles, got %d", len(walls), len(frames))
	}
	for i, f := range frames {
		if f.Color != walls[i].Color {
			t.Errorf("wall %s: expected color %v, got %v", walls[i].Name, walls[i].Color, f.Color)
		}
	}

	m.AddObstacle(bounds.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}})
	m.AddObstacle(bounds.AABB{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{3, 1, 1}})
	frames = CollisionWireframes(m)
	last := frames[len(frames)-1]
	if last.Color != ObstacleColor {
		t.Errorf("expected obstacle color, got %v", last.Color)
	}
	if len(last.Vertices) != 2*BBoxWireframeVertexCount*3 {
		t.Errorf("expected two merged boxes, got %d floats", len(last.Vertices))
	}
	if last.Vertices[0] != -DefaultBBoxPadding {
		t.Errorf("expected padded min x, got %f", last.Vertices[0])
	}
}

func TestCollisionWireframesOutlineSpheres(t *testing.T) {
	m := collision.NewManager(collision.DefaultConfig())
	m.AddSphereObstacle(bounds.Sphere{Center: mgl32.Vec3{0, 2, 0}, Radius: 1})

	frames := CollisionWireframes(m)
	if len(frames) != m.WallCount()+1 {
		t.Fatalf("expected walls plus one obstacle outline, got %d", len(frames))
	}
	last := frames[len(frames)-1]
	if len(last.Vertices) != BBoxWireframeVertexCount*3 {
		t.Fatalf("expected one box, got %d floats", len(last.Vertices))
	}
	if want := float32(-1) - DefaultBBoxPadding; last.Vertices[0] != want {
		t.Errorf("expected box around the sphere starting at x %f, got %f", want, last.Vertices[0])
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(filepath.Join(dir, "shots"), "room")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	// 1x2 image, bottom row red, top row blue, as glReadPixels returns it.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "room_2024-05-01_12-00-00.png") {
		t.Errorf("unexpected path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if top.B != 255 || top.R != 0 {
		t.Errorf("expected blue top row, got %v", top)
	}

	second, err := sc.CaptureFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == path || !strings.HasSuffix(second, "_1.png") {
		t.Errorf("expected numbered second capture, got %s", second)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := sc.CaptureFromPixels(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}
