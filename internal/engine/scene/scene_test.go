package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/model"
)

func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}

// recordingProgram stores the last value written to each uniform.
type recordingProgram struct {
	ints  map[string]int32
	vec3s map[string]mgl32.Vec3
	vec4s map[string]mgl32.Vec4
	mat4s map[string]mgl32.Mat4
}

func newRecordingProgram() *recordingProgram {
	return &recordingProgram{
		ints:  make(map[string]int32),
		vec3s: make(map[string]mgl32.Vec3),
		vec4s: make(map[string]mgl32.Vec4),
		mat4s: make(map[string]mgl32.Mat4),
	}
}

func (p *recordingProgram) SetInt(name string, v int32)       { p.ints[name] = v }
func (p *recordingProgram) SetFloat(string, float32)          {}
func (p *recordingProgram) SetVec3(name string, v mgl32.Vec3) { p.vec3s[name] = v }
func (p *recordingProgram) SetVec4(name string, v mgl32.Vec4) { p.vec4s[name] = v }
func (p *recordingProgram) SetMat3(string, mgl32.Mat3)        {}
func (p *recordingProgram) SetMat4(name string, m mgl32.Mat4) { p.mat4s[name] = m }

type mapSource map[string]string

func (m mapSource) Load(name string) ([]byte, error) {
	s, ok := m[name]
	if !ok {
		return nil, errors.New("not found: " + name)
	}
	return []byte(s), nil
}

const unitCube = `v -0.5 0 -0.5
v 0.5 0 -0.5
v 0.5 1 -0.5
v -0.5 1 -0.5
v -0.5 0 0.5
v 0.5 0 0.5
v 0.5 1 0.5
v -0.5 1 0.5
f 1 2 3 4
f 5 6 7 8
f 1 2 6 5
f 4 3 7 8
`

func newScene(t *testing.T, cfg *config.Config, layout *Layout) *Scene {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	s, err := New(cfg, layout)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	return s
}

func TestNewDefaultScene(t *testing.T) {
	s := newScene(t, nil, nil)

	if s.Lights().Len() != 5 {
		t.Fatalf("expected 5 lights, got %d", s.Lights().Len())
	}
	key := s.KeyLight()
	if key.Name != "key" || key.Position() != (mgl32.Vec3{3.5, 5.5, 0}) {
		t.Errorf("unexpected key light %s at %v", key.Name, key.Position())
	}
	if key.Attenuation() != lighting.DefaultAttenuation() {
		t.Errorf("unexpected key attenuation %+v", key.Attenuation())
	}
	for i := 2; i < 5; i++ {
		if s.Lights().At(i).Kind() != lighting.Spot {
			t.Errorf("slot %d: expected spot light", i)
		}
	}
	if d := s.Lights().At(3).Direction(); !near(d, mgl32.Vec3{0, -1, 0}) {
		t.Errorf("expected north spot aimed down, got %v", d)
	}
	if s.Collision().WallCount() != 6 {
		t.Errorf("expected 6 walls, got %d", s.Collision().WallCount())
	}
	if s.Camera().Eye() != (mgl32.Vec3{5, 5, 5}) {
		t.Errorf("unexpected eye %v", s.Camera().Eye())
	}
}

func TestNewDropsLightsOverCapacity(t *testing.T) {
	cfg := config.Default()
	cfg.Lighting.MaxLights = 2

	s := newScene(t, cfg, nil)
	if s.Lights().Len() != 2 {
		t.Errorf("expected 2 lights, got %d", s.Lights().Len())
	}
	if s.Lights().At(1).Name != "ceiling" {
		t.Errorf("expected first lights kept, got %s", s.Lights().At(1).Name)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg := config.Default()
	cfg.Lighting.DirectionMode = "sideways"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown direction mode")
	}

	bad := &Layout{Lights: []LightLayout{{Name: "x", Type: "laser"}}}
	if _, err := New(config.Default(), bad); err == nil {
		t.Error("expected error for invalid layout")
	}
}

func TestLazyDirectionMode(t *testing.T) {
	cfg := config.Default()
	cfg.Lighting.DirectionMode = "lazy"
	s := newScene(t, cfg, nil)

	spot := s.Lights().At(2)
	if spot.DirectionMode() != lighting.DirectionLazy {
		t.Errorf("expected lazy mode, got %v", spot.DirectionMode())
	}
	want := mgl32.Vec3{-3.8, 0, 3.8}.Sub(mgl32.Vec3{-4, 10, 4}).Normalize()
	if !near(spot.Direction(), want) {
		t.Errorf("expected %v, got %v", want, spot.Direction())
	}
}

func TestToggleLight(t *testing.T) {
	s := newScene(t, nil, nil)

	if s.ToggleLight(1) {
		t.Error("expected slot 1 off after toggle")
	}
	if s.Lights().At(1).IsLightOn() {
		t.Error("light 1 still on")
	}
	if !s.ToggleLight(1) {
		t.Error("expected slot 1 back on")
	}
	if s.ToggleLight(42) {
		t.Error("out-of-range toggle should report false")
	}
	if s.Lights().Len() != 5 {
		t.Error("toggling changed the light set")
	}
}

func TestCycleKeyDiffuse(t *testing.T) {
	s := newScene(t, nil, nil)
	key := s.KeyLight()

	s.CycleKeyDiffuse(0)
	if got := key.Diffuse()[0]; got < 0.849 || got > 0.851 {
		t.Errorf("expected red 0.85, got %f", got)
	}
	s.CycleKeyDiffuse(0)
	if got := key.Diffuse()[0]; got != 0 {
		t.Errorf("expected red to wrap to 0, got %f", got)
	}
	if key.Diffuse()[1] != 0.6 {
		t.Errorf("green changed to %f", key.Diffuse()[1])
	}
	s.CycleKeyDiffuse(5)
}

func TestToggleKeyLightMotion(t *testing.T) {
	s := newScene(t, nil, nil)
	s.ToggleKeyLightMotion()

	s.Update(1)
	if !near(s.KeyLight().Position(), mgl32.Vec3{0, 5.5, -3.5}) {
		t.Errorf("expected key light a quarter turn round, got %v", s.KeyLight().Position())
	}
	if s.Lights().At(1).Position() != (mgl32.Vec3{0, 10, 0}) {
		t.Error("ceiling light moved")
	}
}

func TestUploadFrame(t *testing.T) {
	s := newScene(t, nil, nil)
	s.ToggleLight(0)

	p := newRecordingProgram()
	s.UploadFrame(p)

	if p.ints[lighting.NumLightsUniform] != 5 {
		t.Errorf("expected 5 lights uploaded, got %d", p.ints[lighting.NumLightsUniform])
	}
	if p.vec3s["uLight.position"] != (mgl32.Vec3{3.5, 5.5, 0}) {
		t.Errorf("unexpected key light position %v", p.vec3s["uLight.position"])
	}
	if p.vec4s["uLight.diffuse"] != (mgl32.Vec4{}) {
		t.Errorf("expected disabled key light to upload zero diffuse, got %v", p.vec4s["uLight.diffuse"])
	}
	if p.mat4s["uViewProj"] != s.Camera().ViewProjection() {
		t.Error("unexpected view-projection")
	}
	if p.vec3s["uViewPos"] != s.Camera().Eye() {
		t.Error("unexpected view position")
	}
	if p.vec3s["uGlobalAmbient"] != s.GlobalAmbient() {
		t.Error("unexpected global ambient")
	}
}

func TestLightMarkersFollowState(t *testing.T) {
	s := newScene(t, nil, nil)
	s.ToggleLight(2)

	markers := s.LightMarkers()
	if len(markers) != 5 {
		t.Fatalf("expected 5 markers, got %d", len(markers))
	}
	if markers[2].Color != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("expected dark marker for disabled light, got %v", markers[2].Color)
	}
	if markers[1].Color != (mgl32.Vec4{0.8, 0.8, 0.8, 1}) {
		t.Errorf("unexpected marker color %v", markers[1].Color)
	}

	if got := len(s.Wireframes(true)); got != 5+6+1 {
		t.Errorf("expected markers, walls and the obstacle outline, got %d", got)
	}
}

func TestLoadModels(t *testing.T) {
	layout := DefaultLayout()
	layout.Models = []ModelLayout{
		{Name: "crate", Path: "models/cube.obj", Position: [3]float32{3, 1.5, 0}, Obstacle: true},
		{Name: "ghost", Path: "models/missing.obj"},
		{Name: "pet", Path: "models/cube.obj", Obstacle: true, Follow: &FollowLayout{Offset: [3]float32{0, -1, 2}}},
	}
	s := newScene(t, nil, layout)

	n := s.LoadModels(mapSource{"models/cube.obj": unitCube})
	if n != 2 {
		t.Fatalf("expected 2 models loaded, got %d", n)
	}
	if s.Collision().ObstacleCount() != 1 {
		t.Errorf("expected only the static crate as obstacle, got %d", s.Collision().ObstacleCount())
	}
	box := s.Collision().Obstacles()[0]
	if !near(box.Min, mgl32.Vec3{2.5, 1.5, -0.5}) || !near(box.Max, mgl32.Vec3{3.5, 2.5, 0.5}) {
		t.Errorf("unexpected obstacle %+v", box)
	}
	if pet := instanceNamed(s, "pet"); pet == nil || !pet.Following() {
		t.Error("expected pet to follow the camera")
	}
}

func instanceNamed(s *Scene, name string) *model.Instance {
	for _, in := range s.Instances() {
		if in.Name == name {
			return in
		}
	}
	return nil
}

func TestDefaultSceneHasShadedGeometry(t *testing.T) {
	s := newScene(t, nil, nil)

	floor, ball := instanceNamed(s, "floor"), instanceNamed(s, "ball")
	if floor == nil || ball == nil {
		t.Fatalf("expected floor and ball instances, got %d instances", len(s.Instances()))
	}
	if floor.Mesh == nil || floor.Mesh.TriangleCount() == 0 || ball.Mesh == nil || ball.Mesh.TriangleCount() == 0 {
		t.Fatal("expected generated meshes with triangles")
	}
	if floor.Transform.Position != (mgl32.Vec3{0, 1.5, 0}) {
		t.Errorf("expected floor on the room floor, got %v", floor.Transform.Position)
	}
	if floor.Obstacle || !ball.Obstacle {
		t.Errorf("expected only the ball to collide, floor=%v ball=%v", floor.Obstacle, ball.Obstacle)
	}
	if s.Collision().ObstacleCount() != 0 || s.Collision().SphereObstacleCount() != 1 {
		t.Errorf("expected one sphere obstacle, got %d boxes and %d spheres",
			s.Collision().ObstacleCount(), s.Collision().SphereObstacleCount())
	}
	if !s.Collision().CheckCameraCollision(mgl32.Vec3{-2, 2.5, 2}) {
		t.Error("expected the ball center to collide")
	}

	drawers := make([]Drawer, len(s.Instances()))
	d := &countingDrawer{}
	for i := range drawers {
		drawers[i] = d
	}
	s.DrawModels(newRecordingProgram(), drawers)
	if d.calls != len(s.Instances()) {
		t.Errorf("expected %d draws, got %d", len(s.Instances()), d.calls)
	}
}

func TestLayoutSphereObstaclesAndIntensity(t *testing.T) {
	layout := DefaultLayout()
	layout.Primitives = nil
	half := float32(0.5)
	layout.Lights[1].Intensity = &half
	layout.SphereObstacles = []SphereLayout{{Center: [3]float32{0, 5, 0}, Radius: 1}}
	s := newScene(t, nil, layout)

	if s.Collision().SphereObstacleCount() != 1 {
		t.Fatalf("expected 1 sphere obstacle, got %d", s.Collision().SphereObstacleCount())
	}
	if !s.Collision().CheckCameraCollision(mgl32.Vec3{0, 5.5, 0}) {
		t.Error("expected collision inside the sphere obstacle")
	}
	if len(s.Instances()) != 0 {
		t.Errorf("sphere obstacles should not be drawn, got %d instances", len(s.Instances()))
	}

	ceiling := s.Lights().At(1)
	if ceiling.Intensity() != 0.5 || !near(ceiling.Diffuse().Vec3(), mgl32.Vec3{0.4, 0.4, 0.4}) {
		t.Errorf("expected halved ceiling light, got intensity %f diffuse %v", ceiling.Intensity(), ceiling.Diffuse())
	}
}

func TestCameraStopsAtObstacle(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Eye = [3]float32{0, 2, 0}
	cfg.Camera.Center = [3]float32{5, 2, 0}
	layout := DefaultLayout()
	layout.Models = []ModelLayout{
		{Name: "crate", Path: "cube.obj", Position: [3]float32{3, 1.5, 0}, Obstacle: true},
	}
	s := newScene(t, cfg, layout)
	s.LoadModels(mapSource{"cube.obj": unitCube})

	cam := s.Camera()
	for i := 0; i < 200; i++ {
		cam.MoveForward(1)
	}
	if cam.Eye().X() > 2.5 {
		t.Errorf("camera passed into the crate: %v", cam.Eye())
	}
	if s.Collision().CheckCameraCollision(cam.Eye()) {
		t.Errorf("camera ended colliding at %v", cam.Eye())
	}
}

func TestSweptMoveDoesNotTunnel(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Eye = [3]float32{0, 10.1, 0}
	cfg.Camera.Center = [3]float32{1, 10.1, 0}
	s := newScene(t, cfg, nil)

	applied := s.Camera().Move(mgl32.Vec3{20, 0, 0})
	eye := s.Camera().Eye()
	if eye.X() >= 8.6 {
		t.Errorf("camera tunneled through the right wall: %v", eye)
	}
	if applied.X() <= 0 {
		t.Errorf("expected camera to advance toward the wall, got %v", applied)
	}
}

type countingDrawer struct {
	calls  int
	models []mgl32.Mat4
}

func (d *countingDrawer) Draw(_ model.Program, m mgl32.Mat4, _ mgl32.Mat3) {
	d.calls++
	d.models = append(d.models, m)
}

func TestDrawModelsSkipsNil(t *testing.T) {
	layout := DefaultLayout()
	layout.Primitives = nil
	s := newScene(t, nil, layout)
	a := model.NewInstance("a", nil, model.NewTransform(mgl32.Vec3{1, 0, 0}))
	b := model.NewInstance("b", nil, model.NewTransform(mgl32.Vec3{2, 0, 0}))
	s.AddInstance(a, false)
	s.AddInstance(b, false)

	d := &countingDrawer{}
	s.DrawModels(newRecordingProgram(), []Drawer{nil, d})

	if d.calls != 1 {
		t.Fatalf("expected 1 draw, got %d", d.calls)
	}
	if d.models[0] != mgl32.Translate3D(2, 0, 0) {
		t.Errorf("unexpected model matrix %v", d.models[0])
	}

	s.DrawModels(newRecordingProgram(), nil)
}
