package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/assets/obj"
	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/engine/collision"
	"github.com/Faultbox/roomview/internal/engine/texture"
)

func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}

func nearf(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func parse(t *testing.T, src string) *obj.Mesh {
	t.Helper()
	m, err := obj.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

const cube = `v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
usemtl side
f 1 2 3 4
f 5 6 7 8
usemtl top
f 4 3 7 8
`

func TestBuildMeshSharesVertices(t *testing.T) {
	quad := parse(t, "v 0 0 0\nv 1 0 0\nv 1 0 1\nv 0 0 1\nvn 0 1 0\nf 1//1 2//1 3//1 4//1\n")
	m := BuildMesh(quad, BuildOptions{})
	if m == nil {
		t.Fatal("expected mesh")
	}
	if len(m.Vertices) != 4 {
		t.Errorf("expected 4 shared vertices, got %d", len(m.Vertices))
	}
	if len(m.Indices) != 6 || m.TriangleCount() != 2 {
		t.Errorf("expected 6 indices, got %d", len(m.Indices))
	}
	if m.Indices[0] != m.Indices[3] || m.Indices[2] != m.Indices[4] {
		t.Errorf("fan triangles do not share corners: %v", m.Indices)
	}
}

func TestBuildMeshGroups(t *testing.T) {
	src := parse(t, cube)
	src.Materials["top"] = obj.Material{Name: "top", Diffuse: mgl32.Vec3{1, 0, 0}, Shininess: 8}

	m := BuildMesh(src, BuildOptions{})
	if len(m.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(m.Groups))
	}
	side, top := m.Groups[0], m.Groups[1]
	if side.StartIndex != 0 || side.IndexCount != 12 {
		t.Errorf("unexpected side group %+v", side)
	}
	if top.StartIndex != 12 || top.IndexCount != 6 {
		t.Errorf("unexpected top group %+v", top)
	}
	if top.Material.Diffuse != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected red top, got %v", top.Material.Diffuse)
	}
	if side.Material.Diffuse != obj.DefaultMaterial("").Diffuse {
		t.Errorf("expected default side material, got %v", side.Material.Diffuse)
	}
	if m.Bounds.Min != (mgl32.Vec3{-1, -1, -1}) || m.Bounds.Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("unexpected bounds %+v", m.Bounds)
	}
}

func TestBuildMeshReverseWinding(t *testing.T) {
	tri := parse(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	fwd := BuildMesh(tri, BuildOptions{})
	rev := BuildMesh(tri, BuildOptions{ReverseWinding: true})

	if fwd.Vertices[fwd.Indices[0]].Position != rev.Vertices[rev.Indices[2]].Position {
		t.Error("expected first and last corners swapped")
	}
	if BuildMesh(nil, BuildOptions{}) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestSmoothNormals(t *testing.T) {
	// Two triangles meeting at a ridge along the Z axis.
	src := parse(t, "v 0 0 0\nv 0 0 1\nv -1 -1 0\nv 1 -1 0\nf 1 3 2\nf 1 2 4\n")
	m := BuildMesh(src, BuildOptions{SmoothNormals: true})

	for _, v := range m.Vertices {
		if v.Position == [3]float32{0, 0, 0} || v.Position == [3]float32{0, 0, 1} {
			n := mgl32.Vec3(v.Normal)
			if !nearf(n.X(), 0) || !nearf(n.Len(), 1) {
				t.Errorf("ridge vertex %v: expected averaged normal, got %v", v.Position, n)
			}
		}
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Yaw:      math32.Pi / 2,
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	// Scale to (2,0,0), rotate about Y to (0,0,-2), then translate.
	if !near(got, mgl32.Vec3{1, 2, 1}) {
		t.Errorf("expected (1,2,1), got %v", got)
	}

	n := tr.NormalMatrix().Mul3x1(mgl32.Vec3{0, 1, 0})
	if !near(n.Normalize(), mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected up normal preserved, got %v", n)
	}

	if (Transform{Position: mgl32.Vec3{4, 0, 0}}).Matrix() != mgl32.Translate3D(4, 0, 0) {
		t.Error("zero scale should be treated as unit scale")
	}
	if !(Transform{Scale: mgl32.Vec3{-1, 1, 1}}).Mirrored() {
		t.Error("expected negative scale to be mirrored")
	}
}

func TestInstanceWorldBounds(t *testing.T) {
	m := BuildMesh(parse(t, cube), BuildOptions{})
	tr := NewTransform(mgl32.Vec3{3, 1, 0})
	tr.Scale = mgl32.Vec3{0.5, 1, 0.5}
	in := NewInstance("crate", m, tr)

	got := in.WorldBounds()
	want := bounds.AABB{Min: mgl32.Vec3{2.5, 0, -0.5}, Max: mgl32.Vec3{3.5, 2, 0.5}}
	if !near(got.Min, want.Min) || !near(got.Max, want.Max) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

type fixedView struct {
	eye, fwd, right, up mgl32.Vec3
}

func (v fixedView) Eye() mgl32.Vec3      { return v.eye }
func (v fixedView) Forward() mgl32.Vec3  { return v.fwd }
func (v fixedView) Right() mgl32.Vec3    { return v.right }
func (v fixedView) CameraUp() mgl32.Vec3 { return v.up }

// lookingNegZ is a camera at (0,5,5) looking down -Z.
var lookingNegZ = fixedView{
	eye:   mgl32.Vec3{0, 5, 5},
	fwd:   mgl32.Vec3{0, 0, -1},
	right: mgl32.Vec3{1, 0, 0},
	up:    mgl32.Vec3{0, 1, 0},
}

func TestFollowerTarget(t *testing.T) {
	f := &Follower{Offset: mgl32.Vec3{1, -1, 2}, FollowRotation: true, RotationOffset: 0.5}
	pos, yaw := f.Target(lookingNegZ, 0)

	if !near(pos, mgl32.Vec3{1, 4, 3}) {
		t.Errorf("expected (1,4,3), got %v", pos)
	}
	if !nearf(wrapAngle(yaw), wrapAngle(math32.Pi+0.5)) {
		t.Errorf("expected yaw pi+0.5, got %f", yaw)
	}

	f.FollowRotation = false
	if _, yaw := f.Target(lookingNegZ, 1.25); yaw != 1.25 {
		t.Errorf("expected yaw unchanged, got %f", yaw)
	}
}

// stopX refuses movement along X.
type stopX struct{}

func (stopX) SafeMovement(desired, _ mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{0, desired.Y(), desired.Z()}
}

func TestInstanceFollowUsesMover(t *testing.T) {
	in := NewInstance("pet", nil, NewTransform(mgl32.Vec3{}))
	in.SetFollow(&Follower{Offset: mgl32.Vec3{1, 0, 0}})

	in.Update(0.016, lookingNegZ, stopX{})
	if !near(in.Transform.Position, mgl32.Vec3{0, 5, 5}) {
		t.Errorf("expected X movement blocked, got %v", in.Transform.Position)
	}

	in.Update(0.016, lookingNegZ, nil)
	if !near(in.Transform.Position, mgl32.Vec3{1, 5, 5}) {
		t.Errorf("expected unconstrained follow, got %v", in.Transform.Position)
	}

	in.SetFollow(nil)
	if in.Following() || in.Moves() {
		t.Error("expected instance to stop following")
	}
}

func TestFollowStaysOutOfWalls(t *testing.T) {
	walls := collision.NewManager(collision.DefaultConfig())
	view := fixedView{
		eye:   mgl32.Vec3{7, 10.1, 0},
		fwd:   mgl32.Vec3{1, 0, 0},
		right: mgl32.Vec3{0, 0, 1},
		up:    mgl32.Vec3{0, 1, 0},
	}
	in := NewInstance("pet", nil, NewTransform(view.eye))
	in.SetFollow(&Follower{Offset: mgl32.Vec3{0, 0, 3}})

	in.Update(0.016, view, collision.Swept{Manager: walls})
	if walls.CheckCameraCollision(in.Transform.Position) {
		t.Errorf("follower ended inside a wall at %v", in.Transform.Position)
	}
	if in.Transform.Position.X() <= 7 {
		t.Errorf("expected follower to advance toward the wall, got %v", in.Transform.Position)
	}
}

func TestPatrolTurnsRightAtEdges(t *testing.T) {
	p := NewPatrol(1)
	p.Speed = 1
	p.RotationSpeed = 100
	tr := NewTransform(mgl32.Vec3{0, 0, 0})

	wantDirs := []mgl32.Vec3{{0, 0, -1}, {-1, 0, 0}, {0, 0, 1}, {1, 0, 0}}
	for i, want := range wantDirs {
		for steps := 0; steps < 100; steps++ {
			before := p.Direction()
			p.Step(0.1, &tr, nil)
			if p.Direction() != before {
				break
			}
		}
		if !near(p.Direction(), want) {
			t.Fatalf("turn %d: expected direction %v, got %v", i, want, p.Direction())
		}
		if tr.Position.X() > 1.0001 || tr.Position.X() < -1.0001 || tr.Position.Z() > 1.0001 || tr.Position.Z() < -1.0001 {
			t.Errorf("turn %d: position %v left the track", i, tr.Position)
		}
	}
}

func TestPatrolTurnsWhenBlocked(t *testing.T) {
	p := NewPatrol(DefaultPatrolExtent)
	tr := NewTransform(mgl32.Vec3{})

	p.Step(0.1, &tr, stopX{})
	if !near(p.Direction(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("expected turn to -Z after block, got %v", p.Direction())
	}
	if tr.Position != (mgl32.Vec3{}) {
		t.Errorf("blocked step moved the model to %v", tr.Position)
	}
}

func TestPatrolYawApproachesHeading(t *testing.T) {
	p := NewPatrol(1)
	p.RotationSpeed = 1
	tr := NewTransform(mgl32.Vec3{0.99, 0, 0})

	p.Step(0.1, &tr, nil) // crosses +X edge, heading becomes -Z
	if nearf(tr.Yaw, math32.Pi) || nearf(tr.Yaw, -math32.Pi) {
		t.Errorf("yaw should turn gradually, got %f", tr.Yaw)
	}
	if !nearf(tr.Yaw, math32.Pi/2+0.1) {
		t.Errorf("expected yaw pi/2+0.1, got %f", tr.Yaw)
	}
}

func TestWrapAndApproachAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{math32.Pi / 2, math32.Pi / 2},
		{3 * math32.Pi / 2, -math32.Pi / 2},
		{-3 * math32.Pi / 2, math32.Pi / 2},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); !nearf(got, tt.want) {
			t.Errorf("wrapAngle(%f): expected %f, got %f", tt.in, tt.want, got)
		}
	}

	// Shorter arc from 170 to -170 degrees goes up through 180.
	cur := mgl32.DegToRad(170)
	got := approachAngle(cur, mgl32.DegToRad(-170), mgl32.DegToRad(5))
	if !nearf(got, mgl32.DegToRad(175)) {
		t.Errorf("expected 175 degrees, got %f", mgl32.RadToDeg(got))
	}
	if approachAngle(0, 0.01, 1) != 0.01 {
		t.Error("expected snap to target within one step")
	}
}

type fakeTextures map[string]uint32

func (f fakeTextures) Get(name string, _ bool) (texture.Data, error) {
	id, ok := f[name]
	if !ok {
		return texture.Data{}, errors.New("missing")
	}
	return texture.Data{ID: id, Width: 1, Height: 1}, nil
}

func TestResolveGroups(t *testing.T) {
	src := parse(t, cube)
	src.Materials["side"] = obj.Material{Name: "side", DiffuseMap: "wood.png", Shininess: 0}
	src.Materials["top"] = obj.Material{Name: "top", DiffuseMap: "gone.png", Shininess: 16}
	m := BuildMesh(src, BuildOptions{})

	groups := ResolveGroups(m, fakeTextures{"wood.png": 7})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Texture != 7 {
		t.Errorf("expected texture 7, got %d", groups[0].Texture)
	}
	if groups[0].Material.Shininess != 1 {
		t.Errorf("expected shininess clamped to 1, got %f", groups[0].Material.Shininess)
	}
	if groups[1].Texture != 0 {
		t.Errorf("expected missing texture left unset, got %d", groups[1].Texture)
	}
	if groups[1].IndexCount != 6 {
		t.Errorf("expected 6 indices, got %d", groups[1].IndexCount)
	}
}
