package lighting

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingSink stores the last value written to each uniform name.
type recordingSink struct {
	ints   map[string]int32
	floats map[string]float32
	vec3s  map[string]mgl32.Vec3
	vec4s  map[string]mgl32.Vec4
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		ints:   make(map[string]int32),
		floats: make(map[string]float32),
		vec3s:  make(map[string]mgl32.Vec3),
		vec4s:  make(map[string]mgl32.Vec4),
	}
}

func (s *recordingSink) SetInt(name string, v int32)       { s.ints[name] = v }
func (s *recordingSink) SetFloat(name string, v float32)   { s.floats[name] = v }
func (s *recordingSink) SetVec3(name string, v mgl32.Vec3) { s.vec3s[name] = v }
func (s *recordingSink) SetVec4(name string, v mgl32.Vec4) { s.vec4s[name] = v }

func TestManagerCapacity(t *testing.T) {
	m := NewManager()
	for i := 0; i < MaxLights; i++ {
		if _, err := m.Add(testPoint(mgl32.Vec3{float32(i), 5, 0})); err != nil {
			t.Fatalf("add %d: unexpected error %v", i, err)
		}
	}

	_, err := m.Add(testPoint(mgl32.Vec3{}))
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	if m.Len() != MaxLights {
		t.Errorf("expected %d lights, got %d", MaxLights, m.Len())
	}

	if _, err := m.Add(nil); !errors.Is(err, ErrNilLight) {
		t.Errorf("expected ErrNilLight, got %v", err)
	}
}

func TestManagerHandlesSurviveRemoval(t *testing.T) {
	m := NewManager()
	a := testPoint(mgl32.Vec3{1, 0, 0})
	b := testPoint(mgl32.Vec3{2, 0, 0})
	c := testPoint(mgl32.Vec3{3, 0, 0})

	ha, _ := m.Add(a)
	hb, _ := m.Add(b)
	hc, _ := m.Add(c)

	m.Remove(hb)
	if m.Len() != 2 {
		t.Fatalf("expected 2 lights, got %d", m.Len())
	}
	if got, ok := m.Get(hc); !ok || got != c {
		t.Error("handle for c no longer resolves")
	}
	if m.Slot(hc) != 1 {
		t.Errorf("expected c in slot 1, got %d", m.Slot(hc))
	}
	if m.Slot(ha) != 0 {
		t.Errorf("expected a in slot 0, got %d", m.Slot(ha))
	}
	if _, ok := m.Get(hb); ok {
		t.Error("removed handle still resolves")
	}

	// Unknown handles and indices are ignored.
	m.Remove(hb)
	m.Remove(Handle(999))
	m.RemoveAt(7)
	m.RemoveAt(-1)
	if m.Len() != 2 {
		t.Errorf("no-op removal changed length to %d", m.Len())
	}
	if m.At(5) != nil {
		t.Error("expected nil for out-of-range slot")
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("expected empty manager, got %d", m.Len())
	}
}

func TestManagerReplace(t *testing.T) {
	m := NewManager()
	h, _ := m.Add(testPoint(mgl32.Vec3{0, 10, 0}))
	_, _ = m.Add(testPoint(mgl32.Vec3{1, 1, 1}))

	old, _ := m.Get(h)
	spot := old.Respot(mgl32.Vec3{}, Cone{InnerDeg: 12.5, OuterDeg: 17.5, Exponent: 2})
	if err := m.Replace(h, spot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.At(0) != spot {
		t.Error("expected replacement in slot 0")
	}
	if err := m.Replace(Handle(42), spot); !errors.Is(err, ErrUnknownLight) {
		t.Errorf("expected ErrUnknownLight, got %v", err)
	}
}

func TestUploadDisabledLightExportsZeroColors(t *testing.T) {
	m := NewManager()
	on := testPoint(mgl32.Vec3{0, 10, 0})
	off := testSpot(mgl32.Vec3{4, 10, 0}, mgl32.Vec3{4, 0, 4})
	off.SetLightOn(false)
	_, _ = m.Add(on)
	_, _ = m.Add(off)

	sink := newRecordingSink()
	m.Upload(sink)

	if sink.ints["uNumLights"] != 2 {
		t.Errorf("expected uNumLights 2, got %d", sink.ints["uNumLights"])
	}
	for _, field := range []string{"ambient", "diffuse", "specular"} {
		if v := sink.vec4s["uLights[1]."+field]; v != (mgl32.Vec4{}) {
			t.Errorf("disabled %s: expected zero, got %v", field, v)
		}
		if v := sink.vec4s["uLights[0]."+field]; v == (mgl32.Vec4{}) {
			t.Errorf("enabled %s: expected non-zero", field)
		}
	}
	if sink.ints["uLights[1].enabled"] != 0 || sink.ints["uLights[0].enabled"] != 1 {
		t.Errorf("unexpected enabled flags %d %d", sink.ints["uLights[0].enabled"], sink.ints["uLights[1].enabled"])
	}
	if off.Diffuse() == (mgl32.Vec4{}) {
		t.Error("stored color was cleared")
	}
}

func TestUploadSpotFieldsOnlyForSpots(t *testing.T) {
	m := NewManager()
	_, _ = m.Add(testPoint(mgl32.Vec3{0, 10, 0}))
	spot := testSpot(mgl32.Vec3{0, 10, -5}, mgl32.Vec3{0, 0, -5})
	_, _ = m.Add(spot)

	sink := newRecordingSink()
	m.Upload(sink)

	if _, ok := sink.vec3s["uLights[0].direction"]; ok {
		t.Error("point light exported a direction")
	}
	if sink.ints["uLights[0].type"] != int32(Point) || sink.ints["uLights[1].type"] != int32(Spot) {
		t.Errorf("unexpected types %d %d", sink.ints["uLights[0].type"], sink.ints["uLights[1].type"])
	}
	if got := sink.vec3s["uLights[1].direction"]; !near(got, mgl32.Vec3{0, -1, 0}) {
		t.Errorf("expected direction down, got %v", got)
	}
	for _, field := range []string{"cutOff", "outerCutOff", "exponent", "constant", "linear", "quadratic"} {
		if _, ok := sink.floats["uLights[1]."+field]; !ok {
			t.Errorf("missing uLights[1].%s", field)
		}
	}
}

func TestKeyLightUploadMatchesSlot(t *testing.T) {
	key := testPoint(mgl32.Vec3{3.5, 5.5, 0})
	m := NewManager()
	_, _ = m.Add(key)

	sink := newRecordingSink()
	Upload(sink, KeyLightUniform, key)
	m.Upload(sink)

	if sink.vec3s["uLight.position"] != sink.vec3s["uLights[0].position"] {
		t.Error("key light and slot 0 positions differ")
	}
	if sink.vec4s["uLight.diffuse"] != sink.vec4s["uLights[0].diffuse"] {
		t.Error("key light and slot 0 diffuse differ")
	}
}

func TestManagerUpdateForwards(t *testing.T) {
	m := NewManager()
	moving := testPoint(mgl32.Vec3{2, 3, 0})
	moving.ToggleMotion()
	still := testPoint(mgl32.Vec3{1, 1, 1})
	_, _ = m.Add(moving)
	_, _ = m.Add(still)

	m.Update(1)

	if !near(moving.Position(), mgl32.Vec3{0, 3, -2}) {
		t.Errorf("expected orbiting light at (0,3,-2), got %v", moving.Position())
	}
	if still.Position() != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("stationary light moved to %v", still.Position())
	}
}

func TestManagerWithLimit(t *testing.T) {
	m := NewManagerWithLimit(2)
	for i := 0; i < 2; i++ {
		if _, err := m.Add(testPoint(mgl32.Vec3{})); err != nil {
			t.Fatalf("add %d: unexpected error %v", i, err)
		}
	}
	if _, err := m.Add(testPoint(mgl32.Vec3{})); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}

	if got := NewManagerWithLimit(99).Limit(); got != MaxLights {
		t.Errorf("expected limit clamped to %d, got %d", MaxLights, got)
	}
}
