package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformSink receives named uniform values. shader.Program implements it.
type UniformSink interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
}

// Uniform is the per-light record the shader sees. Colors are zero when the
// light is off.
type Uniform struct {
	Position    mgl32.Vec3
	Ambient     mgl32.Vec4
	Diffuse     mgl32.Vec4
	Specular    mgl32.Vec4
	Constant    float32
	Linear      float32
	Quadratic   float32
	Type        Kind
	Enabled     bool
	Direction   mgl32.Vec3
	CutOff      float32
	OuterCutOff float32
	Exponent    float32
}

// Export returns the light's current shader record.
func (l *Light) Export() Uniform {
	u := Uniform{
		Position:  l.position,
		Constant:  l.atten.Constant,
		Linear:    l.atten.Linear,
		Quadratic: l.atten.Quadratic,
		Type:      l.kind,
		Enabled:   l.lightOn,
	}
	if l.lightOn {
		u.Ambient = l.ambient
		u.Diffuse = l.diffuse
		u.Specular = l.specular
	}
	if l.kind == Spot {
		u.Direction = l.Direction()
		u.CutOff = l.innerCutOff
		u.OuterCutOff = l.outerCutOff
		u.Exponent = l.exponent
	}
	return u
}

// Upload pushes l to sink under the struct uniform name, e.g. "uLight" or
// "uLights[2]". Spot fields are only written for spot lights.
func Upload(sink UniformSink, name string, l *Light) {
	u := l.Export()

	sink.SetVec3(name+".position", u.Position)
	sink.SetVec4(name+".ambient", u.Ambient)
	sink.SetVec4(name+".diffuse", u.Diffuse)
	sink.SetVec4(name+".specular", u.Specular)
	sink.SetFloat(name+".constant", u.Constant)
	sink.SetFloat(name+".linear", u.Linear)
	sink.SetFloat(name+".quadratic", u.Quadratic)
	sink.SetInt(name+".type", int32(u.Type))
	enabled := int32(0)
	if u.Enabled {
		enabled = 1
	}
	sink.SetInt(name+".enabled", enabled)

	if u.Type == Spot {
		sink.SetVec3(name+".direction", u.Direction)
		sink.SetFloat(name+".cutOff", u.CutOff)
		sink.SetFloat(name+".outerCutOff", u.OuterCutOff)
		sink.SetFloat(name+".exponent", u.Exponent)
	}
}

// Uniform names used by the phong shader.
const (
	NumLightsUniform = "uNumLights"
	LightsUniform    = "uLights"
	KeyLightUniform  = "uLight"
)

// SlotName returns the array element name for slot i.
func SlotName(i int) string {
	return fmt.Sprintf("%s[%d]", LightsUniform, i)
}

// MaterialUniform is the phong shader's material struct.
const MaterialUniform = "uMaterial"

// UploadMaterial pushes mat under MaterialUniform.
func UploadMaterial(sink UniformSink, mat Material) {
	sink.SetVec3(MaterialUniform+".ambient", mat.Ambient)
	sink.SetVec3(MaterialUniform+".diffuse", mat.Diffuse)
	sink.SetVec3(MaterialUniform+".specular", mat.Specular)
	sink.SetFloat(MaterialUniform+".shininess", mat.Shininess)
}
