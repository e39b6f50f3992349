// Package lighting provides point and spot lights, a capped light manager and
// the uniform layout the phong shader reads them from.
package lighting

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/logger"
)

// Kind is the light variant. It is fixed when the light is created.
type Kind int32

// Values match the `type` field read by the shader.
const (
	Point Kind = iota
	Spot
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Spot:
		return "spot"
	default:
		return "unknown"
	}
}

// MotionPeriod is the length of the orbit clock in seconds.
const MotionPeriod = 4.0

// ErrNotSpot is returned when a spot-only setter is called on a point light.
var ErrNotSpot = errors.New("light is not a spot light")

// Attenuation holds the inverse distance falloff coefficients.
type Attenuation struct {
	Constant  float32 `yaml:"constant"`
	Linear    float32 `yaml:"linear"`
	Quadratic float32 `yaml:"quadratic"`
}

// DefaultAttenuation returns a falloff suited to a room about 17 units wide.
func DefaultAttenuation() Attenuation {
	return Attenuation{Constant: 1.0, Linear: 0.09, Quadratic: 0.032}
}

// Factor returns 1 / (c + l*d + q*d^2) for distance d.
func (a Attenuation) Factor(d float32) float32 {
	den := a.Constant + a.Linear*d + a.Quadratic*d*d
	if den <= 0 {
		return 1
	}
	return 1 / den
}

// Cone describes a spot light in degrees.
type Cone struct {
	InnerDeg float32 `yaml:"inner"`
	OuterDeg float32 `yaml:"outer"`
	Exponent float32 `yaml:"exponent"`
}

// DirectionMode selects when a spot light recomputes its direction.
type DirectionMode int

const (
	// DirectionEager recomputes on every position or target change.
	DirectionEager DirectionMode = iota
	// DirectionLazy marks the direction stale and recomputes on read.
	DirectionLazy
)

// ParseDirectionMode converts "eager" or "lazy" to a DirectionMode.
func ParseDirectionMode(s string) (DirectionMode, bool) {
	switch s {
	case "eager", "":
		return DirectionEager, true
	case "lazy":
		return DirectionLazy, true
	}
	return DirectionEager, false
}

// Light is a single point or spot light with on/off and orbit state.
type Light struct {
	Name string

	kind     Kind
	position mgl32.Vec3

	ambient, diffuse, specular mgl32.Vec4
	atten                      Attenuation
	intensity                  float32

	// Spot only.
	target      mgl32.Vec3
	direction   mgl32.Vec3
	innerCutOff float32
	outerCutOff float32
	exponent    float32
	cone        Cone
	dirMode     DirectionMode
	dirStale    bool

	lightOn  bool
	motionOn bool
	clock    float32
	start    mgl32.Vec3

	log *zap.Logger
}

func newLight(kind Kind, pos mgl32.Vec3, ambient, diffuse, specular mgl32.Vec4, att Attenuation) *Light {
	return &Light{
		kind:      kind,
		position:  pos,
		start:     pos,
		ambient:   opaque(ambient),
		diffuse:   opaque(diffuse),
		specular:  opaque(specular),
		atten:     att,
		intensity: 1,
		direction: mgl32.Vec3{0, -1, 0},
		exponent:  1,
		lightOn:   true,
		log:       logger.Sampled("lighting"),
	}
}

// NewPoint creates a point light.
func NewPoint(pos mgl32.Vec3, ambient, diffuse, specular mgl32.Vec4, att Attenuation) *Light {
	return newLight(Point, pos, ambient, diffuse, specular, att)
}

// NewSpot creates a spot light aimed from pos at target.
func NewSpot(pos, target mgl32.Vec3, cone Cone, ambient, diffuse, specular mgl32.Vec4, att Attenuation) *Light {
	l := newLight(Spot, pos, ambient, diffuse, specular, att)
	l.target = target
	l.applyCone(cone)
	l.recompute()
	return l
}

// Respot returns a spot light with this light's colors, attenuation, position,
// name and state, aimed at target. The receiver is not modified.
func (l *Light) Respot(target mgl32.Vec3, cone Cone) *Light {
	s := NewSpot(l.position, target, cone, l.ambient, l.diffuse, l.specular, l.atten)
	s.Name = l.Name
	s.intensity = l.intensity
	s.lightOn = l.lightOn
	s.motionOn = l.motionOn
	s.clock = l.clock
	s.start = l.start
	s.dirMode = l.dirMode
	return s
}

func opaque(c mgl32.Vec4) mgl32.Vec4 {
	c[3] = 1
	return c
}

// Kind returns the light variant.
func (l *Light) Kind() Kind { return l.kind }

// Position returns the current world position.
func (l *Light) Position() mgl32.Vec3 { return l.position }

// SetPos moves the light. A spot light's direction follows its stored target.
func (l *Light) SetPos(pos mgl32.Vec3) {
	l.position = pos
	l.targetChanged()
}

// StartPosition returns the orbit anchor.
func (l *Light) StartPosition() mgl32.Vec3 { return l.start }

// SetStartPosition moves the orbit anchor and the light with it.
func (l *Light) SetStartPosition(pos mgl32.Vec3) {
	l.start = pos
	l.SetPos(pos)
}

// Target returns the spot target. Point lights return the zero vector.
func (l *Light) Target() mgl32.Vec3 { return l.target }

// SetTarget aims a spot light.
func (l *Light) SetTarget(target mgl32.Vec3) error {
	if l.kind != Spot {
		return ErrNotSpot
	}
	l.target = target
	l.targetChanged()
	return nil
}

// SetCone changes a spot light's cutoff angles and exponent.
func (l *Light) SetCone(cone Cone) error {
	if l.kind != Spot {
		return ErrNotSpot
	}
	l.applyCone(cone)
	return nil
}

func (l *Light) applyCone(cone Cone) {
	l.cone = cone
	l.innerCutOff = math32.Cos(mgl32.DegToRad(cone.InnerDeg))
	l.outerCutOff = math32.Cos(mgl32.DegToRad(cone.OuterDeg))
	l.exponent = cone.Exponent
}

// Cone returns the cone as given in degrees.
func (l *Light) Cone() Cone { return l.cone }

// InnerCutOff returns the cosine of the inner half-angle.
func (l *Light) InnerCutOff() float32 { return l.innerCutOff }

// OuterCutOff returns the cosine of the outer half-angle.
func (l *Light) OuterCutOff() float32 { return l.outerCutOff }

// Exponent returns the spot falloff exponent.
func (l *Light) Exponent() float32 { return l.exponent }

// SetDirectionMode selects eager or lazy direction updates.
func (l *Light) SetDirectionMode(mode DirectionMode) {
	l.dirMode = mode
	if mode == DirectionEager && l.dirStale {
		l.recompute()
	}
}

// DirectionMode returns the current direction mode.
func (l *Light) DirectionMode() DirectionMode { return l.dirMode }

// Direction returns normalize(target - position) for a spot light.
// If target and position coincide the previous direction is kept.
func (l *Light) Direction() mgl32.Vec3 {
	if l.dirStale {
		l.recompute()
	}
	return l.direction
}

func (l *Light) targetChanged() {
	if l.kind != Spot {
		return
	}
	if l.dirMode == DirectionLazy {
		l.dirStale = true
		return
	}
	l.recompute()
}

func (l *Light) recompute() {
	l.dirStale = false
	d := l.target.Sub(l.position)
	if d.Len() == 0 {
		return
	}
	l.direction = d.Normalize()
}

// Ambient returns the stored ambient color.
func (l *Light) Ambient() mgl32.Vec4 { return l.ambient }

// Diffuse returns the stored diffuse color.
func (l *Light) Diffuse() mgl32.Vec4 { return l.diffuse }

// Specular returns the stored specular color.
func (l *Light) Specular() mgl32.Vec4 { return l.specular }

// SetAmbient sets the ambient color. Alpha is forced to 1.
func (l *Light) SetAmbient(c mgl32.Vec4) { l.ambient = opaque(c) }

// SetDiffuse sets the diffuse color. Alpha is forced to 1.
func (l *Light) SetDiffuse(c mgl32.Vec4) { l.diffuse = opaque(c) }

// SetSpecular sets the specular color. Alpha is forced to 1.
func (l *Light) SetSpecular(c mgl32.Vec4) { l.specular = opaque(c) }

// SetIntensity scales all three colors by s in place.
// Calls compound: two calls with 0.5 leave a quarter of the original color.
func (l *Light) SetIntensity(s float32) {
	l.intensity = s
	l.ambient = opaque(l.ambient.Mul(s))
	l.diffuse = opaque(l.diffuse.Mul(s))
	l.specular = opaque(l.specular.Mul(s))
}

// Intensity returns the last value passed to SetIntensity.
func (l *Light) Intensity() float32 { return l.intensity }

// Attenuation returns the falloff coefficients.
func (l *Light) Attenuation() Attenuation { return l.atten }

// SetAttenuation replaces the falloff coefficients.
func (l *Light) SetAttenuation(a Attenuation) { l.atten = a }

// SetLightOn enables or disables the light's contribution.
func (l *Light) SetLightOn(on bool) { l.lightOn = on }

// IsLightOn reports whether the light contributes to shading.
func (l *Light) IsLightOn() bool { return l.lightOn }

// ToggleMotion flips orbital motion on or off.
func (l *Light) ToggleMotion() { l.motionOn = !l.motionOn }

// SetMotion sets orbital motion explicitly.
func (l *Light) SetMotion(on bool) { l.motionOn = on }

// MotionEnabled reports whether the light orbits.
func (l *Light) MotionEnabled() bool { return l.motionOn }

// Clock returns the orbit clock in seconds, in [0, MotionPeriod).
func (l *Light) Clock() float32 { return l.clock }

// Update advances the orbit clock by dt seconds when motion is enabled and
// places the light at the start position rotated about the world Y axis by
// clock * pi/2. The position depends only on the clock.
func (l *Light) Update(dt float32) {
	if !l.motionOn {
		return
	}
	l.clock = math32.Mod(l.clock+dt, MotionPeriod)
	if l.clock < 0 {
		l.clock += MotionPeriod
	}

	angle := l.clock * math32.Pi / 2
	l.SetPos(mgl32.Rotate3DY(angle).Mul3x1(l.start))

	l.log.Debug("light orbit",
		zap.String("light", l.Name),
		zap.Float32("clock", l.clock),
		zap.Float32("angle", angle),
		zap.Float32("radius", l.start.Len()),
		zap.Float32s("pos", l.position[:]))
}
