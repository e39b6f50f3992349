package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Material holds phong surface coefficients.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

// DefaultMaterial is a plain white surface.
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl32.Vec3{1, 1, 1},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// Surface is a shaded point as the fragment shader sees it.
type Surface struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Eye      mgl32.Vec3
}

// SpotFactor returns the angular falloff for a spot light at surface point p:
// clamp((cos(theta) - outer) / (inner - outer), 0, 1) ^ exponent.
func SpotFactor(u Uniform, p mgl32.Vec3) float32 {
	toLight := u.Position.Sub(p)
	if toLight.Len() == 0 {
		return 1
	}
	theta := toLight.Normalize().Dot(u.Direction.Mul(-1))
	eps := u.CutOff - u.OuterCutOff
	var f float32
	if eps <= 0 {
		if theta >= u.CutOff {
			f = 1
		}
	} else {
		f = mgl32.Clamp((theta-u.OuterCutOff)/eps, 0, 1)
	}
	if u.Exponent > 0 && f > 0 {
		f = math32.Pow(f, u.Exponent)
	}
	return f
}

// Shade evaluates the phong model the fragment shader runs: a global ambient
// term plus, for each enabled light, its ambient term and its attenuated,
// spot-masked diffuse and specular terms. Disabled lights add nothing.
func Shade(s Surface, mat Material, globalAmbient mgl32.Vec3, lights []Uniform) mgl32.Vec3 {
	color := mulVec(globalAmbient, mat.Ambient)

	n := s.Normal
	if n.Len() > 0 {
		n = n.Normalize()
	}
	view := s.Eye.Sub(s.Position)
	if view.Len() > 0 {
		view = view.Normalize()
	}

	for _, u := range lights {
		if !u.Enabled {
			continue
		}
		toLight := u.Position.Sub(s.Position)
		dist := toLight.Len()
		var l mgl32.Vec3
		if dist > 0 {
			l = toLight.Mul(1 / dist)
		}

		ambient := mulVec(u.Ambient.Vec3(), mat.Ambient)

		diff := math32.Max(n.Dot(l), 0)
		diffuse := mulVec(u.Diffuse.Vec3(), mat.Diffuse).Mul(diff)

		var spec float32
		if diff > 0 {
			r := reflect(l.Mul(-1), n)
			spec = math32.Pow(math32.Max(view.Dot(r), 0), mat.Shininess)
		}
		specular := mulVec(u.Specular.Vec3(), mat.Specular).Mul(spec)

		att := Attenuation{Constant: u.Constant, Linear: u.Linear, Quadratic: u.Quadratic}.Factor(dist)
		mask := float32(1)
		if u.Type == Spot {
			mask = SpotFactor(u, s.Position)
		}

		color = color.Add(ambient.Mul(att)).Add(diffuse.Add(specular).Mul(att * mask))
	}
	return color
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}
