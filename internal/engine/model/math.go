package model

import "github.com/chewxy/math32"

// wrapAngle maps a into [-pi, pi).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}

// approachAngle turns cur toward target by at most maxStep along the
// shorter arc.
func approachAngle(cur, target, maxStep float32) float32 {
	diff := wrapAngle(target - cur)
	if math32.Abs(diff) <= maxStep {
		return target
	}
	if diff > 0 {
		return cur + maxStep
	}
	return cur - maxStep
}
