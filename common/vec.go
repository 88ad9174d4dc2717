package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// ToPhysics converts a presentation-side vector into a cp vector. It does
// not scale; callers go through physics.Scaler first.
func ToPhysics(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

// FromPhysics converts a cp vector into an mgl64 vector.
func FromPhysics(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

// AngleBetween returns the unsigned angle in radians between a and b.
// Zero-length inputs yield zero.
func AngleBetween(a, b mgl64.Vec2) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/(la*lb), -1, 1))
}
