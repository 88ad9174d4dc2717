package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/common"
)

// ContactFlags summarises how a character touches its surroundings after a
// move.
type ContactFlags struct {
	Grounded  bool
	WallLeft  bool
	WallRight bool
	Ceiling   bool
}

func (f ContactFlags) OnWall() bool {
	return f.WallLeft || f.WallRight
}

// slopeTolerance absorbs acos rounding so a normal built at exactly the
// slope limit still measures as reaching it.
const slopeTolerance = 1e-9

// Classify sorts contact normals into ceiling, wall and floor. A normal
// facing away from up is a ceiling. A normal whose angle to up is at least
// maxSlope is a wall, on the left when it points along right. Anything else
// is floor and grounds the character, as does m.Grounded.
func Classify(m Movement, contacts []Contact, up, right mgl64.Vec2, maxSlope float64) ContactFlags {
	flags := ContactFlags{Grounded: m.Grounded}
	for _, c := range contacts {
		n := common.FromPhysics(c.Normal)
		switch {
		case n.Dot(up) < 0:
			flags.Ceiling = true
		case common.AngleBetween(n, up) >= maxSlope-slopeTolerance:
			if n.Dot(right) > 0 {
				flags.WallLeft = true
			} else {
				flags.WallRight = true
			}
		default:
			flags.Grounded = true
		}
	}
	return flags
}
