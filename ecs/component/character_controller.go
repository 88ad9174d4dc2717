package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/physics"
)

// CharacterController moves a kinematic position-based body by sweeping
// its collider instead of letting the solver push it around.
//
// Velocity is the desired velocity for the coming tick and Resolved what
// was actually achieved, both in presentation units per second. Offset is
// the skin gap kept between the collider and obstacles, in presentation
// units.
type CharacterController struct {
	Up                 mgl64.Vec2
	Right              mgl64.Vec2
	Velocity           mgl64.Vec2
	Resolved           mgl64.Vec2
	Flags              physics.ContactFlags
	MaxSlopeClimbAngle float64
	Slide              bool
	Offset             float64
}

func NewCharacterController() CharacterController {
	return CharacterController{
		Up:                 mgl64.Vec2{0, 1},
		Right:              mgl64.Vec2{1, 0},
		MaxSlopeClimbAngle: math.Pi / 4,
		Slide:              true,
		Offset:             0.64,
	}
}

var CharacterControllerComponent = NewComponent[CharacterController]()
