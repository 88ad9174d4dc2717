package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spacewar/common"
)

// DefaultScale is the number of presentation units per simulation unit.
// A power of two keeps the round trip exact for every value whose
// simulation form is representable.
const DefaultScale = 64

// Scaler converts between presentation units (pixels) and simulation
// units (meters).
type Scaler struct {
	scale float64
}

func NewScaler(scale float64) (Scaler, error) {
	if !common.Finite(scale) || scale <= 0 {
		return Scaler{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return Scaler{scale: scale}, nil
}

func DefaultScaler() Scaler {
	return Scaler{scale: DefaultScale}
}

func (s Scaler) Scale() float64 {
	return s.scale
}

// ToSimulation divides a presentation scalar by the scale.
func (s Scaler) ToSimulation(v float64) float64 {
	return v / s.scale
}

// ToPresentation multiplies a simulation scalar by the scale.
func (s Scaler) ToPresentation(v float64) float64 {
	return v * s.scale
}

func (s Scaler) VecToSimulation(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: s.ToSimulation(v.X()), Y: s.ToSimulation(v.Y())}
}

func (s Scaler) VecToPresentation(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{s.ToPresentation(v.X), s.ToPresentation(v.Y)}
}
