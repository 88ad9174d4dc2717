package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's pose in presentation units. Physics entities
// read their spawn pose from it and have it overwritten every tick.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

func (t Transform) Position() mgl64.Vec2 {
	return mgl64.Vec2{t.X, t.Y}
}

var TransformComponent = NewComponent[Transform]()
