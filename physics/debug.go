package physics

import "github.com/go-gl/mathgl/mgl64"

// DebugShape is a collider outline in presentation units.
type DebugShape struct {
	Collider ColliderHandle
	Kind     BodyKind
	Shape    Shape
	Center   mgl64.Vec2
	Angle    float64
}

func (w *World) DebugShapes() []DebugShape {
	out := make([]DebugShape, 0, w.colliders.len())
	w.colliders.each(func(idx, gen uint32, c *Collider) {
		kind := Fixed
		if b, ok := w.bodies.get(c.Parent.index, c.Parent.gen); ok {
			kind = b.Kind
		}
		out = append(out, DebugShape{
			Collider: ColliderHandle{index: idx, gen: gen},
			Kind:     kind,
			Shape:    c.Shape.ToPresentation(w.scaler),
			Center:   w.scaler.VecToPresentation(c.Position),
			Angle:    c.Angle,
		})
	})
	return out
}
