package physics

import (
	"github.com/jakecoffman/cp"
)

// collisionSlop is the overlap the solver tolerates, in simulation units.
const collisionSlop = 0.001

// spaceIndex is a cp space built from the world's arenas together with the
// mapping back to handles.
type spaceIndex struct {
	space  *cp.Space
	bodies []spaceBody
	shapes map[*cp.Shape]ColliderHandle
	kinds  map[ColliderHandle]BodyKind
}

type spaceBody struct {
	handle BodyHandle
	body   *cp.Body
}

func collisionTypeFor(kind BodyKind) cp.CollisionType {
	return cp.CollisionType(kind) + 1
}

// buildSpace creates a fresh cp space holding every body and collider in
// arena order. With stepping set, velocities and per-body integration
// parameters are loaded too.
func (w *World) buildSpace(stepping bool) *spaceIndex {
	space := cp.NewSpace()
	space.Iterations = uint(w.iterations)
	space.SetGravity(w.gravity)
	space.SetCollisionSlop(collisionSlop)

	sp := &spaceIndex{
		space:  space,
		shapes: make(map[*cp.Shape]ColliderHandle, w.colliders.len()),
		kinds:  make(map[ColliderHandle]BodyKind, w.colliders.len()),
	}

	w.bodies.each(func(idx, gen uint32, b *Body) {
		h := BodyHandle{index: idx, gen: gen}
		cpb := w.newSolverBody(b)
		cpb.SetPosition(b.Position)
		cpb.SetAngle(b.Angle)
		if stepping {
			w.loadVelocity(cpb, b)
		}
		space.AddBody(cpb)
		sp.bodies = append(sp.bodies, spaceBody{handle: h, body: cpb})

		for _, ch := range b.colliders {
			c, ok := w.colliders.get(ch.index, ch.gen)
			invariant(ok, "%v lists missing %v", h, ch)
			shape := newSolverShape(cpb, c.Shape)
			shape.SetFriction(c.Friction)
			shape.SetElasticity(c.Restitution)
			shape.SetFilter(cp.NewShapeFilter(0, uint(c.Groups.Memberships), uint(c.Groups.Filter)))
			shape.SetCollisionType(collisionTypeFor(b.Kind))
			space.AddShape(shape)
			sp.shapes[shape] = ch
			sp.kinds[ch] = b.Kind
		}
	})

	if stepping {
		w.installActiveTypeHandlers(sp)
	}
	return sp
}

func (w *World) newSolverBody(b *Body) *cp.Body {
	switch {
	case b.Kind == Fixed:
		return cp.NewStaticBody()
	case b.Kind == Dynamic && !b.Sleeping:
		mass := b.AdditionalMass
		for _, ch := range b.colliders {
			if c, ok := w.colliders.get(ch.index, ch.gen); ok {
				mass += c.Shape.area()
			}
		}
		moment := 0.0
		for _, ch := range b.colliders {
			if c, ok := w.colliders.get(ch.index, ch.gen); ok {
				moment += c.Shape.moment(mass)
			}
		}
		invariant(mass > 0 && moment > 0, "dynamic body without mass")
		return cp.NewBody(mass, moment)
	}
	// kinematic bodies, and dynamic bodies that are asleep
	return cp.NewKinematicBody()
}

func newSolverShape(body *cp.Body, s Shape) *cp.Shape {
	if s.Kind == CircleShape {
		return cp.NewCircle(body, s.Radius, cp.Vector{})
	}
	return cp.NewBox(body, s.Width, s.Height, 0)
}

func (w *World) loadVelocity(cpb *cp.Body, b *Body) {
	switch b.Kind {
	case Dynamic:
		if b.Sleeping {
			return
		}
		cpb.SetVelocityVector(b.LinearVelocity)
		cpb.SetAngularVelocity(b.AngularVelocity)
		scale, linear, angular := b.GravityScale, b.LinearDamping, b.AngularDamping
		cpb.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
			if linear != 0 {
				body.SetVelocityVector(body.Velocity().Mult(1 / (1 + dt*linear)))
			}
			if angular != 0 {
				body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*angular))
			}
		})
	case KinematicVelocityBased:
		cpb.SetVelocityVector(b.LinearVelocity)
		cpb.SetAngularVelocity(b.AngularVelocity)
	case KinematicPositionBased:
		if b.HasNext {
			cpb.SetVelocityVector(b.NextPosition.Sub(b.Position).Mult(1 / w.dt))
		}
	}
}

// installActiveTypeHandlers drops contacts between body kinds that neither
// collider has enabled.
func (w *World) installActiveTypeHandlers(sp *spaceIndex) {
	for a := Fixed; a <= KinematicVelocityBased; a++ {
		for b := a; b <= KinematicVelocityBased; b++ {
			handler := sp.space.NewCollisionHandler(collisionTypeFor(a), collisionTypeFor(b))
			handler.UserData = sp
			handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
				idx, ok := userData.(*spaceIndex)
				if !ok || idx == nil {
					return true
				}
				shapeA, shapeB := arb.Shapes()
				ha, okA := idx.shapes[shapeA]
				hb, okB := idx.shapes[shapeB]
				if !okA || !okB {
					return true
				}
				return w.contactActive(idx, ha, hb)
			}
		}
	}
}

func (w *World) contactActive(sp *spaceIndex, a, b ColliderHandle) bool {
	ca, okA := w.colliders.get(a.index, a.gen)
	cb, okB := w.colliders.get(b.index, b.gen)
	if !okA || !okB {
		return true
	}
	ka, kb := sp.kinds[a], sp.kinds[b]
	return ca.ActiveTypes.Test(ka, kb) || cb.ActiveTypes.Test(ka, kb)
}

// readBack copies solver results into the arenas.
func (w *World) readBack(sp *spaceIndex) {
	for _, sb := range sp.bodies {
		b, ok := w.bodies.get(sb.handle.index, sb.handle.gen)
		invariant(ok, "stepped unknown %v", sb.handle)
		switch b.Kind {
		case Fixed:
		case KinematicPositionBased:
			if b.HasNext {
				b.LinearVelocity = b.NextPosition.Sub(b.Position).Mult(1 / w.dt)
				b.Position = b.NextPosition
				b.HasNext = false
			} else {
				b.LinearVelocity = cp.Vector{}
			}
		case KinematicVelocityBased:
			b.Position = sb.body.Position()
			b.Angle = sb.body.Angle()
		case Dynamic:
			if b.Sleeping {
				break
			}
			b.Position = sb.body.Position()
			b.Angle = sb.body.Angle()
			b.LinearVelocity = sb.body.Velocity()
			b.AngularVelocity = sb.body.AngularVelocity()
		}
		for _, ch := range b.colliders {
			if c, ok := w.colliders.get(ch.index, ch.gen); ok {
				c.Position = b.Position
				c.Angle = b.Angle
			}
		}
	}
}

// queryIndex returns the cached query space, rebuilding it when the world
// changed since the last query.
func (w *World) queryIndex() *spaceIndex {
	if w.query == nil {
		w.query = w.buildSpace(false)
	}
	return w.query
}
