package physics

import (
	"fmt"
	"log"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/jakecoffman/cp"
)

// ccdSubstepDivisor bounds how finely a step may be split for continuous
// collision detection: minCCDDt = dt / ccdSubstepDivisor.
const ccdSubstepDivisor = 100

type Config struct {
	FrameRate  int
	Gravity    cp.Vector
	Iterations int
	Scaler     Scaler
}

func DefaultConfig(frameRate int) Config {
	return Config{
		FrameRate:  frameRate,
		Gravity:    cp.Vector{X: 0, Y: -9.81},
		Iterations: 20,
		Scaler:     DefaultScaler(),
	}
}

// World owns every body and collider of a simulation. Its state is plain
// data kept in handle arenas; the cp space used to integrate is rebuilt
// from that data on every Step.
type World struct {
	gravity    cp.Vector
	dt         float64
	minCCDDt   float64
	iterations int
	scaler     Scaler

	bodies    arena[Body]
	colliders arena[Collider]
	registry  *orderedmap.OrderedMap[Owner, HandlePair]

	query *spaceIndex
}

func NewWorld(cfg Config) (*World, error) {
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameRate, cfg.FrameRate)
	}
	if cfg.Scaler.scale == 0 {
		return nil, fmt.Errorf("%w: scaler not initialised", ErrInvalidScale)
	}
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 20
	}
	dt := 1 / float64(cfg.FrameRate)
	log.Printf("physics: world fps=%d dt=%v scale=%v", cfg.FrameRate, dt, cfg.Scaler.Scale())
	return &World{
		gravity:    cfg.Gravity,
		dt:         dt,
		minCCDDt:   dt / ccdSubstepDivisor,
		iterations: iterations,
		scaler:     cfg.Scaler,
		registry:   orderedmap.NewOrderedMap[Owner, HandlePair](),
	}, nil
}

func (w *World) DT() float64 { return w.dt }
func (w *World) MinCCDDT() float64 { return w.minCCDDt }
func (w *World) Gravity() cp.Vector { return w.gravity }
func (w *World) Scaler() Scaler { return w.scaler }

// Insert adds a body with a single collider attached to it.
func (w *World) Insert(body Body, collider Collider) (BodyHandle, ColliderHandle) {
	invariant(collider.Shape.valid(), "collider shape has no extent: %+v", collider.Shape)
	body.colliders = nil
	bi, bg := w.bodies.insert(body)
	bh := BodyHandle{index: bi, gen: bg}

	collider.Parent = bh
	collider.Position = body.Position
	collider.Angle = body.Angle
	ci, cg := w.colliders.insert(collider)
	ch := ColliderHandle{index: ci, gen: cg}

	b, _ := w.bodies.get(bi, bg)
	b.colliders = append(b.colliders, ch)
	w.query = nil
	return bh, ch
}

// RemoveBody removes a body and every collider attached to it.
func (w *World) RemoveBody(h BodyHandle) (Body, bool) {
	b, ok := w.bodies.remove(h.index, h.gen)
	if !ok {
		return Body{}, false
	}
	for _, ch := range b.colliders {
		w.colliders.remove(ch.index, ch.gen)
	}
	w.query = nil
	return b, true
}

func (w *World) RemoveCollider(h ColliderHandle) (Collider, bool) {
	c, ok := w.colliders.remove(h.index, h.gen)
	if !ok {
		return Collider{}, false
	}
	if parent, ok := w.bodies.get(c.Parent.index, c.Parent.gen); ok {
		kept := parent.colliders[:0]
		for _, ch := range parent.colliders {
			if ch != h {
				kept = append(kept, ch)
			}
		}
		parent.colliders = kept
	}
	w.query = nil
	return c, true
}

func (w *World) Body(h BodyHandle) (Body, bool) {
	b, ok := w.bodies.get(h.index, h.gen)
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// BodyMut returns the stored body for in-place edits.
func (w *World) BodyMut(h BodyHandle) (*Body, bool) {
	b, ok := w.bodies.get(h.index, h.gen)
	if ok {
		w.query = nil
	}
	return b, ok
}

func (w *World) Collider(h ColliderHandle) (Collider, bool) {
	c, ok := w.colliders.get(h.index, h.gen)
	if !ok {
		return Collider{}, false
	}
	return *c, true
}

func (w *World) ColliderMut(h ColliderHandle) (*Collider, bool) {
	c, ok := w.colliders.get(h.index, h.gen)
	if ok {
		w.query = nil
	}
	return c, ok
}

// SetNextKinematicTranslation records where a position-based kinematic
// body must be at the end of the next Step.
func (w *World) SetNextKinematicTranslation(h BodyHandle, p cp.Vector) {
	b, ok := w.bodies.get(h.index, h.gen)
	invariant(ok, "next kinematic translation for unknown %v", h)
	invariant(b.Kind == KinematicPositionBased, "next kinematic translation on %v body %v", b.Kind, h)
	b.HasNext = true
	b.NextPosition = p
}

// Bodies calls fn for every body in arena order.
func (w *World) Bodies(fn func(BodyHandle, Body)) {
	w.bodies.each(func(idx, gen uint32, b *Body) {
		fn(BodyHandle{index: idx, gen: gen}, *b)
	})
}

// Colliders calls fn for every collider in arena order.
func (w *World) Colliders(fn func(ColliderHandle, Collider)) {
	w.colliders.each(func(idx, gen uint32, c *Collider) {
		fn(ColliderHandle{index: idx, gen: gen}, *c)
	})
}

func (w *World) BodyCount() int { return w.bodies.len() }
func (w *World) ColliderCount() int { return w.colliders.len() }

// Step advances the world by exactly dt.
func (w *World) Step() {
	sp := w.buildSpace(true)
	substeps := w.ccdSubsteps()
	h := w.dt / float64(substeps)
	for i := 0; i < substeps; i++ {
		sp.space.Step(h)
	}
	w.readBack(sp)
	w.query = nil
}

// ccdSubsteps returns how many sub-steps the fastest CCD body needs so that
// it never travels further than its smallest extent in one of them.
func (w *World) ccdSubsteps() int {
	maxSteps := int(w.dt/w.minCCDDt + 0.5)
	n := 1
	w.bodies.each(func(_, _ uint32, b *Body) {
		if !b.CCD || b.Kind != Dynamic || b.Sleeping {
			return
		}
		extent := 0.0
		for _, ch := range b.colliders {
			c, ok := w.colliders.get(ch.index, ch.gen)
			if !ok {
				continue
			}
			if e := c.Shape.MinExtent(); extent == 0 || e < extent {
				extent = e
			}
		}
		if extent == 0 {
			return
		}
		v := b.LinearVelocity.Add(w.gravity.Mult(b.GravityScale * w.dt))
		travel := v.Length() * w.dt
		for n < maxSteps && travel/float64(n) > extent {
			n++
		}
	})
	return n
}

// Snapshot is a deep copy of a World's mutable state.
type Snapshot struct {
	bodies    arena[Body]
	colliders arena[Collider]
	registry  []registryEntry
}

type registryEntry struct {
	owner Owner
	pair  HandlePair
}

func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		bodies:    w.bodies.clone(Body.clone),
		colliders: w.colliders.clone(nil),
		registry:  make([]registryEntry, 0, w.registry.Len()),
	}
	for el := w.registry.Front(); el != nil; el = el.Next() {
		s.registry = append(s.registry, registryEntry{owner: el.Key, pair: el.Value})
	}
	return s
}

// Restore replaces the world's state with a copy of s. The snapshot stays
// usable afterwards.
func (w *World) Restore(s *Snapshot) {
	w.bodies = s.bodies.clone(Body.clone)
	w.colliders = s.colliders.clone(nil)
	w.registry = orderedmap.NewOrderedMap[Owner, HandlePair]()
	for _, e := range s.registry {
		w.registry.Set(e.owner, e.pair)
	}
	w.query = nil
}
