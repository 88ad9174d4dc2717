package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Owner is the id of the game entity a handle pair belongs to.
type Owner uint64

// Candidate is an entity that carries both a body and a collider
// descriptor. Values are in presentation units.
type Candidate struct {
	Owner    Owner
	Kind     BodyKind
	Shape    Shape
	Position mgl64.Vec2
	Rotation float64
}

// Created reports a handle pair made by CreateHandles.
type Created struct {
	Owner Owner
	Pair  HandlePair
}

// CreateHandles builds and inserts a body and collider for every candidate
// that has none yet. Candidates must already be in canonical order; pairs
// are registered in that order.
func (w *World) CreateHandles(candidates []Candidate) []Created {
	var out []Created
	for _, c := range candidates {
		if _, ok := w.registry.Get(c.Owner); ok {
			continue
		}
		body := NewBody(c.Kind, w.scaler.VecToSimulation(c.Position), c.Rotation)
		collider := NewCollider(c.Shape.ToSimulation(w.scaler))
		bh, ch := w.Insert(body, collider)
		pair := HandlePair{Body: bh, Collider: ch}
		w.registry.Set(c.Owner, pair)
		out = append(out, Created{Owner: c.Owner, Pair: pair})
	}
	return out
}

// DestroyHandles removes every registered owner missing from survivors, in
// registration order, and returns the owners removed.
func (w *World) DestroyHandles(survivors []Owner) []Owner {
	alive := make(map[Owner]struct{}, len(survivors))
	for _, o := range survivors {
		alive[o] = struct{}{}
	}
	var gone []Owner
	for el := w.registry.Front(); el != nil; el = el.Next() {
		if _, ok := alive[el.Key]; !ok {
			gone = append(gone, el.Key)
		}
	}
	for _, o := range gone {
		pair, _ := w.registry.Get(o)
		_, ok := w.RemoveBody(pair.Body)
		invariant(ok, "removing %v for owner %d: not in the world", pair.Body, o)
		if _, still := w.colliders.get(pair.Collider.index, pair.Collider.gen); still {
			_, ok = w.RemoveCollider(pair.Collider)
			invariant(ok, "removing %v for owner %d: not in the world", pair.Collider, o)
		}
		w.registry.Delete(o)
	}
	return gone
}

// Lookup returns the handle pair registered for owner.
func (w *World) Lookup(owner Owner) (HandlePair, bool) {
	return w.registry.Get(owner)
}

// HandleCount is the number of registered owners.
func (w *World) HandleCount() int {
	return w.registry.Len()
}

// Owners lists registered owners in registration order.
func (w *World) Owners() []Owner {
	return w.registry.Keys()
}
