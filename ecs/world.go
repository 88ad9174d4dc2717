package ecs

import (
	"fmt"

	"github.com/milk9111/spacewar/ecs/component"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

type store struct {
	set   *SparseSet
	clone func(any) any
}

// World owns entities and their components. Components are plain values
// held by pointer; Clone copies every one of them.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*store
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*store)}
}

func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, st := range w.stores {
		st.set.Remove(e.id())
	}
	return w.entities.destroy(e)
}

func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity in ascending id order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.entities.count)
	for i, alive := range w.entities.alive {
		if alive {
			out = append(out, w.entities.entity(entityID(i+1)))
		}
	}
	return out
}

func (w *World) EntityCount() int {
	return w.entities.count
}

// Query returns the entities carrying every given kind, in ascending id
// order.
func (w *World) Query(kinds ...component.Kind) []Entity {
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		st, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		sets = append(sets, st.set)
	}
	ids := intersect(sets...)
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.entities.entity(id))
	}
	return out
}

// Clone deep-copies the world. The copy shares nothing with w.
func (w *World) Clone() *World {
	out := &World{
		entities: w.entities.clone(),
		stores:   make(map[component.ComponentID]*store, len(w.stores)),
	}
	for id, st := range w.stores {
		out.stores[id] = &store{set: st.set.clone(st.clone), clone: st.clone}
	}
	return out
}

func (w *World) storeFor(id component.ComponentID, clone func(any) any) *store {
	st, ok := w.stores[id]
	if !ok {
		st = &store{set: &SparseSet{}, clone: clone}
		w.stores[id] = st
	}
	return st
}

func (w *World) set(e Entity, id component.ComponentID, value any, clone func(any) any) error {
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %v", component.ErrEntityNotAlive, e)
	}
	w.storeFor(id, clone).set.Set(e.id(), value)
	return nil
}

func (w *World) get(e Entity, id component.ComponentID) (any, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	st, ok := w.stores[id]
	if !ok {
		return nil, false
	}
	v := st.set.Get(e.id())
	return v, v != nil
}

func (w *World) remove(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	st, ok := w.stores[id]
	if !ok {
		return false
	}
	return st.set.Remove(e.id())
}
