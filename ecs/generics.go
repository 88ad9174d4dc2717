package ecs

import (
	"fmt"

	"github.com/milk9111/spacewar/ecs/component"
)

func CreateEntity(w *World) Entity { return w.CreateEntity() }
func DestroyEntity(w *World, e Entity) bool { return w.DestroyEntity(e) }
func IsAlive(w *World, e Entity) bool { return w.IsAlive(e) }
func Entities(w *World) []Entity { return w.Entities() }

func cloneValue[T any](v any) any {
	c := *v.(*T)
	return &c
}

// Add stores value on e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if err := w.set(e, kind.ID(), value, cloneValue[T]); err != nil {
		return fmt.Errorf("add %s: %w", kind.Name(), err)
	}
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	v, ok := w.get(e, kind.ID())
	if !ok {
		return nil, false
	}
	out, ok := v.(*T)
	return out, ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := w.get(e, kind.ID())
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.remove(e, kind.ID())
}

// ForEach visits every entity carrying kind in ascending id order. The
// entity list is taken before the first call, so fn may add or destroy.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range w.Query(ka) {
		a, okA := Get(w, e, ka)
		if okA {
			fn(e, a)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
