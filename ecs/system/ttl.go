package system

import (
	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero. Run it before PhysicsSystem so the handles of an
// expired entity are released on the same tick.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range inOrder(w, component.TTLComponent.Kind()) {
		ttl, _ := ecs.Get(w, e, component.TTLComponent.Kind())
		if ttl.Frames > 1 {
			ttl.Frames--
			continue
		}
		ecs.DestroyEntity(w, e)
	}
}
