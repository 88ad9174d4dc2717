package sim

import (
	"fmt"

	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/physics"
)

// Bundle is the component set an entity is spawned with. Nil components
// are left off.
type Bundle struct {
	Transform       component.Transform
	Body            *component.PhysicsBody
	Collider        *component.PhysicsCollider
	BodyOptions     *component.PhysicsBodyOptions
	ColliderOptions *component.PhysicsColliderOptions
	Velocity        *component.PhysicsBodyVelocity
	Layer           *component.CollisionLayer
	Controller      *component.CharacterController
	Player          *component.Player
	TTL             *component.TTL
}

// Validate rejects component pairings the physics pipeline cannot run. A
// character controller moves its body by queued translation, so the body
// must be position based.
func (b Bundle) Validate() error {
	if b.Controller != nil && b.Body != nil && b.Body.Kind != physics.KinematicPositionBased {
		return fmt.Errorf("character controller needs a %v body, got %v", physics.KinematicPositionBased, b.Body.Kind)
	}
	return nil
}

// Spawn creates an entity with the next free sequence number.
func (s *Simulation) Spawn(b Bundle) (ecs.Entity, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("sim: spawn: %w", err)
	}
	return s.spawn(s.order.Next(), b)
}

// SpawnSeq creates an entity with a sequence number chosen by the caller,
// typically the netcode layer. Reusing a sequence panics.
func (s *Simulation) SpawnSeq(seq uint64, b Bundle) (ecs.Entity, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("sim: spawn %d: %w", seq, err)
	}
	s.order.Register(seq)
	return s.spawn(seq, b)
}

func (s *Simulation) spawn(seq uint64, b Bundle) (ecs.Entity, error) {
	w := s.world
	e := ecs.CreateEntity(w)
	tf := b.Transform
	if err := ecs.Add(w, e, component.RollbackComponent.Kind(), &component.Rollback{Seq: seq}); err != nil {
		return e, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tf); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PhysicsBodyComponent.Kind(), b.Body); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PhysicsColliderComponent.Kind(), b.Collider); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PhysicsBodyOptionsComponent.Kind(), b.BodyOptions); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PhysicsColliderOptionsComponent.Kind(), b.ColliderOptions); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PhysicsBodyVelocityComponent.Kind(), b.Velocity); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.CollisionLayerComponent.Kind(), b.Layer); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.CharacterControllerComponent.Kind(), b.Controller); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.PlayerComponent.Kind(), b.Player); err != nil {
		return e, err
	}
	if err := addOptional(w, e, component.TTLComponent.Kind(), b.TTL); err != nil {
		return e, err
	}
	return e, nil
}

// addOptional adds a copy of v when it is set, so the caller's bundle is
// never aliased by the world.
func addOptional[T any](w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) error {
	if v == nil {
		return nil
	}
	c := *v
	return ecs.Add(w, e, kind, &c)
}

// Despawn destroys e. Its physics handles go on the next Advance.
func (s *Simulation) Despawn(e ecs.Entity) bool {
	return ecs.DestroyEntity(s.world, e)
}

// Entity returns the live entity holding seq.
func (s *Simulation) Entity(seq uint64) (ecs.Entity, bool) {
	for _, e := range s.world.Query(component.RollbackComponent.Kind()) {
		rb, _ := ecs.Get(s.world, e, component.RollbackComponent.Kind())
		if rb.Seq == seq {
			return e, true
		}
	}
	return 0, false
}
