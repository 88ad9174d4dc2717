package system

import (
	"fmt"

	"github.com/milk9111/spacewar/common"
	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/physics"
)

// PhysicsSystem runs the per-tick physics pipeline against one
// physics.World:
//
//	create handles, destroy handles, apply options and velocity overrides,
//	move character controllers, sync transforms, step.
//
// Each stage walks its entities in rollback sequence order. Contact flag
// changes of the latest tick are queued on Events.
type PhysicsSystem struct {
	world  *physics.World
	events *ecs.EventQueue
}

func NewPhysicsSystem(world *physics.World) *PhysicsSystem {
	return &PhysicsSystem{world: world, events: &ecs.EventQueue{}}
}

func (ps *PhysicsSystem) Events() *ecs.EventQueue {
	if ps == nil {
		return nil
	}
	return ps.events
}

func (ps *PhysicsSystem) World() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.world == nil || w == nil {
		return
	}

	ps.events.Reset()
	ps.createHandles(w)
	ps.destroyHandles(w)
	ps.applyOptions(w)
	ps.moveCharacters(w)
	ps.syncTransforms(w)

	ps.world.Step()
}

func (ps *PhysicsSystem) createHandles(w *ecs.World) {
	ents := inOrder(w, component.PhysicsBodyComponent.Kind(), component.PhysicsColliderComponent.Kind())
	candidates := make([]physics.Candidate, 0, len(ents))
	for _, e := range ents {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		collider, _ := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
		var tf component.Transform
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			tf = *t
		}
		candidates = append(candidates, physics.Candidate{
			Owner:    physics.Owner(e),
			Kind:     body.Kind,
			Shape:    collider.Shape,
			Position: tf.Position(),
			Rotation: tf.Rotation,
		})
	}

	for _, c := range ps.world.CreateHandles(candidates) {
		e := ecs.Entity(c.Owner)
		if err := ecs.Add(w, e, component.PhysicsHandleComponent.Kind(), &component.PhysicsHandle{HandlePair: c.Pair}); err != nil {
			panic("physics system: attach handle: " + err.Error())
		}
	}
}

func (ps *PhysicsSystem) destroyHandles(w *ecs.World) {
	ents := w.Query(component.PhysicsBodyComponent.Kind(), component.PhysicsColliderComponent.Kind())
	survivors := make([]physics.Owner, 0, len(ents))
	for _, e := range ents {
		survivors = append(survivors, physics.Owner(e))
	}
	for _, owner := range ps.world.DestroyHandles(survivors) {
		ecs.Remove(w, ecs.Entity(owner), component.PhysicsHandleComponent.Kind())
	}
}

func (ps *PhysicsSystem) applyOptions(w *ecs.World) {
	scaler := ps.world.Scaler()
	for _, e := range inOrder(w, component.PhysicsHandleComponent.Kind()) {
		h, _ := ecs.Get(w, e, component.PhysicsHandleComponent.Kind())

		body, ok := ps.world.BodyMut(h.Body)
		if !ok {
			panic(fmt.Sprintf("physics system: entity %v: %v not in the world", e, h.Body))
		}
		if desc, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && desc.Kind != body.Kind {
			panic(fmt.Sprintf("physics system: entity %v changed body kind from %v to %v", e, body.Kind, desc.Kind))
		}
		bodyOpts := physics.DefaultBodyOptions()
		if o, ok := ecs.Get(w, e, component.PhysicsBodyOptionsComponent.Kind()); ok {
			bodyOpts = o.BodyOptions
		}
		body.ApplyOptions(bodyOpts, scaler)

		if v, ok := ecs.Get(w, e, component.PhysicsBodyVelocityComponent.Kind()); ok {
			body.ApplyVelocity(v.BodyVelocity, scaler)
		}

		collider, ok := ps.world.ColliderMut(h.Collider)
		if !ok {
			panic(fmt.Sprintf("physics system: entity %v: %v not in the world", e, h.Collider))
		}
		colliderOpts := physics.DefaultColliderOptions()
		if o, ok := ecs.Get(w, e, component.PhysicsColliderOptionsComponent.Kind()); ok {
			colliderOpts = o.ColliderOptions
		}
		if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			colliderOpts.HasGroups = true
			colliderOpts.Groups = layer.Groups()
		}
		collider.ApplyOptions(colliderOpts)
	}
}

// moveCharacters sweeps every character controller's collider along its
// desired velocity and queues the result as the body's next position.
func (ps *PhysicsSystem) moveCharacters(w *ecs.World) {
	scaler := ps.world.Scaler()
	dt := ps.world.DT()
	for _, e := range inOrder(w, component.CharacterControllerComponent.Kind(), component.PhysicsHandleComponent.Kind()) {
		cc, _ := ecs.Get(w, e, component.CharacterControllerComponent.Kind())
		h, _ := ecs.Get(w, e, component.PhysicsHandleComponent.Kind())

		body, ok := ps.world.Body(h.Body)
		if !ok {
			panic(fmt.Sprintf("physics system: character %v: %v not in the world", e, h.Body))
		}
		collider, ok := ps.world.Collider(h.Collider)
		if !ok {
			panic(fmt.Sprintf("physics system: character %v: %v not in the world", e, h.Collider))
		}

		desired := scaler.VecToSimulation(cc.Velocity).Mult(dt)
		opts := physics.ControllerOptions{
			Up:                 common.ToPhysics(cc.Up),
			Offset:             scaler.ToSimulation(cc.Offset),
			Slide:              cc.Slide,
			MaxSlopeClimbAngle: cc.MaxSlopeClimbAngle,
		}
		filter := physics.QueryFilter{ExcludeBody: h.Body, HasGroups: true, Groups: collider.Groups}

		movement, contacts := ps.world.MoveShape(collider.Shape, physics.Pose{Position: body.Position, Angle: body.Angle}, desired, filter, opts)
		flags := physics.Classify(movement, contacts, cc.Up, cc.Right, cc.MaxSlopeClimbAngle)
		ps.queueContactEvents(w, e, cc.Flags, flags)
		cc.Flags = flags
		ps.world.SetNextKinematicTranslation(h.Body, body.Position.Add(movement.Translation))
		cc.Resolved = scaler.VecToPresentation(movement.Translation.Mult(1 / dt))
	}
}

func (ps *PhysicsSystem) queueContactEvents(w *ecs.World, e ecs.Entity, before, after physics.ContactFlags) {
	rb, _ := ecs.Get(w, e, component.RollbackComponent.Kind())
	push := func(kind ecs.ContactEventKind) {
		ps.events.Push(ecs.ContactEvent{Entity: e, Seq: rb.Seq, Kind: kind})
	}
	switch {
	case after.Grounded && !before.Grounded:
		push(ecs.ContactLanded)
	case !after.Grounded && before.Grounded:
		push(ecs.ContactAirborne)
	}
	if after.OnWall() && !before.OnWall() {
		push(ecs.ContactWall)
	}
	if after.Ceiling && !before.Ceiling {
		push(ecs.ContactCeiling)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	scaler := ps.world.Scaler()
	for _, e := range inOrder(w, component.PhysicsHandleComponent.Kind()) {
		h, _ := ecs.Get(w, e, component.PhysicsHandleComponent.Kind())
		body, ok := ps.world.Body(h.Body)
		if !ok {
			continue
		}
		pos := scaler.VecToPresentation(body.Position)
		tf := component.Transform{X: pos.X(), Y: pos.Y(), Rotation: body.Angle}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tf); err != nil {
			panic("physics system: sync transform: " + err.Error())
		}
	}
}
