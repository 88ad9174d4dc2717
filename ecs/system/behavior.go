package system

import (
	"log"

	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/script"
)

// BehaviorSystem runs each player's behavior script and writes the result
// into its character controller's desired velocity. Gravity is in
// presentation units per second squared along the controller's up axis.
type BehaviorSystem struct {
	behaviors map[string]*script.Behavior
	gravity   float64
	dt        float64
	failed    map[string]bool
}

func NewBehaviorSystem(gravity, dt float64) *BehaviorSystem {
	return &BehaviorSystem{
		behaviors: make(map[string]*script.Behavior),
		gravity:   gravity,
		dt:        dt,
		failed:    make(map[string]bool),
	}
}

// Register installs b under name, replacing any previous behavior.
func (s *BehaviorSystem) Register(name string, b *script.Behavior) {
	s.behaviors[name] = b
	delete(s.failed, name)
}

func (s *BehaviorSystem) Len() int {
	return len(s.behaviors)
}

func (s *BehaviorSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, e := range inOrder(w, component.PlayerComponent.Kind(), component.CharacterControllerComponent.Kind()) {
		player, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		cc, _ := ecs.Get(w, e, component.CharacterControllerComponent.Kind())

		b, ok := s.behaviors[player.Behavior]
		if !ok {
			continue
		}
		v, err := b.Update(script.Context{
			Input:     player.Input,
			Flags:     cc.Flags,
			Velocity:  cc.Resolved,
			MoveSpeed: player.MoveSpeed,
			JumpSpeed: player.JumpSpeed,
			Gravity:   s.gravity,
			DT:        s.dt,
		})
		if err != nil {
			// a broken script leaves the velocity alone; report it once
			if !s.failed[player.Behavior] {
				log.Printf("behavior: entity=%v %v", e, err)
				s.failed[player.Behavior] = true
			}
			continue
		}
		cc.Velocity = v
	}
}
