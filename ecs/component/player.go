package component

import "github.com/milk9111/spacewar/rollback"

// Player binds an entity to an input slot. Input is rewritten at the start
// of every frame; Behavior names the script that turns it into a desired
// velocity.
type Player struct {
	Slot      int
	Input     rollback.Input
	Behavior  string
	MoveSpeed float64
	JumpSpeed float64
}

var PlayerComponent = NewComponent[Player]()
