package component

import "github.com/milk9111/spacewar/physics"

const (
	LayerNone       uint32 = 0
	LayerWall       uint32 = 1 << 0
	LayerPlayer     uint32 = 1 << 1
	LayerProjectile uint32 = 1 << 2
	LayerAll        uint32 = ^uint32(0)
)

// CollisionLayer allows entities to declare a collision category and mask
// so the physics system can selectively enable/disable collisions between
// groups of objects. It takes precedence over the groups in
// PhysicsColliderOptions.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as LayerWall.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set (collide with all).
	Mask uint32 `yaml:"mask,omitempty"`
}

func (l CollisionLayer) Groups() physics.InteractionGroups {
	category, mask := l.Category, l.Mask
	if category == LayerNone {
		category = LayerWall
	}
	if mask == LayerNone {
		mask = LayerAll
	}
	return physics.InteractionGroups{Memberships: physics.Group(category), Filter: physics.Group(mask)}
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
