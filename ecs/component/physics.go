package component

import "github.com/milk9111/spacewar/physics"

// PhysicsBody marks an entity as simulated. Kind must not change once the
// body exists.
type PhysicsBody struct {
	Kind physics.BodyKind
}

// PhysicsCollider gives a simulated entity its outline, in presentation
// units.
type PhysicsCollider struct {
	Shape physics.Shape
}

type PhysicsBodyOptions struct {
	physics.BodyOptions
}

type PhysicsColliderOptions struct {
	physics.ColliderOptions
}

// PhysicsBodyVelocity overrides the body's velocity on every tick it is
// present.
type PhysicsBodyVelocity struct {
	physics.BodyVelocity
}

// PhysicsHandle is attached once the body and collider exist.
type PhysicsHandle struct {
	physics.HandlePair
}

var (
	PhysicsBodyComponent            = NewComponent[PhysicsBody]()
	PhysicsColliderComponent        = NewComponent[PhysicsCollider]()
	PhysicsBodyOptionsComponent     = NewComponent[PhysicsBodyOptions]()
	PhysicsColliderOptionsComponent = NewComponent[PhysicsColliderOptions]()
	PhysicsBodyVelocityComponent    = NewComponent[PhysicsBodyVelocity]()
	PhysicsHandleComponent          = NewComponent[PhysicsHandle]()
)
