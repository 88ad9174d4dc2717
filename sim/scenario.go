package sim

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/physics"
	"github.com/milk9111/spacewar/prefabs"
)

// LoadSession builds a simulation from a session spec and spawns the scenario it
// names.
func LoadSession(session prefabs.SessionSpec) (*Simulation, prefabs.ScenarioSpec, error) {
	var scenario prefabs.ScenarioSpec
	s, err := New(ConfigFromSpec(session))
	if err != nil {
		return nil, scenario, err
	}
	if session.Scenario == "" {
		return s, scenario, nil
	}
	scenario, err = prefabs.LoadScenarioSpec(session.Scenario)
	if err != nil {
		return nil, scenario, err
	}
	if err := s.SpawnScenario(scenario); err != nil {
		return nil, scenario, err
	}
	return s, scenario, nil
}

// SpawnScenario compiles the scenario's behaviors and spawns its entities
// in listed order, so list position decides sequence order.
func (s *Simulation) SpawnScenario(spec prefabs.ScenarioSpec) error {
	for _, name := range spec.BehaviorNames() {
		src, err := prefabs.LoadScript(spec.Behaviors[name])
		if err != nil {
			return fmt.Errorf("sim: behavior %s: %w", name, err)
		}
		if err := s.RegisterBehavior(name, src); err != nil {
			return fmt.Errorf("sim: behavior %s: %w", name, err)
		}
	}
	for i, es := range spec.Entities {
		b, err := BundleFromSpec(es)
		if err != nil {
			return fmt.Errorf("sim: scenario %s: entity %d (%s): %w", spec.Name, i, es.Name, err)
		}
		if _, err := s.Spawn(b); err != nil {
			return fmt.Errorf("sim: scenario %s: entity %d (%s): %w", spec.Name, i, es.Name, err)
		}
	}
	log.Printf("sim: scenario %q spawned %d entities", spec.Name, len(spec.Entities))
	return nil
}

// BundleFromSpec decodes an entity's component specs.
func BundleFromSpec(es prefabs.EntityBuildSpec) (Bundle, error) {
	var b Bundle
	for name, raw := range es.Components {
		var err error
		switch name {
		case "transform":
			err = decodeTransform(raw, &b)
		case "body":
			err = decodeBody(raw, &b)
		case "collider":
			err = decodeCollider(raw, &b)
		case "body_options":
			err = decodeBodyOptions(raw, &b)
		case "collider_options":
			err = decodeColliderOptions(raw, &b)
		case "collision_layer":
			err = decodeLayer(raw, &b)
		case "velocity":
			err = decodeVelocity(raw, &b)
		case "character_controller":
			err = decodeController(raw, &b)
		case "player":
			err = decodePlayer(raw, &b)
		case "ttl":
			err = decodeTTL(raw, &b)
		default:
			err = fmt.Errorf("unknown component %q", name)
		}
		if err != nil {
			return Bundle{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func decodeTransform(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	b.Transform = component.Transform{X: spec.X, Y: spec.Y, Rotation: spec.Rotation}
	return nil
}

func decodeBody(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return err
	}
	for k := physics.Fixed; k <= physics.KinematicVelocityBased; k++ {
		if k.String() == spec.Kind {
			b.Body = &component.PhysicsBody{Kind: k}
			return nil
		}
	}
	return fmt.Errorf("unknown body kind %q", spec.Kind)
}

func decodeCollider(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ColliderComponentSpec](raw)
	if err != nil {
		return err
	}
	var shape physics.Shape
	switch spec.Shape {
	case "circle":
		if spec.Radius <= 0 {
			return fmt.Errorf("circle radius %v", spec.Radius)
		}
		shape = physics.Circle(spec.Radius)
	case "rectangle":
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("rectangle size %vx%v", spec.Width, spec.Height)
		}
		shape = physics.Rectangle(spec.Width, spec.Height)
	default:
		return fmt.Errorf("unknown shape %q", spec.Shape)
	}
	b.Collider = &component.PhysicsCollider{Shape: shape}
	return nil
}

func decodeBodyOptions(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyOptionsComponentSpec](raw)
	if err != nil {
		return err
	}
	opts := physics.DefaultBodyOptions()
	if spec.GravityScale != nil {
		opts.GravityScale = *spec.GravityScale
	}
	opts.LinearDamping = spec.LinearDamping
	opts.AngularDamping = spec.AngularDamping
	opts.AdditionalMass = spec.AdditionalMass
	opts.CCD = spec.CCD
	switch spec.Sleep {
	case "":
	case "sleep":
		opts.Sleep = physics.SleepForce
	case "wake":
		opts.Sleep = physics.WakeForce
	default:
		return fmt.Errorf("unknown sleep override %q", spec.Sleep)
	}
	b.BodyOptions = &component.PhysicsBodyOptions{BodyOptions: opts}
	return nil
}

var activeTypeNames = map[string]physics.ActiveCollisionTypes{
	"dynamic_dynamic":     physics.DynamicDynamic,
	"dynamic_kinematic":   physics.DynamicKinematic,
	"dynamic_fixed":       physics.DynamicFixed,
	"kinematic_kinematic": physics.KinematicKinematic,
	"kinematic_fixed":     physics.KinematicFixed,
	"fixed_fixed":         physics.FixedFixed,
	"default":             physics.DefaultActiveCollisionTypes,
	"all":                 physics.AllActiveCollisionTypes,
}

func decodeColliderOptions(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ColliderOptionsComponentSpec](raw)
	if err != nil {
		return err
	}
	opts := physics.DefaultColliderOptions()
	if spec.Friction != nil {
		opts.Friction = *spec.Friction
	}
	if spec.Restitution != nil {
		opts.Restitution = *spec.Restitution
	}
	if len(spec.ActiveTypes) > 0 {
		opts.ActiveTypes = 0
		for _, name := range spec.ActiveTypes {
			t, ok := activeTypeNames[name]
			if !ok {
				return fmt.Errorf("unknown active collision type %q", name)
			}
			opts.ActiveTypes |= t
		}
	}
	b.ColliderOptions = &component.PhysicsColliderOptions{ColliderOptions: opts}
	return nil
}

var layerNames = map[string]uint32{
	"none":       component.LayerNone,
	"wall":       component.LayerWall,
	"player":     component.LayerPlayer,
	"projectile": component.LayerProjectile,
	"all":        component.LayerAll,
}

func layerBits(names []string) (uint32, error) {
	var bits uint32
	for _, name := range names {
		l, ok := layerNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown collision layer %q", name)
		}
		bits |= l
	}
	return bits, nil
}

func decodeLayer(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionLayerComponentSpec](raw)
	if err != nil {
		return err
	}
	category, err := layerBits(spec.Category)
	if err != nil {
		return err
	}
	mask, err := layerBits(spec.Mask)
	if err != nil {
		return err
	}
	b.Layer = &component.CollisionLayer{Category: category, Mask: mask}
	return nil
}

func decodeVelocity(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.VelocityComponentSpec](raw)
	if err != nil {
		return err
	}
	var v physics.BodyVelocity
	if spec.Linear != nil {
		v.HasLinear = true
		v.Linear = cp.Vector{X: spec.Linear.X, Y: spec.Linear.Y}
	}
	if spec.Angular != nil {
		v.HasAngular = true
		v.Angular = *spec.Angular
	}
	b.Velocity = &component.PhysicsBodyVelocity{BodyVelocity: v}
	return nil
}

func decodeController(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CharacterControllerComponentSpec](raw)
	if err != nil {
		return err
	}
	cc := component.NewCharacterController()
	if spec.Up != nil {
		up := mgl64.Vec2{spec.Up.X, spec.Up.Y}
		if up.Len() == 0 {
			return fmt.Errorf("zero up vector")
		}
		cc.Up = up.Normalize()
		cc.Right = mgl64.Vec2{cc.Up.Y(), -cc.Up.X()}
	}
	if spec.MaxSlopeDegrees != 0 {
		cc.MaxSlopeClimbAngle = spec.MaxSlopeDegrees * math.Pi / 180
	}
	if spec.Offset != nil {
		cc.Offset = *spec.Offset
	}
	if spec.Slide != nil {
		cc.Slide = *spec.Slide
	}
	b.Controller = &cc
	return nil
}

func decodePlayer(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return err
	}
	b.Player = &component.Player{
		Slot:      spec.Slot,
		Behavior:  spec.Behavior,
		MoveSpeed: spec.MoveSpeed,
		JumpSpeed: spec.JumpSpeed,
	}
	return nil
}

func decodeTTL(raw any, b *Bundle) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return err
	}
	b.TTL = &component.TTL{Frames: spec.Frames}
	return nil
}
