package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is one entity of a scenario. Components maps a component
// name (see the *ComponentSpec types) to its raw YAML value.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

// BodyComponentSpec.Kind is one of fixed, dynamic, kinematic_position or
// kinematic_velocity.
type BodyComponentSpec struct {
	Kind string `yaml:"kind"`
}

// ColliderComponentSpec.Shape is circle or rectangle.
type ColliderComponentSpec struct {
	Shape  string  `yaml:"shape"`
	Radius float64 `yaml:"radius"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BodyOptionsComponentSpec struct {
	GravityScale   *float64 `yaml:"gravity_scale"`
	LinearDamping  float64  `yaml:"linear_damping"`
	AngularDamping float64  `yaml:"angular_damping"`
	AdditionalMass float64  `yaml:"additional_mass"`
	CCD            bool     `yaml:"ccd"`
	// Sleep is "sleep", "wake" or empty.
	Sleep string `yaml:"sleep"`
}

type ColliderOptionsComponentSpec struct {
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
	// ActiveTypes lists body-kind pairs such as dynamic_fixed or
	// kinematic_kinematic.
	ActiveTypes []string `yaml:"active_types"`
}

// CollisionLayerComponentSpec names layers: all, none, wall, player,
// projectile.
type CollisionLayerComponentSpec struct {
	Category []string `yaml:"category"`
	Mask     []string `yaml:"mask"`
}

type VelocityComponentSpec struct {
	Linear  *VecSpec `yaml:"linear"`
	Angular *float64 `yaml:"angular"`
}

type CharacterControllerComponentSpec struct {
	Up              *VecSpec `yaml:"up"`
	MaxSlopeDegrees float64  `yaml:"max_slope_deg"`
	Offset          *float64 `yaml:"offset"`
	Slide           *bool    `yaml:"slide"`
}

type PlayerComponentSpec struct {
	Slot      int     `yaml:"slot"`
	Behavior  string  `yaml:"behavior"`
	MoveSpeed float64 `yaml:"move_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

type TTLComponentSpec struct {
	Frames int `yaml:"frames"`
}
