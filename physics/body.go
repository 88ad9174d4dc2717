package physics

import "github.com/jakecoffman/cp"

type BodyKind uint8

const (
	Fixed BodyKind = iota
	Dynamic
	KinematicPositionBased
	KinematicVelocityBased
)

func (k BodyKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	case KinematicPositionBased:
		return "kinematic_position"
	case KinematicVelocityBased:
		return "kinematic_velocity"
	}
	return "unknown"
}

func (k BodyKind) kinematic() bool {
	return k == KinematicPositionBased || k == KinematicVelocityBased
}

// SleepOverride forces a body asleep or awake. SleepNone leaves it alone.
type SleepOverride uint8

const (
	SleepNone SleepOverride = iota
	SleepForce
	WakeForce
)

// BodyOptions holds the per-body tuning knobs, in presentation units.
type BodyOptions struct {
	GravityScale   float64
	LinearDamping  float64
	AngularDamping float64
	AdditionalMass float64
	CCD            bool
	Sleep          SleepOverride
}

func DefaultBodyOptions() BodyOptions {
	return BodyOptions{GravityScale: 1}
}

// BodyVelocity overrides a body's velocities for one tick. Linear is in
// presentation units per second.
type BodyVelocity struct {
	HasLinear  bool
	Linear     cp.Vector
	HasAngular bool
	Angular    float64
}

// Body is the plain, copyable state of one rigid body. Everything the
// solver needs for a tick is in here, so restoring a snapshot restores
// the simulation exactly.
type Body struct {
	Kind            BodyKind
	Position        cp.Vector
	Angle           float64
	LinearVelocity  cp.Vector
	AngularVelocity float64
	GravityScale    float64
	LinearDamping   float64
	AngularDamping  float64
	AdditionalMass  float64
	CCD             bool
	Sleeping        bool

	HasNext      bool
	NextPosition cp.Vector

	colliders []ColliderHandle
}

func NewBody(kind BodyKind, position cp.Vector, angle float64) Body {
	return Body{Kind: kind, Position: position, Angle: angle, GravityScale: 1}
}

// Colliders returns the collider handles attached to the body.
func (b *Body) Colliders() []ColliderHandle {
	return b.colliders
}

// ApplyOptions copies opts onto the body, converting the damping and mass
// terms to simulation units. It reports whether any value changed; bodies
// are only woken when something did.
func (b *Body) ApplyOptions(opts BodyOptions, s Scaler) bool {
	changed := false
	set := func(dst *float64, v float64) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&b.GravityScale, opts.GravityScale)
	set(&b.LinearDamping, s.ToSimulation(opts.LinearDamping))
	set(&b.AngularDamping, opts.AngularDamping)
	set(&b.AdditionalMass, s.ToSimulation(opts.AdditionalMass))
	if b.CCD != opts.CCD {
		b.CCD = opts.CCD
		changed = true
	}
	switch opts.Sleep {
	case SleepForce:
		if !b.Sleeping {
			b.Sleeping = true
			return true
		}
		return changed
	case WakeForce:
		if b.Sleeping {
			b.Sleeping = false
			return true
		}
	}
	if changed {
		b.Sleeping = false
	}
	return changed
}

// ApplyVelocity overwrites whichever velocities v carries.
func (b *Body) ApplyVelocity(v BodyVelocity, s Scaler) bool {
	changed := false
	if v.HasLinear {
		lin := cp.Vector{X: s.ToSimulation(v.Linear.X), Y: s.ToSimulation(v.Linear.Y)}
		if lin != b.LinearVelocity {
			b.LinearVelocity = lin
			changed = true
		}
	}
	if v.HasAngular && v.Angular != b.AngularVelocity {
		b.AngularVelocity = v.Angular
		changed = true
	}
	if changed && b.Kind == Dynamic {
		b.Sleeping = false
	}
	return changed
}

func (b Body) clone() Body {
	b.colliders = append([]ColliderHandle(nil), b.colliders...)
	return b
}
