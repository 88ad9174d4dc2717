package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

type ShapeKind uint8

const (
	CircleShape ShapeKind = iota
	RectangleShape
)

// Shape is a collider outline. Rectangles are given by full width and
// height, circles by radius.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
}

func Circle(radius float64) Shape {
	return Shape{Kind: CircleShape, Radius: radius}
}

func Rectangle(width, height float64) Shape {
	return Shape{Kind: RectangleShape, Width: width, Height: height}
}

func (s Shape) ToSimulation(sc Scaler) Shape {
	return Shape{
		Kind:   s.Kind,
		Radius: sc.ToSimulation(s.Radius),
		Width:  sc.ToSimulation(s.Width),
		Height: sc.ToSimulation(s.Height),
	}
}

func (s Shape) ToPresentation(sc Scaler) Shape {
	return Shape{
		Kind:   s.Kind,
		Radius: sc.ToPresentation(s.Radius),
		Width:  sc.ToPresentation(s.Width),
		Height: sc.ToPresentation(s.Height),
	}
}

// MinExtent is the smallest distance from the shape's center to its edge.
func (s Shape) MinExtent() float64 {
	if s.Kind == CircleShape {
		return s.Radius
	}
	return math.Min(s.Width, s.Height) / 2
}

func (s Shape) area() float64 {
	if s.Kind == CircleShape {
		return math.Pi * s.Radius * s.Radius
	}
	return s.Width * s.Height
}

func (s Shape) moment(mass float64) float64 {
	if s.Kind == CircleShape {
		return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
	}
	return cp.MomentForBox(mass, s.Width, s.Height)
}

func (s Shape) valid() bool {
	if s.Kind == CircleShape {
		return s.Radius > 0
	}
	return s.Width > 0 && s.Height > 0
}

// Group is a collision layer bit.
type Group uint32

const (
	GroupNone Group = 0
	GroupAll  Group = math.MaxUint32
)

// InteractionGroups pairs the layers a collider belongs to with the layers
// it accepts contacts from.
type InteractionGroups struct {
	Memberships Group
	Filter      Group
}

func AllGroups() InteractionGroups {
	return InteractionGroups{Memberships: GroupAll, Filter: GroupAll}
}

// Test reports whether a and b may interact. Both sides must accept.
func (g InteractionGroups) Test(o InteractionGroups) bool {
	return g.Memberships&o.Filter != 0 && o.Memberships&g.Filter != 0
}

// ActiveCollisionTypes is a bitmask over body-kind pairs.
type ActiveCollisionTypes uint16

const (
	DynamicDynamic ActiveCollisionTypes = 1 << iota
	DynamicKinematic
	DynamicFixed
	KinematicKinematic
	KinematicFixed
	FixedFixed

	DefaultActiveCollisionTypes = DynamicDynamic | DynamicKinematic | DynamicFixed
	AllActiveCollisionTypes     = DynamicDynamic | DynamicKinematic | DynamicFixed | KinematicKinematic | KinematicFixed | FixedFixed
)

func pairType(a, b BodyKind) ActiveCollisionTypes {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == Fixed && b == Fixed:
		return FixedFixed
	case a == Fixed && b == Dynamic, a == Dynamic && b == Fixed:
		return DynamicFixed
	case a == Fixed:
		return KinematicFixed
	case a == Dynamic && b == Dynamic:
		return DynamicDynamic
	case a == Dynamic:
		return DynamicKinematic
	}
	return KinematicKinematic
}

// Test reports whether a contact between bodies of kind a and b is active.
func (t ActiveCollisionTypes) Test(a, b BodyKind) bool {
	return t&pairType(a, b) != 0
}

// ColliderOptions holds optional collider tuning. Absent groups default to
// all layers.
type ColliderOptions struct {
	Friction    float64
	Restitution float64
	HasGroups   bool
	Groups      InteractionGroups
	ActiveTypes ActiveCollisionTypes
}

func DefaultColliderOptions() ColliderOptions {
	return ColliderOptions{
		Friction:    1.0,
		Restitution: 0.1,
		ActiveTypes: DefaultActiveCollisionTypes,
	}
}

// Collider is the plain state of one collider. Shape is in simulation
// units and the pose mirrors its parent body after every step.
type Collider struct {
	Shape       Shape
	Parent      BodyHandle
	Position    cp.Vector
	Angle       float64
	Friction    float64
	Restitution float64
	Groups      InteractionGroups
	ActiveTypes ActiveCollisionTypes
}

func NewCollider(shape Shape) Collider {
	opts := DefaultColliderOptions()
	c := Collider{Shape: shape}
	c.ApplyOptions(opts)
	return c
}

// ApplyOptions copies opts onto the collider and reports whether anything
// changed.
func (c *Collider) ApplyOptions(opts ColliderOptions) bool {
	groups := AllGroups()
	if opts.HasGroups {
		groups = opts.Groups
	}
	changed := c.Friction != opts.Friction ||
		c.Restitution != opts.Restitution ||
		c.Groups != groups ||
		c.ActiveTypes != opts.ActiveTypes
	c.Friction = opts.Friction
	c.Restitution = opts.Restitution
	c.Groups = groups
	c.ActiveTypes = opts.ActiveTypes
	return changed
}
