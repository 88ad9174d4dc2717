package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	maxCastSamples    = 256
	castBisections    = 24
	maxMoveIterations = 4
	moveEpsilon       = 1e-9
	defaultSkinOffset = 0.01
	defaultMaxSlope   = math.Pi / 4
	groundProbeFactor = 2
)

// Pose is a position and rotation in simulation units.
type Pose struct {
	Position cp.Vector
	Angle    float64
}

// QueryFilter narrows what a cast can hit.
type QueryFilter struct {
	ExcludeBody BodyHandle
	HasGroups   bool
	Groups      InteractionGroups
}

type CastStatus uint8

const (
	// CastConverged: the shape was free at the start and touched an
	// obstacle part way along the displacement.
	CastConverged CastStatus = iota
	// CastPenetrating: the shape already overlapped the obstacle at the
	// start.
	CastPenetrating
)

// CastHit describes the first obstacle met by a swept shape. Normal is the
// obstacle's surface normal, pointing toward the swept shape. TOI is the
// fraction of the displacement that can be travelled freely.
type CastHit struct {
	Collider ColliderHandle
	TOI      float64
	Normal   cp.Vector
	Point    cp.Vector
	Depth    float64
	Status   CastStatus
}

// ControllerOptions tunes MoveShape. Distances are in simulation units.
type ControllerOptions struct {
	Up                 cp.Vector
	Offset             float64
	Slide              bool
	MaxSlopeClimbAngle float64
}

func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{
		Up:                 cp.Vector{X: 0, Y: 1},
		Offset:             defaultSkinOffset,
		Slide:              true,
		MaxSlopeClimbAngle: defaultMaxSlope,
	}
}

// Movement is the outcome of MoveShape.
type Movement struct {
	Translation cp.Vector
	Grounded    bool
}

// Contact is one obstacle met while moving. Translation is how far the
// mover had travelled when it was met.
type Contact struct {
	Collider    ColliderHandle
	Normal      cp.Vector
	Point       cp.Vector
	TOI         float64
	Status      CastStatus
	Translation cp.Vector
}

type overlap struct {
	collider ColliderHandle
	normal   cp.Vector
	point    cp.Vector
	depth    float64
}

type prober struct {
	w      *World
	idx    *spaceIndex
	body   *cp.Body
	shape  *cp.Shape
	extent float64
	filter QueryFilter
	ignore map[ColliderHandle]struct{}
}

func (w *World) newProber(s Shape, angle float64, filter QueryFilter) *prober {
	invariant(s.valid(), "cast shape has no extent: %+v", s)
	body := cp.NewKinematicBody()
	body.SetAngle(angle)
	shape := newSolverShape(body, s)
	groups := AllGroups()
	if filter.HasGroups {
		groups = filter.Groups
	}
	shape.SetFilter(cp.NewShapeFilter(0, uint(groups.Memberships), uint(groups.Filter)))
	return &prober{
		w:      w,
		idx:    w.queryIndex(),
		body:   body,
		shape:  shape,
		extent: s.MinExtent(),
		filter: filter,
		ignore: map[ColliderHandle]struct{}{},
	}
}

// overlaps lists every collider the probe shape penetrates at p, ordered by
// collider index.
func (p *prober) overlaps(at cp.Vector, useIgnore bool) []overlap {
	p.body.SetPosition(at)
	var out []overlap
	p.idx.space.ShapeQuery(p.shape, func(shape *cp.Shape, points *cp.ContactPointSet) {
		ch, ok := p.idx.shapes[shape]
		if !ok {
			return
		}
		if useIgnore {
			if _, skip := p.ignore[ch]; skip {
				return
			}
		}
		if p.filter.ExcludeBody.Valid() {
			if c, ok := p.w.colliders.get(ch.index, ch.gen); ok && c.Parent == p.filter.ExcludeBody {
				return
			}
		}
		depth := 0.0
		var point cp.Vector
		for i := 0; i < points.Count; i++ {
			if d := -points.Points[i].Distance; i == 0 || d > depth {
				depth = d
				point = points.Points[i].PointB
			}
		}
		out = append(out, overlap{
			collider: ch,
			normal:   points.Normal.Neg(),
			point:    point,
			depth:    depth,
		})
	})
	sortOverlaps(out)
	return out
}

func sortOverlaps(o []overlap) {
	for i := 1; i < len(o); i++ {
		for j := i; j > 0 && o[j].collider.index < o[j-1].collider.index; j-- {
			o[j], o[j-1] = o[j-1], o[j]
		}
	}
}

// deepest picks the overlap with the largest penetration, lowest collider
// index first on ties.
func deepest(o []overlap) overlap {
	best := o[0]
	for _, c := range o[1:] {
		if c.depth > best.depth {
			best = c
		}
	}
	return best
}

func (p *prober) cast(start, displacement cp.Vector) (CastHit, bool) {
	if hits := p.overlaps(start, true); len(hits) > 0 {
		h := deepest(hits)
		return CastHit{Collider: h.collider, Normal: h.normal, Point: h.point, Depth: h.depth, Status: CastPenetrating}, true
	}
	length := displacement.Length()
	if length <= moveEpsilon {
		return CastHit{}, false
	}
	n := int(math.Ceil(length / (p.extent / 2)))
	if n < 1 {
		n = 1
	}
	if n > maxCastSamples {
		n = maxCastSamples
	}
	lo := 0.0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		hits := p.overlaps(start.Add(displacement.Mult(t)), true)
		if len(hits) == 0 {
			lo = t
			continue
		}
		hi := t
		for k := 0; k < castBisections; k++ {
			mid := (lo + hi) / 2
			if hs := p.overlaps(start.Add(displacement.Mult(mid)), true); len(hs) > 0 {
				hi = mid
				hits = hs
			} else {
				lo = mid
			}
		}
		h := deepest(hits)
		return CastHit{Collider: h.collider, TOI: lo, Normal: h.normal, Point: h.point, Depth: h.depth, Status: CastConverged}, true
	}
	return CastHit{}, false
}

// CastShape sweeps shape from pose along displacement and reports the first
// obstacle hit.
func (w *World) CastShape(shape Shape, pose Pose, displacement cp.Vector, filter QueryFilter) (CastHit, bool) {
	return w.newProber(shape, pose.Angle, filter).cast(pose.Position, displacement)
}

// MoveShape moves shape from pose by up to desired, stopping short of
// obstacles by opts.Offset and sliding along them when opts.Slide is set.
// Obstacles already overlapped at the start are reported as penetrating
// contacts and motion into them is removed.
func (w *World) MoveShape(shape Shape, pose Pose, desired cp.Vector, filter QueryFilter, opts ControllerOptions) (Movement, []Contact) {
	p := w.newProber(shape, pose.Angle, filter)
	pos := pose.Position
	remaining := desired
	var contacts []Contact

	for _, o := range p.overlaps(pos, false) {
		contacts = append(contacts, Contact{
			Collider: o.collider,
			Normal:   o.normal,
			Point:    o.point,
			Status:   CastPenetrating,
		})
		remaining = clipAgainst(remaining, o.normal, opts.Slide)
		p.ignore[o.collider] = struct{}{}
	}

	for i := 0; i < maxMoveIterations; i++ {
		length := remaining.Length()
		if length <= moveEpsilon {
			break
		}
		hit, ok := p.cast(pos, remaining)
		if !ok {
			pos = pos.Add(remaining)
			remaining = cp.Vector{}
			break
		}
		travel := length*hit.TOI - opts.Offset
		if travel < 0 {
			travel = 0
		}
		applied := remaining.Mult(travel / length)
		pos = pos.Add(applied)
		contacts = append(contacts, Contact{
			Collider:    hit.Collider,
			Normal:      hit.Normal,
			Point:       hit.Point,
			TOI:         hit.TOI,
			Status:      hit.Status,
			Translation: pos.Sub(pose.Position),
		})
		if hit.Status == CastPenetrating {
			p.ignore[hit.Collider] = struct{}{}
		}
		remaining = clipAgainst(remaining.Sub(applied), hit.Normal, opts.Slide)
	}

	return Movement{
		Translation: pos.Sub(pose.Position),
		Grounded:    p.grounded(pos, opts),
	}, contacts
}

// clipAgainst removes the part of v that points into a surface with normal
// n. Without sliding any motion into the surface stops the mover.
func clipAgainst(v, n cp.Vector, slide bool) cp.Vector {
	d := v.Dot(n)
	if d >= 0 {
		return v
	}
	if !slide {
		return cp.Vector{}
	}
	return v.Sub(n.Mult(d))
}

// grounded probes a short distance against up for a surface shallow enough
// to stand on.
func (p *prober) grounded(pos cp.Vector, opts ControllerOptions) bool {
	up := opts.Up.Normalize()
	probe := pos.Sub(up.Mult(opts.Offset * groundProbeFactor))
	for _, o := range p.overlaps(probe, false) {
		if o.normal.Dot(up) <= 0 {
			continue
		}
		if math.Acos(math.Min(1, o.normal.Normalize().Dot(up))) < opts.MaxSlopeClimbAngle-slopeTolerance {
			return true
		}
	}
	return false
}
