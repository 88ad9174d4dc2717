package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spacewar/physics"
	"golang.org/x/image/colornames"
)

const (
	strokeWidth = 2
	framePad    = 64
)

// camera maps presentation units (y up) onto the screen (y down).
type camera struct {
	center mgl64.Vec2
	zoom   float64
}

// newCamera frames every shape of the scene.
func newCamera(shapes []physics.DebugShape) camera {
	if len(shapes) == 0 {
		return camera{zoom: 1}
	}
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, s := range shapes {
		r := s.Shape.Radius
		if s.Shape.Kind == physics.RectangleShape {
			r = math.Hypot(s.Shape.Width, s.Shape.Height) / 2
		}
		lo = mgl64.Vec2{math.Min(lo.X(), s.Center.X()-r), math.Min(lo.Y(), s.Center.Y()-r)}
		hi = mgl64.Vec2{math.Max(hi.X(), s.Center.X()+r), math.Max(hi.Y(), s.Center.Y()+r)}
	}
	size := hi.Sub(lo)
	zoom := math.Min((baseWidth-2*framePad)/size.X(), (baseHeight-2*framePad)/size.Y())
	if zoom <= 0 || math.IsInf(zoom, 0) || math.IsNaN(zoom) {
		zoom = 1
	}
	return camera{center: lo.Add(hi).Mul(0.5), zoom: zoom}
}

func (c camera) toScreen(p mgl64.Vec2) (float32, float32) {
	x := (p.X()-c.center.X())*c.zoom + baseWidth/2
	y := baseHeight/2 - (p.Y()-c.center.Y())*c.zoom
	return float32(x), float32(y)
}

func kindColor(kind physics.BodyKind) color.Color {
	switch kind {
	case physics.Dynamic:
		return colornames.Limegreen
	case physics.KinematicPositionBased:
		return colornames.Gold
	case physics.KinematicVelocityBased:
		return colornames.Deepskyblue
	default:
		return colornames.Lightslategray
	}
}

func drawShapes(screen *ebiten.Image, cam camera, shapes []physics.DebugShape) {
	for _, s := range shapes {
		clr := kindColor(s.Kind)
		switch s.Shape.Kind {
		case physics.CircleShape:
			drawCircle(screen, cam, s, clr)
		case physics.RectangleShape:
			drawRect(screen, cam, s, clr)
		}
	}
}

func drawCircle(screen *ebiten.Image, cam camera, s physics.DebugShape, clr color.Color) {
	cx, cy := cam.toScreen(s.Center)
	r := float32(s.Shape.Radius * cam.zoom)
	vector.StrokeCircle(screen, cx, cy, r, strokeWidth, clr, true)
	// radius line shows the rotation
	edge := s.Center.Add(mgl64.Rotate2D(s.Angle).Mul2x1(mgl64.Vec2{s.Shape.Radius, 0}))
	ex, ey := cam.toScreen(edge)
	vector.StrokeLine(screen, cx, cy, ex, ey, strokeWidth, clr, true)
}

func drawRect(screen *ebiten.Image, cam camera, s physics.DebugShape, clr color.Color) {
	hw, hh := s.Shape.Width/2, s.Shape.Height/2
	rot := mgl64.Rotate2D(s.Angle)
	corners := [4]mgl64.Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i := range corners {
		a := s.Center.Add(rot.Mul2x1(corners[i]))
		b := s.Center.Add(rot.Mul2x1(corners[(i+1)%len(corners)]))
		ax, ay := cam.toScreen(a)
		bx, by := cam.toScreen(b)
		vector.StrokeLine(screen, ax, ay, bx, by, strokeWidth, clr, true)
	}
}
