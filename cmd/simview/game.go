package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/prefabs"
	"github.com/milk9111/spacewar/sim"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1920
	baseHeight = 1080
)

// Game steps one simulation frame per tick from local keyboard input.
// F5 saves a snapshot, F9 rolls back to it.
type Game struct {
	session  string
	scenario string

	sim        *sim.Simulation
	background color.Color
	camera     camera
	changes    <-chan prefabs.Change

	paused bool
	saved  *sim.Snapshot
	status string
}

func NewGame(session, scenario string) (*Game, error) {
	g := &Game{session: session, scenario: scenario}
	if err := g.reload(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) reload() error {
	spec, err := prefabs.LoadSessionSpec(g.session)
	if err != nil {
		return err
	}
	if g.scenario != "" {
		spec.Scenario = g.scenario
	}
	s, scenario, err := sim.LoadSession(spec)
	if err != nil {
		return err
	}
	g.sim = s
	g.saved = nil
	g.background = colornames.Black
	if scenario.Background != nil {
		g.background = scenario.Background.Color
	}
	g.camera = newCamera(s.Physics().DebugShapes())
	g.status = fmt.Sprintf("loaded %s", scenario.Name)
	return nil
}

func (g *Game) Update() error {
	select {
	case c, ok := <-g.changes:
		if ok {
			if err := g.reload(); err != nil {
				log.Printf("simview: reload after %s: %v", c.Path, err)
				g.status = "reload failed: " + err.Error()
			}
		}
	default:
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.reload(); err != nil {
			g.status = "reload failed: " + err.Error()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.saved = g.sim.Save()
		g.status = fmt.Sprintf("saved frame %d", g.saved.Frame())
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		if g.saved != nil {
			g.sim.Load(g.saved)
			g.status = fmt.Sprintf("rolled back to frame %d", g.saved.Frame())
		}
	}

	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyN) {
		return nil
	}
	g.sim.Advance(readInputs(g.sim.Config().Players))
	for _, evt := range g.sim.Events().Drain() {
		g.status = fmt.Sprintf("frame %d: seq %d %s", g.sim.Frame(), evt.Seq, evt.Kind)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	drawShapes(screen, g.camera, g.sim.Physics().DebugShapes())

	text := fmt.Sprintf("Frame: %d    FPS: %.2f    Checksum: %016x\n%s",
		g.sim.Frame(), ebiten.ActualFPS(), g.sim.Checksum(), g.status)
	if g.paused {
		text += "\nPAUSED (N steps)"
	}
	ebitenutil.DebugPrint(screen, text)
	g.drawCharacters(screen)
}

func (g *Game) drawCharacters(screen *ebiten.Image) {
	w := g.sim.World()
	ecs.ForEach2(w, component.CharacterControllerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cc *component.CharacterController, tf *component.Transform) {
		x, y := g.camera.toScreen(tf.Position())
		text := fmt.Sprintf("g:%v l:%v r:%v c:%v\nv:(%.0f, %.0f)",
			cc.Flags.Grounded, cc.Flags.WallLeft, cc.Flags.WallRight, cc.Flags.Ceiling, cc.Resolved.X(), cc.Resolved.Y())
		ebitenutil.DebugPrintAt(screen, text, int(x)-48, int(y)-80)
	})
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
