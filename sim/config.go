package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/physics"
	"github.com/milk9111/spacewar/prefabs"
)

const (
	DefaultFrameRate  = 60
	DefaultIterations = 20
	DefaultPlayers    = 2
)

// Config describes a session. Gravity is in simulation units.
type Config struct {
	FrameRate  int
	Scale      float64
	Gravity    mgl64.Vec2
	Iterations int
	Players    int
}

func DefaultConfig() Config {
	return Config{
		FrameRate:  DefaultFrameRate,
		Scale:      physics.DefaultScale,
		Gravity:    mgl64.Vec2{0, -9.81},
		Iterations: DefaultIterations,
		Players:    DefaultPlayers,
	}
}

// ConfigFromSpec fills a Config from a session file, keeping defaults for
// anything it leaves out.
func ConfigFromSpec(spec prefabs.SessionSpec) Config {
	cfg := DefaultConfig()
	if spec.FPS != 0 {
		cfg.FrameRate = spec.FPS
	}
	if spec.Scale != 0 {
		cfg.Scale = spec.Scale
	}
	if spec.Gravity != nil {
		cfg.Gravity = mgl64.Vec2{spec.Gravity.X, spec.Gravity.Y}
	}
	if spec.Iterations != 0 {
		cfg.Iterations = spec.Iterations
	}
	if spec.Players != 0 {
		cfg.Players = spec.Players
	}
	return cfg
}
