package script

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/physics"
	"github.com/milk9111/spacewar/rollback"
)

var ErrBadResult = errors.New("script: update must return [x, y]")

// Only modules whose output depends on nothing but their arguments. rand,
// times and os would let two peers disagree.
var deterministicModules = []string{"math", "text", "enum"}

const dispatch = `
__result = update(__ctx)
`

// Behavior is a compiled tengo program that turns a character's input and
// contact flags into its desired velocity for the next tick. The program
// must define
//
//	update := func(ctx) { ...; return [vx, vy] }
//
// The whole program runs from the top on every call, so nothing a script
// stores survives between ticks.
type Behavior struct {
	name     string
	compiled *tengo.Compiled
}

// Context is what update receives. Velocities and gravity are in
// presentation units.
type Context struct {
	Input     rollback.Input
	Flags     physics.ContactFlags
	Velocity  mgl64.Vec2
	MoveSpeed float64
	JumpSpeed float64
	Gravity   float64
	DT        float64
}

func Compile(name string, src []byte) (*Behavior, error) {
	s := tengo.NewScript(append(append([]byte(nil), src...), dispatch...))
	_ = s.Add("__ctx", map[string]any{})
	_ = s.Add("__result", nil)
	s.SetImports(stdlib.GetModuleMap(deterministicModules...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Behavior{name: name, compiled: compiled}, nil
}

func (b *Behavior) Name() string {
	return b.name
}

// Update runs the script once and returns the velocity it chose.
func (b *Behavior) Update(ctx Context) (mgl64.Vec2, error) {
	if err := b.compiled.Set("__ctx", ctx.values()); err != nil {
		return mgl64.Vec2{}, err
	}
	if err := b.compiled.Run(); err != nil {
		return mgl64.Vec2{}, fmt.Errorf("script: run %s: %w", b.name, err)
	}
	out := b.compiled.Get("__result").Object()
	arr, ok := out.(*tengo.Array)
	if !ok || len(arr.Value) != 2 {
		return mgl64.Vec2{}, fmt.Errorf("%w: %s returned %s", ErrBadResult, b.name, out.TypeName())
	}
	x, okX := tengo.ToFloat64(arr.Value[0])
	y, okY := tengo.ToFloat64(arr.Value[1])
	if !okX || !okY {
		return mgl64.Vec2{}, fmt.Errorf("%w: %s returned %s", ErrBadResult, b.name, arr.String())
	}
	return mgl64.Vec2{x, y}, nil
}

func (c Context) values() map[string]any {
	return map[string]any{
		"up":         c.Input.IsSet(rollback.InputUp),
		"down":       c.Input.IsSet(rollback.InputDown),
		"left":       c.Input.IsSet(rollback.InputLeft),
		"right":      c.Input.IsSet(rollback.InputRight),
		"jump":       c.Input.IsSet(rollback.InputJump),
		"shoot":      c.Input.IsSet(rollback.InputShoot),
		"throw":      c.Input.IsSet(rollback.InputThrow),
		"grounded":   c.Flags.Grounded,
		"wall_left":  c.Flags.WallLeft,
		"wall_right": c.Flags.WallRight,
		"ceiling":    c.Flags.Ceiling,
		"vx":         c.Velocity.X(),
		"vy":         c.Velocity.Y(),
		"move_speed": c.MoveSpeed,
		"jump_speed": c.JumpSpeed,
		"gravity":    c.Gravity,
		"dt":         c.DT,
	}
}
