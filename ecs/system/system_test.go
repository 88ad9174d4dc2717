package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/physics"
	"github.com/milk9111/spacewar/rollback"
	"github.com/milk9111/spacewar/script"
	"github.com/stretchr/testify/require"
)

func TestInOrderSortsBySequence(t *testing.T) {
	w := ecs.NewWorld()
	var want []ecs.Entity
	for _, seq := range []uint64{7, 3, 5} {
		e := ecs.CreateEntity(w)
		require.NoError(t, ecs.Add(w, e, component.RollbackComponent.Kind(), &component.Rollback{Seq: seq}))
		want = append(want, e)
	}
	got := inOrder(w, component.RollbackComponent.Kind())
	require.Equal(t, []ecs.Entity{want[1], want[2], want[0]}, got)
}

func TestTTLSystem(t *testing.T) {
	w := ecs.NewWorld()
	short := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, short, component.RollbackComponent.Kind(), &component.Rollback{Seq: 1}))
	require.NoError(t, ecs.Add(w, short, component.TTLComponent.Kind(), &component.TTL{Frames: 1}))
	long := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, long, component.RollbackComponent.Kind(), &component.Rollback{Seq: 2}))
	require.NoError(t, ecs.Add(w, long, component.TTLComponent.Kind(), &component.TTL{Frames: 3}))

	s := NewTTLSystem()
	s.Update(w)
	require.False(t, ecs.IsAlive(w, short))
	require.True(t, ecs.IsAlive(w, long))

	s.Update(w)
	require.True(t, ecs.IsAlive(w, long))
	s.Update(w)
	require.False(t, ecs.IsAlive(w, long))
}

func TestTTLExpiryReleasesHandles(t *testing.T) {
	w, ps := newPhysics(t)
	e := spawn(t, w, 1, physics.Dynamic, physics.Circle(4), 0, 0)
	require.NoError(t, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 2}))
	scheduler := ecs.NewScheduler(NewTTLSystem(), ps)

	scheduler.Update(w)
	require.Equal(t, 1, ps.World().HandleCount())
	scheduler.Update(w)
	require.Equal(t, 0, ps.World().HandleCount())
	require.Equal(t, 0, ps.World().BodyCount())
}

const runRight = `
update := func(ctx) {
	vx := ctx.right ? ctx.move_speed : 0.0
	return [vx, ctx.vy + ctx.gravity * ctx.dt]
}
`

func player(t *testing.T, w *ecs.World, seq uint64, behavior string, in rollback.Input) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.RollbackComponent.Kind(), &component.Rollback{Seq: seq}))
	cc := component.NewCharacterController()
	cc.Velocity = mgl64.Vec2{-1, -1}
	cc.Resolved = mgl64.Vec2{0, -10}
	require.NoError(t, ecs.Add(w, e, component.CharacterControllerComponent.Kind(), &cc))
	require.NoError(t, ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		Input:     in,
		Behavior:  behavior,
		MoveSpeed: 200,
	}))
	return e
}

func TestBehaviorSystemWritesVelocity(t *testing.T) {
	b, err := script.Compile("run", []byte(runRight))
	require.NoError(t, err)

	w := ecs.NewWorld()
	e := player(t, w, 1, "run", rollback.InputRight)
	unknown := player(t, w, 2, "missing", rollback.InputRight)

	s := NewBehaviorSystem(-600, 0.5)
	s.Register("run", b)
	require.Equal(t, 1, s.Len())
	s.Update(w)

	cc, _ := ecs.Get(w, e, component.CharacterControllerComponent.Kind())
	require.Equal(t, mgl64.Vec2{200, -310}, cc.Velocity)
	cc, _ = ecs.Get(w, unknown, component.CharacterControllerComponent.Kind())
	require.Equal(t, mgl64.Vec2{-1, -1}, cc.Velocity)
}

func TestBehaviorSystemKeepsVelocityOnScriptError(t *testing.T) {
	b, err := script.Compile("broken", []byte(`update := func(ctx) { return "nope" }`))
	require.NoError(t, err)

	w := ecs.NewWorld()
	e := player(t, w, 1, "broken", 0)
	s := NewBehaviorSystem(-600, 1.0/60)
	s.Register("broken", b)
	s.Update(w)
	s.Update(w)
	require.True(t, s.failed["broken"])

	cc, _ := ecs.Get(w, e, component.CharacterControllerComponent.Kind())
	require.Equal(t, mgl64.Vec2{-1, -1}, cc.Velocity)

	fixed, err := script.Compile("broken", []byte(runRight))
	require.NoError(t, err)
	s.Register("broken", fixed)
	require.False(t, s.failed["broken"])
}
