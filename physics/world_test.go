package physics

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(DefaultConfig(60))
	require.NoError(t, err)
	return w
}

func addBox(w *World, kind BodyKind, x, y, width, height float64) (BodyHandle, ColliderHandle) {
	return w.Insert(NewBody(kind, cp.Vector{X: x, Y: y}, 0), NewCollider(Rectangle(width, height)))
}

func addBall(w *World, x, y, r float64) (BodyHandle, ColliderHandle) {
	return w.Insert(NewBody(Dynamic, cp.Vector{X: x, Y: y}, 0), NewCollider(Circle(r)))
}

func TestNewWorldRejectsFrameRate(t *testing.T) {
	for _, fps := range []int{0, -30} {
		_, err := NewWorld(DefaultConfig(fps))
		require.True(t, errors.Is(err, ErrInvalidFrameRate))
	}
}

func TestNewWorldTimestep(t *testing.T) {
	w := newTestWorld(t)
	require.Equal(t, 1.0/60, w.DT())
	require.Equal(t, w.DT()/100, w.MinCCDDT())
}

func TestRemoveBodyCascades(t *testing.T) {
	w := newTestWorld(t)
	bh, ch := addBox(w, Dynamic, 0, 0, 1, 1)
	require.Equal(t, 1, w.BodyCount())
	require.Equal(t, 1, w.ColliderCount())

	_, ok := w.RemoveBody(bh)
	require.True(t, ok)
	_, ok = w.Collider(ch)
	require.False(t, ok)
	require.Equal(t, 0, w.ColliderCount())

	_, ok = w.RemoveBody(bh)
	require.False(t, ok)
}

func TestRemoveColliderDetaches(t *testing.T) {
	w := newTestWorld(t)
	bh, ch := addBox(w, Fixed, 0, 0, 1, 1)
	_, ok := w.RemoveCollider(ch)
	require.True(t, ok)
	b, ok := w.Body(bh)
	require.True(t, ok)
	require.Empty(t, b.Colliders())
}

func TestDynamicBodyFallsAndLands(t *testing.T) {
	w := newTestWorld(t)
	addBox(w, Fixed, 0, -0.5, 20, 1)
	ball, _ := addBall(w, 0, 2, 0.25)

	for i := 0; i < 180; i++ {
		w.Step()
	}
	b, _ := w.Body(ball)
	require.InDelta(t, 0.25, b.Position.Y, 0.02)
}

func TestActiveCollisionTypesDisableContacts(t *testing.T) {
	w := newTestWorld(t)
	_, floor := addBox(w, Fixed, 0, -0.5, 20, 1)
	ball, ballCollider := addBall(w, 0, 1, 0.25)

	opts := DefaultColliderOptions()
	opts.ActiveTypes = DynamicDynamic
	for _, h := range []ColliderHandle{floor, ballCollider} {
		c, ok := w.ColliderMut(h)
		require.True(t, ok)
		c.ApplyOptions(opts)
	}

	for i := 0; i < 60; i++ {
		w.Step()
	}
	b, _ := w.Body(ball)
	require.Less(t, b.Position.Y, -1.0)
}

func TestKinematicPositionBasedReachesTarget(t *testing.T) {
	w := newTestWorld(t)
	bh, ch := addBox(w, KinematicPositionBased, 0, 0, 1, 1)
	target := cp.Vector{X: 0.3, Y: -0.1}
	w.SetNextKinematicTranslation(bh, target)
	w.Step()

	b, _ := w.Body(bh)
	require.Equal(t, target, b.Position)
	require.False(t, b.HasNext)
	require.InDelta(t, 0.3*60, b.LinearVelocity.X, 1e-9)

	c, _ := w.Collider(ch)
	require.Equal(t, target, c.Position)
}

func TestSleepingBodyStaysPut(t *testing.T) {
	w := newTestWorld(t)
	bh, _ := addBall(w, 0, 5, 0.5)
	b, _ := w.BodyMut(bh)
	opts := DefaultBodyOptions()
	opts.Sleep = SleepForce
	require.True(t, b.ApplyOptions(opts, w.Scaler()))

	for i := 0; i < 30; i++ {
		w.Step()
	}
	got, _ := w.Body(bh)
	require.Equal(t, cp.Vector{X: 0, Y: 5}, got.Position)
}

func TestGravityScaleZeroFloats(t *testing.T) {
	w := newTestWorld(t)
	bh, _ := addBall(w, 0, 5, 0.5)
	b, _ := w.BodyMut(bh)
	opts := DefaultBodyOptions()
	opts.GravityScale = 0
	b.ApplyOptions(opts, w.Scaler())

	w.Step()
	got, _ := w.Body(bh)
	require.Equal(t, 5.0, got.Position.Y)
}

func TestApplyOptionsReportsChange(t *testing.T) {
	s := DefaultScaler()
	b := NewBody(Dynamic, cp.Vector{}, 0)
	require.False(t, b.ApplyOptions(DefaultBodyOptions(), s))

	opts := DefaultBodyOptions()
	opts.LinearDamping = 64
	require.True(t, b.ApplyOptions(opts, s))
	require.Equal(t, 1.0, b.LinearDamping)
	require.False(t, b.ApplyOptions(opts, s))
}

func TestCCDSubstepsBounded(t *testing.T) {
	w := newTestWorld(t)
	bh, _ := addBall(w, 0, 0, 0.01)
	b, _ := w.BodyMut(bh)
	b.CCD = true
	b.LinearVelocity = cp.Vector{X: 1e6}
	require.Equal(t, 100, w.ccdSubsteps())

	b.LinearVelocity = cp.Vector{}
	b.GravityScale = 0
	require.Equal(t, 1, w.ccdSubsteps())
}

func TestSnapshotRestoreContinuesIdentically(t *testing.T) {
	w := newTestWorld(t)
	addBox(w, Fixed, 0, -0.5, 20, 1)
	addBox(w, Fixed, -5, 3, 1, 8)
	for i := 0; i < 6; i++ {
		bh, _ := addBall(w, float64(i)*0.6-1.5, 2+float64(i)*0.4, 0.25)
		b, _ := w.BodyMut(bh)
		b.LinearVelocity = cp.Vector{X: -2 + float64(i)*0.5, Y: 1}
	}
	addBox(w, Dynamic, 1, 4, 0.5, 0.5)

	for i := 0; i < 30; i++ {
		w.Step()
	}
	snap := w.Snapshot()
	for i := 0; i < 90; i++ {
		w.Step()
	}
	want := Hash(w)

	w.Restore(snap)
	for i := 0; i < 90; i++ {
		w.Step()
	}
	require.Equal(t, want, Hash(w))

	w.Restore(snap)
	for i := 0; i < 90; i++ {
		w.Step()
	}
	require.Equal(t, want, Hash(w), "snapshot must be reusable")
}
