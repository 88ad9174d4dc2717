package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

func hashScene(t *testing.T) *World {
	t.Helper()
	w := newTestWorld(t)
	addBox(w, Fixed, 0, -0.5, 20, 1)
	addBall(w, 0.3, 2, 0.25)
	addBox(w, KinematicPositionBased, -2, 1, 0.5, 1)
	return w
}

func TestHashReproducible(t *testing.T) {
	a, b := hashScene(t), hashScene(t)
	require.Equal(t, Hash(a), Hash(b))
	for i := 0; i < 120; i++ {
		a.Step()
		b.Step()
		require.Equal(t, Hash(a), Hash(b), "frame %d", i)
	}
}

func TestHashSensitiveToOneULP(t *testing.T) {
	w := hashScene(t)
	before := Hash(w)

	var target BodyHandle
	w.Bodies(func(h BodyHandle, b Body) {
		if b.Kind == Dynamic {
			target = h
		}
	})
	b, ok := w.BodyMut(target)
	require.True(t, ok)
	b.Position.X = math.Nextafter(b.Position.X, math.Inf(1))
	require.NotEqual(t, before, Hash(w))
}

func TestHashSensitiveToRotation(t *testing.T) {
	w := hashScene(t)
	before := Hash(w)
	w.Colliders(func(h ColliderHandle, _ Collider) {
		c, _ := w.ColliderMut(h)
		c.Angle = math.Nextafter(c.Angle, 1)
	})
	require.NotEqual(t, before, Hash(w))
}

func TestHashPanicsOnNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w := newTestWorld(t)
		w.Insert(NewBody(Dynamic, cp.Vector{X: v}, 0), NewCollider(Circle(1)))
		require.Panics(t, func() { Hash(w) })
	}
}

func TestHashFloatDistinguishesSignedZero(t *testing.T) {
	h1, h2 := xxh3.New(), xxh3.New()
	HashFloat(h1, 0)
	HashFloat(h2, math.Copysign(0, -1))
	require.NotEqual(t, h1.Sum64(), h2.Sum64())
}
