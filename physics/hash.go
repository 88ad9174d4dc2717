package physics

import (
	"encoding/binary"
	"math"

	"github.com/milk9111/spacewar/common"
	"github.com/zeebo/xxh3"
)

// HashFloat folds the IEEE-754 bits of f into h. Non-finite values panic:
// their bit patterns are not stable across platforms.
func HashFloat(h *xxh3.Hasher, f float64) {
	invariant(common.Finite(f), "hashing non-finite value %v", f)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	_, _ = h.Write(buf[:])
}

// Hash digests every body then every collider, in arena order, as
// (angle, x, y).
func Hash(w *World) uint64 {
	h := xxh3.New()
	Fold(h, w)
	return h.Sum64()
}

// Fold writes the world's transforms into an existing hasher.
func Fold(h *xxh3.Hasher, w *World) {
	w.bodies.each(func(_, _ uint32, b *Body) {
		HashFloat(h, b.Angle)
		HashFloat(h, b.Position.X)
		HashFloat(h, b.Position.Y)
	})
	w.colliders.each(func(_, _ uint32, c *Collider) {
		HashFloat(h, c.Angle)
		HashFloat(h, c.Position.X)
		HashFloat(h, c.Position.Y)
	})
}
