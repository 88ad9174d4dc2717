package rollback

import (
	"fmt"
	"slices"
)

// Ordered hands out rollback sequence numbers. A sequence is unique per
// entity for the whole session and never reused, so sorting by it gives
// every peer the same iteration order.
type Ordered struct {
	next uint64
	used map[uint64]struct{}
}

func NewOrdered() *Ordered {
	return &Ordered{used: make(map[uint64]struct{})}
}

// Next returns a fresh sequence number.
func (o *Ordered) Next() uint64 {
	for {
		seq := o.next
		o.next++
		if _, taken := o.used[seq]; !taken {
			o.used[seq] = struct{}{}
			return seq
		}
	}
}

// Register records an externally assigned sequence number. Reusing one is
// a programming error.
func (o *Ordered) Register(seq uint64) {
	if _, taken := o.used[seq]; taken {
		panic(fmt.Sprintf("rollback: sequence %d registered twice", seq))
	}
	o.used[seq] = struct{}{}
	if seq >= o.next {
		o.next = seq + 1
	}
}

func (o *Ordered) Len() int {
	return len(o.used)
}

// Clone copies the allocator so it can be saved with a snapshot.
func (o *Ordered) Clone() *Ordered {
	out := &Ordered{next: o.next, used: make(map[uint64]struct{}, len(o.used))}
	for k := range o.used {
		out.used[k] = struct{}{}
	}
	return out
}

// Compare orders two sequence numbers.
func Compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortBySeq sorts items by the sequence key returns. Equal keys mean two
// entities share a sequence, which breaks determinism, so it panics.
func SortBySeq[T any](items []T, key func(T) uint64) {
	slices.SortFunc(items, func(a, b T) int { return Compare(key(a), key(b)) })
	for i := 1; i < len(items); i++ {
		if key(items[i]) == key(items[i-1]) {
			panic(fmt.Sprintf("rollback: duplicate sequence %d", key(items[i])))
		}
	}
}
