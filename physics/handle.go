package physics

import "strconv"

// BodyHandle identifies a body in a World. The zero value is invalid.
type BodyHandle struct {
	index uint32
	gen   uint32
}

// ColliderHandle identifies a collider in a World. The zero value is invalid.
type ColliderHandle struct {
	index uint32
	gen   uint32
}

// HandlePair binds one owner to its body and collider.
type HandlePair struct {
	Body     BodyHandle
	Collider ColliderHandle
}

func (h BodyHandle) Valid() bool     { return h.gen != 0 }
func (h BodyHandle) Index() uint32   { return h.index }
func (h ColliderHandle) Valid() bool { return h.gen != 0 }
func (h ColliderHandle) Index() uint32 {
	return h.index
}

func (h BodyHandle) String() string {
	return "body(" + strconv.FormatUint(uint64(h.index), 10) + "v" + strconv.FormatUint(uint64(h.gen), 10) + ")"
}

func (h ColliderHandle) String() string {
	return "collider(" + strconv.FormatUint(uint64(h.index), 10) + "v" + strconv.FormatUint(uint64(h.gen), 10) + ")"
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// arena is a generational slot store. Iteration follows slot index, and
// freed slots are reused last-in first-out, so two arenas fed the same
// sequence of inserts and removes lay out identically.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) (uint32, uint32) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot[T]{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	s.value = v
	s.live = true
	a.count++
	return idx, s.gen
}

func (a *arena[T]) get(idx, gen uint32) (*T, bool) {
	if gen == 0 || int(idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.live || s.gen != gen {
		return nil, false
	}
	return &s.value, true
}

func (a *arena[T]) remove(idx, gen uint32) (T, bool) {
	var zero T
	v, ok := a.get(idx, gen)
	if !ok {
		return zero, false
	}
	out := *v
	s := &a.slots[idx]
	s.value = zero
	s.live = false
	a.free = append(a.free, idx)
	a.count--
	return out, true
}

func (a *arena[T]) each(fn func(idx, gen uint32, v *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		fn(uint32(i), s.gen, &s.value)
	}
}

func (a *arena[T]) len() int {
	return a.count
}

// clone copies the arena; copyValue deep-copies values that hold slices.
func (a *arena[T]) clone(copyValue func(T) T) arena[T] {
	out := arena[T]{
		slots: make([]slot[T], len(a.slots)),
		free:  append([]uint32(nil), a.free...),
		count: a.count,
	}
	for i, s := range a.slots {
		if copyValue != nil && s.live {
			s.value = copyValue(s.value)
		}
		out.slots[i] = s
	}
	return out
}
