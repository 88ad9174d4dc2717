package rollback

// Ring keeps the most recent values keyed by frame, overwriting the oldest.
type Ring[T any] struct {
	items  []T
	frames []int
}

func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	r := &Ring[T]{items: make([]T, size), frames: make([]int, size)}
	for i := range r.frames {
		r.frames[i] = -1
	}
	return r
}

func (r *Ring[T]) slot(frame int) int {
	return frame % len(r.items)
}

// Put stores v for frame, evicting whatever held the slot.
func (r *Ring[T]) Put(frame int, v T) {
	i := r.slot(frame)
	r.items[i] = v
	r.frames[i] = frame
}

// Get returns the value stored for frame, if it has not been evicted.
func (r *Ring[T]) Get(frame int) (T, bool) {
	var zero T
	if frame < 0 {
		return zero, false
	}
	i := r.slot(frame)
	if r.frames[i] != frame {
		return zero, false
	}
	return r.items[i], true
}

func (r *Ring[T]) Size() int {
	return len(r.items)
}
