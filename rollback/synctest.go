package rollback

import (
	"errors"
	"fmt"
)

var (
	ErrMissingState  = errors.New("rollback: state not in ring")
	ErrCheckDistance = errors.New("rollback: check distance out of range")
)

// ValidateCheckDistance rejects a check distance no real rollback could
// reach.
func ValidateCheckDistance(d int) error {
	if d < 0 || d > MaxPrediction {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrCheckDistance, d, MaxPrediction)
	}
	return nil
}

// Session is a simulation the sync test can drive. S is its snapshot type.
type Session[S any] interface {
	Frame() int
	Advance(inputs []PlayerInput)
	Save() S
	Load(S)
	Checksum() uint64
}

// MismatchError reports a replayed frame whose checksum differs from the
// first time it was simulated.
type MismatchError struct {
	Frame int
	Want  uint64
	Got   uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("rollback: desync at frame %d: checksum %016x, replay %016x", e.Frame, e.Want, e.Got)
}

// SyncTest advances a session one frame at a time and, every frame, rolls
// back CheckDistance frames and replays them with the recorded inputs.
// Any checksum that differs on replay means the simulation is not
// deterministic.
type SyncTest[S any] struct {
	session       Session[S]
	checkDistance int

	states    *Ring[S]
	inputs    *Ring[[]PlayerInput]
	checksums *Ring[uint64]
	metrics   *Metrics
}

// NewSyncTest wraps session. A nil metrics disables counting.
func NewSyncTest[S any](session Session[S], checkDistance int, metrics *Metrics) *SyncTest[S] {
	if checkDistance < 0 {
		checkDistance = 0
	}
	size := checkDistance + 2
	return &SyncTest[S]{
		session:       session,
		checkDistance: checkDistance,
		states:        NewRing[S](size),
		inputs:        NewRing[[]PlayerInput](size),
		checksums:     NewRing[uint64](size),
		metrics:       metrics,
	}
}

func (t *SyncTest[S]) CheckDistance() int {
	return t.checkDistance
}

// AdvanceFrame simulates one new frame with inputs and then verifies the
// last CheckDistance frames by replaying them.
func (t *SyncTest[S]) AdvanceFrame(inputs []PlayerInput) error {
	frame := t.session.Frame()
	t.states.Put(frame, t.session.Save())
	t.inputs.Put(frame, append([]PlayerInput(nil), inputs...))

	t.session.Advance(inputs)
	t.checksums.Put(frame+1, t.session.Checksum())
	if t.metrics != nil {
		t.metrics.frames.Inc()
		t.metrics.frame.Set(float64(frame + 1))
	}

	if t.checkDistance == 0 || frame+1 < t.checkDistance {
		return nil
	}
	return t.replay(frame + 1 - t.checkDistance)
}

func (t *SyncTest[S]) replay(from int) error {
	state, ok := t.states.Get(from)
	if !ok {
		return fmt.Errorf("%w: frame %d", ErrMissingState, from)
	}
	end := t.session.Frame()
	t.session.Load(state)
	if t.metrics != nil {
		t.metrics.rollbacks.Inc()
	}

	for f := from; f < end; f++ {
		in, ok := t.inputs.Get(f)
		if !ok {
			return fmt.Errorf("%w: inputs for frame %d", ErrMissingState, f)
		}
		if f > from {
			t.states.Put(f, t.session.Save())
		}
		t.session.Advance(in)
		if t.metrics != nil {
			t.metrics.resimulate.Inc()
		}
		want, _ := t.checksums.Get(f + 1)
		if got := t.session.Checksum(); got != want {
			if t.metrics != nil {
				t.metrics.mismatches.Inc()
			}
			return &MismatchError{Frame: f + 1, Want: want, Got: got}
		}
	}
	return nil
}
