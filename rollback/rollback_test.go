package rollback

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	frame int
	value uint64
}

// counterSession is a tiny deterministic simulation. With leak set it
// keeps state outside its snapshot, which a sync test must catch.
type counterSession struct {
	counterState
	leak   bool
	hidden uint64
}

func (s *counterSession) Frame() int { return s.frame }

func (s *counterSession) Advance(inputs []PlayerInput) {
	s.value = s.value*31 + 1
	for _, in := range inputs {
		s.value += uint64(in.Effective())
	}
	if s.leak {
		s.hidden++
		s.value += s.hidden
	}
	s.frame++
}

func (s *counterSession) Save() counterState { return s.counterState }
func (s *counterSession) Load(st counterState) { s.counterState = st }
func (s *counterSession) Checksum() uint64 { return s.value }

func TestInputBits(t *testing.T) {
	var in Input
	require.True(t, in.IsEmpty())
	in.Set(InputLeft | InputJump)
	require.True(t, in.IsSet(InputLeft))
	require.True(t, in.IsSet(InputJump))
	require.False(t, in.IsSet(InputRight))
	in.Unset(InputLeft)
	require.False(t, in.IsSet(InputLeft))
	require.False(t, in.IsEmpty())
}

func TestDisconnectedInputIsEmpty(t *testing.T) {
	p := PlayerInput{Input: InputRight, Status: Disconnected}
	require.True(t, p.Effective().IsEmpty())
	p.Status = Predicted
	require.Equal(t, InputRight, p.Effective())
}

func TestRingEvicts(t *testing.T) {
	r := NewRing[string](3)
	require.Equal(t, 3, r.Size())
	for f := 0; f < 5; f++ {
		r.Put(f, string(rune('a'+f)))
	}
	_, ok := r.Get(1)
	require.False(t, ok)
	v, ok := r.Get(4)
	require.True(t, ok)
	require.Equal(t, "e", v)
	_, ok = r.Get(-1)
	require.False(t, ok)
}

func TestSortBySeq(t *testing.T) {
	items := []uint64{5, 1, 9, 3}
	SortBySeq(items, func(v uint64) uint64 { return v })
	require.Equal(t, []uint64{1, 3, 5, 9}, items)

	require.Panics(t, func() {
		SortBySeq([]uint64{2, 1, 2}, func(v uint64) uint64 { return v })
	})
}

func TestOrdered(t *testing.T) {
	o := NewOrdered()
	o.Register(1)
	require.Equal(t, uint64(2), o.Next())
	require.Equal(t, uint64(3), o.Next())
	require.Panics(t, func() { o.Register(2) })

	c := o.Clone()
	o.Next()
	require.Equal(t, 3, c.Len())
	require.Equal(t, 4, o.Len())
}

func TestSyncTestPassesDeterministicSession(t *testing.T) {
	m := NewMetrics()
	st := NewSyncTest[counterState](&counterSession{}, 4, m)
	rng := rand.New(rand.NewSource(1))
	for f := 0; f < 50; f++ {
		in := []PlayerInput{{Input: RandomInput(rng)}, {Input: RandomInput(rng), Status: Predicted}}
		require.NoError(t, st.AdvanceFrame(in))
	}
	require.Equal(t, 50.0, testutil.ToFloat64(m.frames))
	require.Equal(t, 47.0, testutil.ToFloat64(m.rollbacks))
	require.Equal(t, 0.0, testutil.ToFloat64(m.mismatches))
	require.Equal(t, 50.0, testutil.ToFloat64(m.frame))
}

func TestSyncTestCatchesHiddenState(t *testing.T) {
	m := NewMetrics()
	st := NewSyncTest[counterState](&counterSession{leak: true}, 2, m)
	var err error
	for f := 0; f < 10 && err == nil; f++ {
		err = st.AdvanceFrame([]PlayerInput{{Input: InputJump}})
	}
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 1, mismatch.Frame)
	require.NotEqual(t, mismatch.Want, mismatch.Got)
	require.Equal(t, 1.0, testutil.ToFloat64(m.mismatches))
}

func TestValidateCheckDistance(t *testing.T) {
	cases := []struct {
		name     string
		distance int
		wantErr  bool
	}{
		{"disabled", 0, false},
		{"session_default", 7, false},
		{"max_prediction", MaxPrediction, false},
		{"past_max_prediction", MaxPrediction + 1, true},
		{"negative", -1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateCheckDistance(c.distance)
			if c.wantErr {
				require.ErrorIs(t, err, ErrCheckDistance)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSyncTestWithoutCheckDistance(t *testing.T) {
	s := &counterSession{leak: true}
	st := NewSyncTest[counterState](s, 0, nil)
	for f := 0; f < 5; f++ {
		require.NoError(t, st.AdvanceFrame(nil))
	}
	require.Equal(t, 5, s.Frame())
}
