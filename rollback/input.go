package rollback

import "math/rand"

// Input is one player's decoded input for one frame.
type Input uint8

const (
	InputUp Input = 1 << (iota + 1)
	InputDown
	InputLeft
	InputRight
	InputJump
	InputShoot
	InputThrow
)

// MaxPrediction bounds how many frames a peer may run ahead of confirmed
// input, and so how far back a rollback can reach.
const MaxPrediction = 12

func (i *Input) Set(bits Input) { *i |= bits }
func (i *Input) Unset(bits Input) { *i &^= bits }

func (i Input) IsSet(bits Input) bool {
	return i&bits == bits
}

func (i Input) IsEmpty() bool {
	return i == 0
}

// InputStatus tells how trustworthy a frame's input is.
type InputStatus uint8

const (
	Confirmed InputStatus = iota
	Predicted
	Disconnected
)

// PlayerInput pairs an input with its status.
type PlayerInput struct {
	Input  Input
	Status InputStatus
}

// Effective returns the input a simulation should act on. Disconnected
// players send nothing.
func (p PlayerInput) Effective() Input {
	if p.Status == Disconnected {
		return 0
	}
	return p.Input
}

// RandomInput draws a random input mask; used to fuzz sync tests.
func RandomInput(rng *rand.Rand) Input {
	var in Input
	for _, bit := range []Input{InputUp, InputDown, InputLeft, InputRight, InputJump, InputShoot, InputThrow} {
		if rng.Intn(2) == 1 {
			in.Set(bit)
		}
	}
	return in
}
