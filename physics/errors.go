package physics

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFrameRate = errors.New("physics: invalid frame rate")
	ErrInvalidScale     = errors.New("physics: invalid scale")
)

// InvariantError is the panic value used when the registry, the arena or
// the hashed state are found to be inconsistent. There is no recovery from
// it inside a tick.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "physics: invariant violated: " + e.Msg
}

func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
	}
}
