package component

// TTL is a frame-based time-to-live. The entity is destroyed, and its
// physics handles released, on the tick Frames runs out.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
