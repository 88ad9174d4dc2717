package component

// Rollback carries the entity's sequence number. Every system that touches
// physics iterates in ascending Seq.
type Rollback struct {
	Seq uint64
}

var RollbackComponent = NewComponent[Rollback]()
