package system

import (
	"fmt"

	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/rollback"
)

// inOrder returns the entities carrying every kind sorted by rollback
// sequence. Entity ids differ between peers; sequences do not.
func inOrder(w *ecs.World, kinds ...component.Kind) []ecs.Entity {
	ents := w.Query(kinds...)
	seqs := make(map[ecs.Entity]uint64, len(ents))
	for _, e := range ents {
		rb, ok := ecs.Get(w, e, component.RollbackComponent.Kind())
		if !ok {
			panic(fmt.Sprintf("system: entity %v has no rollback sequence", e))
		}
		seqs[e] = rb.Seq
	}
	rollback.SortBySeq(ents, func(e ecs.Entity) uint64 { return seqs[e] })
	return ents
}
