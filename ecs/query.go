package ecs

import "slices"

// intersect returns the ids present in every set, in ascending order.
func intersect(sets ...*SparseSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s == nil {
			return nil
		}
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	if smallest == nil {
		return nil
	}
	out := make([]entityID, 0, smallest.Len())
next:
	for _, id := range smallest.denseEntities {
		for _, s := range sets {
			if !s.Has(id) {
				continue next
			}
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
