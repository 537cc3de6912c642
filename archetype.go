package katamari

import "math/bits"

// Archetype is the set of component types an entity carries, represented as a
// bitset over ComponentIDs. Two component sets that differ only in order
// produce the same Archetype.
type Archetype uint32

// ArchetypeOf builds an Archetype from component IDs. It is commutative and
// associative: any permutation of the same IDs yields an equal Archetype.
func ArchetypeOf(ids ...ComponentID) Archetype {
	var a Archetype
	for _, id := range ids {
		a |= 1 << id
	}
	return a
}

// Has reports whether the component with the given ID is part of the
// archetype.
func (a Archetype) Has(id ComponentID) bool {
	return a&(1<<id) != 0
}

// Contains reports whether every component in sub is also present in a.
func (a Archetype) Contains(sub Archetype) bool {
	return a&sub == sub
}

// Len returns the number of component types in the archetype.
func (a Archetype) Len() int {
	return bits.OnesCount32(uint32(a))
}
