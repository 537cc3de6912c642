package katamari

import "fmt"

// Layout describes how one archetype's component data is packed into a chunk:
// one column per component, columns in increasing ComponentID order,
// contiguous from offset 0. A Layout is immutable once computed; chunks hold
// a shared reference to the Layout owned by their World.
type Layout struct {
	// Archetype is the component set this layout was computed for.
	Archetype Archetype
	// Capacity is the number of entity rows that fit in one chunk.
	Capacity int

	offsets [MaxComponents]uint32
}

// Offset returns the byte offset of the column for the given component within
// a chunk. It is meaningful only for components present in the archetype.
func (l *Layout) Offset(id ComponentID) uint32 {
	return l.offsets[id]
}

// ComputeLayout partitions a chunk's byte buffer into columns for the given
// archetype. Component sizes come from the registry, so every component in
// the archetype must have been registered.
//
// It panics if the archetype has no sized components or if a single entity
// row exceeds ChunkSize, both of which are precondition violations.
func ComputeLayout(a Archetype) Layout {
	l := Layout{Archetype: a}

	var rowSize uintptr
	for id := ComponentID(0); id < MaxComponents; id++ {
		if a.Has(id) {
			rowSize += SizeOf(id)
		}
	}
	if rowSize == 0 {
		panic("katamari: archetype has no sized components")
	}

	l.Capacity = int(ChunkSize / rowSize)
	if l.Capacity == 0 {
		panic(fmt.Sprintf("katamari: entity row of %d bytes exceeds chunk size %d", rowSize, ChunkSize))
	}

	var offset uint32
	for id := ComponentID(0); id < MaxComponents; id++ {
		if a.Has(id) {
			l.offsets[id] = offset
			offset += uint32(l.Capacity) * uint32(SizeOf(id))
		}
	}
	return l
}
