package katamari

import "unsafe"

// The Each functions visit every entity whose archetype contains the
// requested components, passing typed pointers into chunk memory that
// advance in lock-step, one call per row. Families are visited in insertion
// order, chunks within a family in insertion order. Writes through the
// pointers are writes into the store and are visible to later iterations.
//
// Column bases are resolved once per chunk; the row loop carries no bounds
// checks.

// Each visits every entity carrying component A.
func Each[A any](w *World, fn func(*A)) {
	idA := TypeID[A]()
	mask := ArchetypeOf(idA)
	sizeA := SizeOf(idA)
	for i := range w.families {
		f := &w.families[i]
		if !f.archetype.Contains(mask) {
			continue
		}
		for _, c := range f.chunks {
			pa := c.columnBase(idA)
			for line := 0; line < c.count; line++ {
				fn((*A)(pa))
				pa = unsafe.Add(pa, sizeA)
			}
		}
	}
}

// Each2 visits every entity carrying components A and B.
func Each2[A, B any](w *World, fn func(*A, *B)) {
	idA, idB := TypeID[A](), TypeID[B]()
	mask := ArchetypeOf(idA, idB)
	sizeA, sizeB := SizeOf(idA), SizeOf(idB)
	for i := range w.families {
		f := &w.families[i]
		if !f.archetype.Contains(mask) {
			continue
		}
		for _, c := range f.chunks {
			pa, pb := c.columnBase(idA), c.columnBase(idB)
			for line := 0; line < c.count; line++ {
				fn((*A)(pa), (*B)(pb))
				pa = unsafe.Add(pa, sizeA)
				pb = unsafe.Add(pb, sizeB)
			}
		}
	}
}

// Each3 visits every entity carrying components A, B and C.
func Each3[A, B, C any](w *World, fn func(*A, *B, *C)) {
	idA, idB, idC := TypeID[A](), TypeID[B](), TypeID[C]()
	mask := ArchetypeOf(idA, idB, idC)
	sizeA, sizeB, sizeC := SizeOf(idA), SizeOf(idB), SizeOf(idC)
	for i := range w.families {
		f := &w.families[i]
		if !f.archetype.Contains(mask) {
			continue
		}
		for _, c := range f.chunks {
			pa, pb, pc := c.columnBase(idA), c.columnBase(idB), c.columnBase(idC)
			for line := 0; line < c.count; line++ {
				fn((*A)(pa), (*B)(pb), (*C)(pc))
				pa = unsafe.Add(pa, sizeA)
				pb = unsafe.Add(pb, sizeB)
				pc = unsafe.Add(pc, sizeC)
			}
		}
	}
}

// Each4 visits every entity carrying components A, B, C and D.
func Each4[A, B, C, D any](w *World, fn func(*A, *B, *C, *D)) {
	idA, idB, idC, idD := TypeID[A](), TypeID[B](), TypeID[C](), TypeID[D]()
	mask := ArchetypeOf(idA, idB, idC, idD)
	sizeA, sizeB, sizeC, sizeD := SizeOf(idA), SizeOf(idB), SizeOf(idC), SizeOf(idD)
	for i := range w.families {
		f := &w.families[i]
		if !f.archetype.Contains(mask) {
			continue
		}
		for _, c := range f.chunks {
			pa, pb := c.columnBase(idA), c.columnBase(idB)
			pc, pd := c.columnBase(idC), c.columnBase(idD)
			for line := 0; line < c.count; line++ {
				fn((*A)(pa), (*B)(pb), (*C)(pc), (*D)(pd))
				pa = unsafe.Add(pa, sizeA)
				pb = unsafe.Add(pb, sizeB)
				pc = unsafe.Add(pc, sizeC)
				pd = unsafe.Add(pd, sizeD)
			}
		}
	}
}
