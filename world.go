package katamari

import (
	"fmt"

	"go.uber.org/zap"
)

// Entity represents a unique entity in the World. IDs are issued
// monotonically starting at 0 and are never reused; the core has no entity
// destruction.
type Entity uint64

// Location records where an entity's row lives inside the chunk store.
type Location struct {
	// Family is the index of the entity's chunk family.
	Family int
	// Chunk is the index of the chunk within the family.
	Chunk int
	// Line is the row index within the chunk.
	Line int
}

// family is the ordered list of chunks sharing one archetype. All chunks
// reference the same layout, owned by the World.
type family struct {
	archetype Archetype
	layout    *Layout
	chunks    []*Chunk
}

// World owns all chunk families and layouts, issues entity IDs and maps them
// to their storage location. It is not internally synchronized: callers that
// split work across threads must keep mutation of a chunk on a single thread
// at a time and must not create entities while another thread iterates.
type World struct {
	families     []family
	familyByArch map[Archetype]int
	layouts      []*Layout
	locations    []Location
	resources    Resources
	log          *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger attaches a structured logger. The World logs archetype and chunk
// allocation at Debug level; the default logger is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		w.log = log
	}
}

// NewWorld creates an empty World.
func NewWorld(opts ...Option) *World {
	w := &World{
		familyByArch: make(map[Archetype]int, 16),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Resources returns the world's resource store.
func (w *World) Resources() *Resources {
	return &w.resources
}

// familyIndex returns the index of the family for the archetype, creating the
// family and its layout on first use. Layouts are boxed so the reference held
// by chunks stays stable as the layout list grows.
func (w *World) familyIndex(a Archetype) int {
	if idx, ok := w.familyByArch[a]; ok {
		return idx
	}
	layout := new(Layout)
	*layout = ComputeLayout(a)
	w.layouts = append(w.layouts, layout)
	idx := len(w.families)
	w.families = append(w.families, family{archetype: a, layout: layout})
	w.familyByArch[a] = idx
	w.log.Debug("new archetype",
		zap.Uint32("archetype", uint32(a)),
		zap.Int("components", a.Len()),
		zap.Int("capacity", layout.Capacity))
	return idx
}

// appendRow reserves one row in the family, growing it by a chunk when the
// last chunk is full.
func (w *World) appendRow(fi int) (chunkIdx, line int) {
	f := &w.families[fi]
	if len(f.chunks) == 0 || f.chunks[len(f.chunks)-1].count == f.layout.Capacity {
		f.chunks = append(f.chunks, newChunk(f.layout))
		w.log.Debug("new chunk",
			zap.Uint32("archetype", uint32(f.archetype)),
			zap.Int("chunks", len(f.chunks)))
	}
	chunkIdx = len(f.chunks) - 1
	c := f.chunks[chunkIdx]
	line = c.count
	c.count++
	return chunkIdx, line
}

// CreateEntity creates an uninitialized entity with the given archetype and
// returns its ID. Component values can be written with SetComponent.
func (w *World) CreateEntity(a Archetype) Entity {
	fi := w.familyIndex(a)
	chunkIdx, line := w.appendRow(fi)
	e := Entity(len(w.locations))
	w.locations = append(w.locations, Location{Family: fi, Chunk: chunkIdx, Line: line})
	return e
}

// CreateEntities creates a batch of uninitialized entities with the given
// archetype and returns their IDs in creation order. Rows are reserved chunk
// by chunk, so back-to-back batches pack the same way as repeated
// CreateEntity calls.
func (w *World) CreateEntities(a Archetype, n int) []Entity {
	if n == 0 {
		return nil
	}
	fi := w.familyIndex(a)
	f := &w.families[fi]
	ents := make([]Entity, 0, n)
	remaining := n
	for remaining > 0 {
		if len(f.chunks) == 0 || f.chunks[len(f.chunks)-1].count == f.layout.Capacity {
			f.chunks = append(f.chunks, newChunk(f.layout))
			w.log.Debug("new chunk",
				zap.Uint32("archetype", uint32(f.archetype)),
				zap.Int("chunks", len(f.chunks)))
		}
		chunkIdx := len(f.chunks) - 1
		c := f.chunks[chunkIdx]
		batch := min(f.layout.Capacity-c.count, remaining)
		for k := 0; k < batch; k++ {
			e := Entity(len(w.locations))
			w.locations = append(w.locations, Location{Family: fi, Chunk: chunkIdx, Line: c.count + k})
			ents = append(ents, e)
		}
		c.count += batch
		remaining -= batch
	}
	return ents
}

// IsValid reports whether e refers to an entity that exists in the world.
func (w *World) IsValid(e Entity) bool {
	return uint64(e) < uint64(len(w.locations))
}

// Location returns where the entity's row is stored. The entity must be
// valid.
func (w *World) Location(e Entity) Location {
	if !w.IsValid(e) {
		panic(fmt.Sprintf("katamari: invalid entity %d", e))
	}
	return w.locations[e]
}

// ArchetypeOf returns the component set carried by the entity. The entity
// must be valid.
func (w *World) ArchetypeOf(e Entity) Archetype {
	return w.families[w.Location(e).Family].archetype
}

// chunkOf returns the chunk and line holding the entity's row.
func (w *World) chunkOf(e Entity) (*Chunk, int) {
	loc := w.Location(e)
	return w.families[loc.Family].chunks[loc.Chunk], loc.Line
}

// GetComponent returns a pointer to the entity's component of type T. The
// pointer aliases chunk memory, so writes through it are visible to later
// reads and iteration. The entity must be valid and its archetype must
// contain T.
func GetComponent[T any](w *World, e Entity) *T {
	c, line := w.chunkOf(e)
	return ChunkGet[T](c, line)
}

// SetComponent writes the entity's component of type T. The entity must be
// valid and its archetype must contain T.
func SetComponent[T any](w *World, e Entity, value T) {
	c, line := w.chunkOf(e)
	ChunkSet(c, line, value)
}

// EachChunk calls fn for every chunk whose archetype contains all components
// in a. Families are visited in insertion order, chunks within a family in
// insertion order. fn may mutate component data through the chunk; creating
// entities during iteration is not supported.
func (w *World) EachChunk(a Archetype, fn func(*Chunk)) {
	for i := range w.families {
		f := &w.families[i]
		if !f.archetype.Contains(a) {
			continue
		}
		for _, c := range f.chunks {
			fn(c)
		}
	}
}
