// Package jobs implements a fixed-capacity, handle-addressed job scheduler
// with parent/child aggregation and post-completion continuations, serviced
// by a bounded worker pool. Waiting callers never park: they borrow queued
// work and execute it in place.
package jobs

import (
	"sync"
	"sync/atomic"
)

// PoolSize is the fixed number of job slots in a Pool.
const PoolSize = 65536

// Handle addresses a job slot. The version stamp makes handles ABA-safe:
// once a slot is recycled, stale handles observe a version mismatch and
// report the old job as finished.
type Handle struct {
	ID      uint32
	Version uint64
}

// slot is one cell of the pool. task, parent and hasParent are written by
// the creating thread before the handle escapes and read by the executing
// thread; unfinished is shared between the job and its children. The mutex
// guards the continuation list against the completion transition.
type slot struct {
	mu            sync.Mutex
	task          func()
	parent        Handle
	hasParent     bool
	unfinished    atomic.Int32
	continuations []Handle
}

// Pool is a fixed-size table of job slots with a parallel array of version
// counters and a queue of free slot IDs. All operations are safe for
// concurrent use unless noted otherwise.
type Pool struct {
	slots    []slot
	versions []atomic.Uint64
	free     chan uint32
}

// NewPool creates a pool with every slot free.
func NewPool() *Pool {
	p := &Pool{
		slots:    make([]slot, PoolSize),
		versions: make([]atomic.Uint64, PoolSize),
		free:     make(chan uint32, PoolSize),
	}
	for i := uint32(0); i < PoolSize; i++ {
		p.free <- i
	}
	return p
}

// Create allocates a slot for the task and returns its handle. It reports
// false when the pool is full; the caller is expected to execute pending
// work and retry rather than block.
func (p *Pool) Create(task func()) (Handle, bool) {
	var id uint32
	select {
	case id = <-p.free:
	default:
		return Handle{}, false
	}
	s := &p.slots[id]
	s.task = task
	s.hasParent = false
	s.unfinished.Store(1)
	s.continuations = s.continuations[:0]
	return Handle{ID: id, Version: p.versions[id].Load()}, true
}

// CreateChild allocates a slot like Create and links the job under parent:
// the parent cannot complete until the child has finished. The caller must
// guarantee the parent has not begun completing, which in practice means
// building the child tree before scheduling the parent.
func (p *Pool) CreateChild(task func(), parent Handle) (Handle, bool) {
	h, ok := p.Create(task)
	if !ok {
		return Handle{}, false
	}
	s := &p.slots[h.ID]
	s.parent = parent
	s.hasParent = true
	p.slots[parent.ID].unfinished.Add(1)
	return h, true
}

// AddContinuation registers cont to become runnable when dep completes. It
// reports false when dep has already completed (or its slot was recycled),
// in which case the caller must schedule cont itself.
//
// The slot mutex makes registration atomic with respect to the completion
// transition: while it is held, a version equal to the handle's means the
// dependency is still live and cannot complete.
func (p *Pool) AddContinuation(dep, cont Handle) bool {
	s := &p.slots[dep.ID]
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.versions[dep.ID].Load() > dep.Version {
		return false
	}
	s.continuations = append(s.continuations, cont)
	return true
}

// Invoke runs the slot's task and finishes the job. It returns the handles
// of continuations that became runnable, including those of ancestors that
// completed as a result. Invoke must be called exactly once per scheduled
// handle.
func (p *Pool) Invoke(h Handle) []Handle {
	p.slots[h.ID].task()
	return p.finish(h)
}

// finish decrements the job's unfinished counter. When it reaches zero the
// job transitions to completed: its continuations are captured, the version
// counter is bumped so Finished observes completion, the slot ID is returned
// to the free queue, and the parent (if any) is finished in turn.
func (p *Pool) finish(h Handle) []Handle {
	s := &p.slots[h.ID]
	if s.unfinished.Add(-1) > 0 {
		return nil
	}

	s.mu.Lock()
	ready := s.continuations
	s.continuations = nil
	parent, hasParent := s.parent, s.hasParent
	s.task = nil
	// The version bump must precede releasing the ID so a concurrent Create
	// never observes a stale version or stale continuations.
	p.versions[h.ID].Add(1)
	s.mu.Unlock()
	p.free <- h.ID

	if hasParent {
		ready = append(ready, p.finish(parent)...)
	}
	return ready
}

// Finished reports whether the job addressed by h has completed. It stays
// true after the slot is recycled for another job.
func (p *Pool) Finished(h Handle) bool {
	return p.versions[h.ID].Load() > h.Version
}
