package jobs

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// poisonID is outside the valid slot range; a handle carrying it tells a
// worker to exit.
const poisonID = PoolSize

// System schedules jobs from a Pool onto a fixed set of worker goroutines
// draining a shared ready queue. Caller threads never park while waiting:
// Wait and WaitAll execute queued jobs in place, which also keeps the system
// live when the pool is saturated and every worker is blocked on children.
type System struct {
	pool    *Pool
	ready   chan Handle
	pending atomic.Int64
	wg      sync.WaitGroup
	workers int
	log     *zap.Logger
}

// Option configures a System.
type Option func(*System)

// WithLogger attaches a structured logger for worker lifecycle and
// saturation events. The default logger is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(s *System) {
		s.log = log
	}
}

// WithWorkers overrides the worker count, which defaults to
// max(1, NumCPU-1).
func WithWorkers(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSystem creates a System and starts its workers.
func NewSystem(opts ...Option) *System {
	s := &System{
		pool:    NewPool(),
		workers: max(1, runtime.NumCPU()-1),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// At most PoolSize jobs exist at once, so sized this way the queue can
	// never reject a send.
	s.ready = make(chan Handle, PoolSize+s.workers)
	s.wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go s.worker(i)
	}
	s.log.Info("job system started", zap.Int("workers", s.workers))
	return s
}

func (s *System) worker(i int) {
	defer s.wg.Done()
	for h := range s.ready {
		if h.ID == poisonID {
			s.log.Debug("worker stopping", zap.Int("worker", i))
			return
		}
		s.workOne(h)
	}
}

// Create allocates a job for the task. When the pool is full the calling
// thread executes queued work until a slot frees up; Create never fails and
// never blocks the process.
func (s *System) Create(task func()) Handle {
	h, ok := s.pool.Create(task)
	if ok {
		return h
	}
	s.log.Debug("job pool full, borrowing work")
	for !ok {
		s.tryWork()
		h, ok = s.pool.Create(task)
	}
	return h
}

// CreateChild allocates a job linked under parent: the parent completes only
// after the child has finished. Build the child tree before scheduling the
// parent.
func (s *System) CreateChild(task func(), parent Handle) Handle {
	h, ok := s.pool.CreateChild(task, parent)
	if ok {
		return h
	}
	s.log.Debug("job pool full, borrowing work")
	for !ok {
		s.tryWork()
		h, ok = s.pool.CreateChild(task, parent)
	}
	return h
}

// Schedule makes the job runnable.
func (s *System) Schedule(h Handle) {
	s.pending.Add(1)
	s.ready <- h
}

// ScheduleAfter makes the job runnable once dep has completed. If dep has
// already completed the job is enqueued immediately; otherwise it is
// registered as a continuation and enqueued by whichever thread completes
// dep.
func (s *System) ScheduleAfter(h, dep Handle) {
	s.pending.Add(1)
	if !s.pool.AddContinuation(dep, h) {
		s.ready <- h
	}
}

// Wait returns once the job addressed by h has completed, executing queued
// work on the calling thread in the meantime.
func (s *System) Wait(h Handle) {
	for !s.pool.Finished(h) {
		s.tryWork()
	}
}

// WaitAll returns once every scheduled job has completed, executing queued
// work on the calling thread in the meantime.
func (s *System) WaitAll() {
	for s.pending.Load() > 0 {
		s.tryWork()
	}
}

// Finished reports whether the job addressed by h has completed.
func (s *System) Finished(h Handle) bool {
	return s.pool.Finished(h)
}

// tryWork executes one queued job if available and yields the processor
// otherwise.
func (s *System) tryWork() {
	select {
	case h := <-s.ready:
		if h.ID == poisonID {
			// Leave shutdown pills for the workers.
			s.ready <- h
			runtime.Gosched()
			return
		}
		s.workOne(h)
	default:
		runtime.Gosched()
	}
}

// workOne runs one job and enqueues whatever continuations its completion
// released. Continuations were counted in pending when they were scheduled,
// so only this job's count is released here.
func (s *System) workOne(h Handle) {
	conts := s.pool.Invoke(h)
	s.pending.Add(-1)
	for _, c := range conts {
		s.ready <- c
	}
}

// Close stops the workers and waits for them to exit. Jobs still queued
// behind the shutdown pills are not executed by workers; Close is meant to
// be called after WaitAll or when queued work no longer matters.
func (s *System) Close() {
	for i := 0; i < s.workers; i++ {
		s.ready <- Handle{ID: poisonID}
	}
	s.wg.Wait()
	s.log.Info("job system stopped")
}
