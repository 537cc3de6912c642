package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolCreateInvokeFinish(t *testing.T) {
	p := NewPool()

	ran := false
	h, ok := p.Create(func() { ran = true })
	require.True(t, ok)
	assert.False(t, p.Finished(h))

	conts := p.Invoke(h)
	assert.True(t, ran)
	assert.True(t, p.Finished(h))
	assert.Empty(t, conts)
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool()

	handles := make([]Handle, 0, PoolSize)
	for i := 0; i < PoolSize; i++ {
		h, ok := p.Create(func() {})
		require.True(t, ok)
		handles = append(handles, h)
	}

	_, ok := p.Create(func() {})
	require.False(t, ok, "pool must report exhaustion instead of blocking")

	// Completing one job frees exactly one slot.
	p.Invoke(handles[0])
	h, ok := p.Create(func() {})
	require.True(t, ok)
	require.Equal(t, handles[0].ID, h.ID)
	require.Equal(t, handles[0].Version+1, h.Version)
}

func TestPoolHandleRecyclingABASafe(t *testing.T) {
	p := NewPool()

	old, ok := p.Create(func() {})
	require.True(t, ok)
	p.Invoke(old)
	require.True(t, p.Finished(old))

	// Drain the free queue until the slot comes around again.
	for {
		h, ok := p.Create(func() {})
		require.True(t, ok)
		if h.ID == old.ID {
			require.Greater(t, h.Version, old.Version)
			require.False(t, p.Finished(h))
			// The stale handle still reads as finished.
			require.True(t, p.Finished(old))
			break
		}
	}
}

func TestPoolParentCounter(t *testing.T) {
	p := NewPool()

	order := []string{}
	parent, ok := p.Create(func() { order = append(order, "parent") })
	require.True(t, ok)
	childA, ok := p.CreateChild(func() { order = append(order, "a") }, parent)
	require.True(t, ok)
	childB, ok := p.CreateChild(func() { order = append(order, "b") }, parent)
	require.True(t, ok)

	// The parent's own task running is not completion: both children are
	// still unfinished.
	p.Invoke(parent)
	assert.False(t, p.Finished(parent))

	p.Invoke(childA)
	assert.True(t, p.Finished(childA))
	assert.False(t, p.Finished(parent))

	p.Invoke(childB)
	assert.True(t, p.Finished(childB))
	assert.True(t, p.Finished(parent))
	assert.Equal(t, []string{"parent", "a", "b"}, order)
}

func TestPoolContinuationHandoff(t *testing.T) {
	p := NewPool()

	dep, ok := p.Create(func() {})
	require.True(t, ok)
	cont, ok := p.Create(func() {})
	require.True(t, ok)

	require.True(t, p.AddContinuation(dep, cont))

	released := p.Invoke(dep)
	require.Equal(t, []Handle{cont}, released)
	require.False(t, p.Finished(cont))
}

func TestPoolAddContinuationAfterCompletion(t *testing.T) {
	p := NewPool()

	dep, ok := p.Create(func() {})
	require.True(t, ok)
	p.Invoke(dep)

	cont, ok := p.Create(func() {})
	require.True(t, ok)
	// Registration reports false so the caller schedules immediately.
	require.False(t, p.AddContinuation(dep, cont))
}

func TestPoolParentCompletionReleasesContinuations(t *testing.T) {
	p := NewPool()

	parent, ok := p.Create(func() {})
	require.True(t, ok)
	child, ok := p.CreateChild(func() {}, parent)
	require.True(t, ok)
	after, ok := p.Create(func() {})
	require.True(t, ok)
	require.True(t, p.AddContinuation(parent, after))

	require.Empty(t, p.Invoke(parent))

	// Finishing the last child completes the parent and surfaces the
	// parent's continuations through the child's invoke.
	released := p.Invoke(child)
	require.Equal(t, []Handle{after}, released)
	require.True(t, p.Finished(parent))
}
