package katamari_test

import (
	"testing"

	"github.com/edwinsyarief/katamari"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test Components ---

type Position struct{ X, Y int32 }

type Velocity struct{ X, Y int32 }

type Render struct{ Color int32 }

type Comflabulation struct {
	Thingy float32
	Mingy  bool
	Dingy  int32
}

func setup(_ *testing.T) (posID, velID, renID, comID katamari.ComponentID) {
	katamari.ResetRegistry()
	posID = katamari.TypeID[Position]()
	velID = katamari.TypeID[Velocity]()
	renID = katamari.TypeID[Render]()
	comID = katamari.TypeID[Comflabulation]()
	return posID, velID, renID, comID
}

func TestTypeIDIdempotent(t *testing.T) {
	posID, _, _, _ := setup(t)
	require.Equal(t, posID, katamari.TypeID[Position]())

	id, ok := katamari.TryTypeID[Position]()
	require.True(t, ok)
	require.Equal(t, posID, id)

	type neverRegistered struct{ V int64 }
	_, ok = katamari.TryTypeID[neverRegistered]()
	require.False(t, ok)
}

func TestComponentSizes(t *testing.T) {
	posID, _, renID, comID := setup(t)
	assert.Equal(t, uintptr(8), katamari.SizeOf(posID))
	assert.Equal(t, uintptr(4), katamari.SizeOf(renID))
	assert.Equal(t, uintptr(12), katamari.SizeOf(comID))
}

func TestArchetypePermutations(t *testing.T) {
	posID, velID, renID, _ := setup(t)

	oracle := katamari.ArchetypeOf(renID, posID, velID)
	perms := [][]katamari.ComponentID{
		{posID, renID, velID},
		{velID, posID, renID},
		{renID, velID, posID},
		{posID, velID, renID},
	}
	for _, ids := range perms {
		require.Equal(t, oracle, katamari.ArchetypeOf(ids...))
	}
}

func TestArchetypeContains(t *testing.T) {
	posID, velID, renID, _ := setup(t)

	pv := katamari.ArchetypeOf(posID, velID)
	pvr := katamari.ArchetypeOf(posID, velID, renID)

	assert.True(t, pvr.Contains(pv))
	assert.False(t, pv.Contains(pvr))
	assert.True(t, pv.Contains(pv))
	assert.True(t, pv.Has(posID))
	assert.False(t, pv.Has(renID))
	assert.Equal(t, 3, pvr.Len())
	assert.NotEqual(t, pv, pvr)
}
