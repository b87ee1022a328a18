package measure_test

import (
	"testing"

	"github.com/flowfcs/fcs/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestTryNewRejectsMultipleCenters(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{Key: ptr("a"), IsCenter: true, Center: 1},
		{Key: ptr("b"), IsCenter: true, Center: 2},
	}
	_, err := measure.TryNew[int, string](measure.Maybe, "P", entries)
	assert.Error(t, err)
}

func TestTryNewRejectsCenterWithoutName(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{IsCenter: true, Center: 1},
	}
	_, err := measure.TryNew[int, string](measure.Maybe, "P", entries)
	assert.Error(t, err)
}

func TestTryNewAlwaysPolicyRequiresNonCenterName(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{Optical: "FSC-A"},
	}
	_, err := measure.TryNew[int, string](measure.Always, "P", entries)
	assert.Error(t, err)
}

func TestEffectiveNameFallsBackToSynthesized(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{Optical: "FSC-A"},
		{Key: ptr("FL1-H"), Optical: "FL1"},
	}
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", entries)
	require.NoError(t, err)
	assert.Equal(t, "P1", nv.EffectiveName(0))
	assert.Equal(t, "FL1-H", nv.EffectiveName(1))
}

func TestTryNewRejectsNameCollision(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{Key: ptr("P2")},
		{Optical: "other"},
	}
	_, err := measure.TryNew[int, string](measure.Maybe, "P", entries)
	assert.Error(t, err)
}

func TestGetAndGetCenter(t *testing.T) {
	entries := []measure.Entry[int, string]{
		{Optical: "FSC-A"},
		{Key: ptr("Time"), IsCenter: true, Center: 99},
	}
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", entries)
	require.NoError(t, err)

	v, ok := nv.Get(0)
	require.True(t, ok)
	assert.Equal(t, "FSC-A", v)

	_, ok = nv.Get(1)
	assert.False(t, ok)

	c, ok := nv.GetCenter()
	require.True(t, ok)
	assert.Equal(t, 99, c)
}

func TestPushAndInsertMaintainOrderAndCenterIndex(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)

	_, err = nv.Push(nil, "A")
	require.NoError(t, err)
	err = nv.PushCenter("Time", 5)
	require.NoError(t, err)
	_, err = nv.Insert(0, nil, "B")
	require.NoError(t, err)

	assert.Equal(t, 3, nv.Len())
	assert.True(t, nv.HasCenter())
	assert.Equal(t, 2, nv.CenterIndex())
}

func TestRemoveIndexCollapsesCenter(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	require.NoError(t, nv.PushCenter("Time", 7))
	_, err = nv.Push(nil, "A")
	require.NoError(t, err)

	isCenter, _, center, err := nv.RemoveIndex(0)
	require.NoError(t, err)
	assert.True(t, isCenter)
	assert.Equal(t, 7, center)
	assert.False(t, nv.HasCenter())
}

func TestRenameEnforcesUniqueness(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	_, err = nv.Push(ptr("A"), "one")
	require.NoError(t, err)
	_, err = nv.Push(ptr("B"), "two")
	require.NoError(t, err)

	err = nv.Rename(1, ptr("A"))
	assert.Error(t, err)
	assert.Equal(t, "B", nv.EffectiveName(1))
}

func TestSetCenterByIndexSwapsRoles(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	require.NoError(t, nv.PushCenter("Time", 7))
	_, err = nv.Push(ptr("A"), "one")
	require.NoError(t, err)

	toCenter := func(v string) int { return len(v) }
	toOptical := func(u int) string { return "restored" }

	err = nv.SetCenterByIndex(1, toCenter, toOptical)
	require.NoError(t, err)
	assert.Equal(t, 1, nv.CenterIndex())

	c, ok := nv.GetCenter()
	require.True(t, ok)
	assert.Equal(t, len("one"), c)

	v, ok := nv.Get(0)
	require.True(t, ok)
	assert.Equal(t, "restored", v)
}

func TestUnsetCenterDemotesToOptical(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	require.NoError(t, nv.PushCenter("Time", 7))

	err = nv.UnsetCenter(func(u int) string { return "demoted" })
	require.NoError(t, err)
	assert.False(t, nv.HasCenter())

	v, ok := nv.Get(0)
	require.True(t, ok)
	assert.Equal(t, "demoted", v)
}

func TestSetNamesRenamesEveryNonCenterAndReportsMapping(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	_, err = nv.Push(nil, "one")
	require.NoError(t, err)
	_, err = nv.Push(nil, "two")
	require.NoError(t, err)

	result, err := nv.SetNames([]string{"X", "Y"})
	require.NoError(t, err)
	assert.Equal(t, "Y", result["P2"])
	assert.Equal(t, "X", nv.EffectiveName(0))
}

func TestAllReturnsPositionalElements(t *testing.T) {
	nv, err := measure.TryNew[int, string](measure.Maybe, "P", nil)
	require.NoError(t, err)
	_, err = nv.Push(nil, "A")
	require.NoError(t, err)
	require.NoError(t, nv.PushCenter("Time", 3))

	all := nv.All()
	require.Len(t, all, 2)
	assert.False(t, all[0].IsCenter)
	assert.Equal(t, "A", all[0].NonCenter)
	assert.True(t, all[1].IsCenter)
	assert.Equal(t, 3, all[1].Center)
}
