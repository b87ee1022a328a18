package segment_test

import (
	"testing"

	"github.com/flowfcs/fcs/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBeginAfterEnd(t *testing.T) {
	_, err := segment.New(10, 5, segment.RegionData, segment.SourceHeader)
	assert.Error(t, err)
}

func TestNewAllowsEmptyConvention(t *testing.T) {
	s, err := segment.New(0, 0, segment.RegionData, segment.SourceHeader)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, uint32(0), s.Len())
}

func TestLenIsInclusive(t *testing.T) {
	s, err := segment.New(10, 19, segment.RegionData, segment.SourceHeader)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), s.Len())
}

func TestContainsRejectsEmptyOperands(t *testing.T) {
	empty := segment.Empty(segment.RegionData, segment.SourceHeader)
	full, _ := segment.New(0, 10, segment.RegionData, segment.SourceHeader)
	assert.False(t, full.Contains(empty))
	assert.False(t, empty.Contains(full))
}

func TestContainsAndOverlaps(t *testing.T) {
	outer, _ := segment.New(0, 100, segment.RegionData, segment.SourceHeader)
	inner, _ := segment.New(10, 20, segment.RegionData, segment.SourceHeader)
	disjoint, _ := segment.New(200, 210, segment.RegionData, segment.SourceHeader)

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Overlaps(inner))
	assert.False(t, outer.Overlaps(disjoint))
}

func TestCorrectionApplyClampsNegativeByDefault(t *testing.T) {
	c := segment.Correction{Begin: -5, End: 0}
	b, e := c.Apply(2, 10, false)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, uint32(10), e)
}

func TestCorrectionApplyAllowsNegativeWhenRequested(t *testing.T) {
	c := segment.Correction{Begin: -1, End: 0}
	b, e := c.Apply(0, 10, true)
	// Requesting allowNegative surfaces the underflowed uint32 as-is; the
	// caller is expected to catch the resulting inconsistency at
	// segment.New.
	assert.NotEqual(t, uint32(0), b)
	assert.Equal(t, uint32(10), e)
}

func TestResolveBothNil(t *testing.T) {
	res, err := segment.Resolve(segment.RegionData, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Segment.IsEmpty())
	assert.False(t, res.Mismatch)
}

func TestResolveOnlyTextPresent(t *testing.T) {
	text, _ := segment.New(5, 15, segment.RegionData, segment.SourceText)
	res, err := segment.Resolve(segment.RegionData, nil, &text)
	require.NoError(t, err)
	assert.Equal(t, text, res.Segment)
	assert.False(t, res.Mismatch)
}

func TestResolveAgreeingPair(t *testing.T) {
	header, _ := segment.New(5, 15, segment.RegionData, segment.SourceHeader)
	text, _ := segment.New(5, 15, segment.RegionData, segment.SourceText)
	res, err := segment.Resolve(segment.RegionData, &header, &text)
	require.NoError(t, err)
	assert.Equal(t, text, res.Segment)
	assert.False(t, res.Mismatch)
}

func TestResolveEmptyHeaderIsNotAMismatch(t *testing.T) {
	header := segment.Empty(segment.RegionData, segment.SourceHeader)
	text, _ := segment.New(1000, 2000, segment.RegionData, segment.SourceText)
	res, err := segment.Resolve(segment.RegionData, &header, &text)
	require.NoError(t, err)
	assert.Equal(t, text, res.Segment)
	assert.False(t, res.Mismatch)
}

func TestResolveDisagreeingPairFlagsMismatch(t *testing.T) {
	header, _ := segment.New(5, 15, segment.RegionData, segment.SourceHeader)
	text, _ := segment.New(6, 16, segment.RegionData, segment.SourceText)
	res, err := segment.Resolve(segment.RegionData, &header, &text)
	require.NoError(t, err)
	assert.Equal(t, text, res.Segment)
	assert.True(t, res.Mismatch)
}

func TestIsValidHeaderOffset(t *testing.T) {
	assert.True(t, segment.IsValidHeaderOffset(99_999_999))
	assert.False(t, segment.IsValidHeaderOffset(100_000_000))
}
