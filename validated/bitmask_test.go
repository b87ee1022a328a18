package validated_test

import (
	"testing"

	"github.com/flowfcs/fcs/validated"
	"github.com/stretchr/testify/assert"
)

func TestNewBitmaskPowerOfTwoIsRepresentable(t *testing.T) {
	b := validated.NewBitmask[uint16](8, 16)
	assert.Equal(t, uint16(15), b.Mask())
	assert.False(t, b.Truncated())
	assert.GreaterOrEqual(t, uint64(b.Mask()), uint64(8))
}

func TestNewBitmaskZeroValue(t *testing.T) {
	b := validated.NewBitmask[uint8](0, 8)
	assert.Equal(t, uint8(0), b.Mask())
	assert.False(t, b.Truncated())
}

func TestNewBitmaskTruncatesWhenRangeExceedsWidth(t *testing.T) {
	b := validated.NewBitmask[uint8](1000, 8)
	assert.True(t, b.Truncated())
	assert.Equal(t, uint8(255), b.Mask())
}

func TestNewBitmaskFullWidth64(t *testing.T) {
	b := validated.NewBitmask[uint64](^uint64(0), 64)
	assert.Equal(t, ^uint64(0), b.Mask())
	assert.False(t, b.Truncated())
}

func TestApplyIsIdempotentAndBounded(t *testing.T) {
	b := validated.NewBitmask[uint16](100, 10)
	v := uint16(0xFFFF)
	once := b.Apply(v)
	twice := b.Apply(once)
	assert.Equal(t, once, twice)
	assert.LessOrEqual(t, once, b.Mask())
}
