package layout_test

import (
	"math"
	"testing"

	"github.com/flowfcs/fcs/layout"
	"github.com/stretchr/testify/assert"
)

func TestCastUintToUintLossyOnOverflow(t *testing.T) {
	v, lossy := layout.CastUintToUint(300, 8)
	assert.True(t, lossy)
	assert.Equal(t, uint64(255), v)

	v, lossy = layout.CastUintToUint(200, 8)
	assert.False(t, lossy)
	assert.Equal(t, uint64(200), v)
}

func TestCastFloat64ToUintLossyOnNonIntegral(t *testing.T) {
	v, lossy := layout.CastFloat64ToUint(3.5, 16)
	assert.True(t, lossy)
	assert.Equal(t, uint64(3), v)

	v, lossy = layout.CastFloat64ToUint(3.0, 16)
	assert.False(t, lossy)
	assert.Equal(t, uint64(3), v)
}

func TestCastFloat64ToUintLossyOnNegativeAndNaN(t *testing.T) {
	_, lossy := layout.CastFloat64ToUint(-1, 16)
	assert.True(t, lossy)

	v, lossy := layout.CastFloat64ToUint(math.NaN(), 16)
	assert.True(t, lossy)
	assert.Equal(t, uint64(0), v)
}

func TestCastUintToFloat32LossyBeyond24Bits(t *testing.T) {
	_, lossy := layout.CastUintToFloat32(1 << 20)
	assert.False(t, lossy)
	_, lossy = layout.CastUintToFloat32(1 << 30)
	assert.True(t, lossy)
}

func TestCastFloat64ToFloat32AlwaysFlaggedLossy(t *testing.T) {
	f, lossy := layout.CastFloat64ToFloat32(1.0)
	assert.True(t, lossy)
	assert.Equal(t, float32(1.0), f)
}

func TestCastCellToColumnIntegerAppliesMask(t *testing.T) {
	col := layout.NewUintColumn(1)
	col.Bits[0] = 0xFFFF
	ic, err := layout.NewIntegerColumn(16, layout.LittleEndian(2), 0x00FF)
	assert := assert.New(t)
	assert.NoError(err)
	bits, lossy := layout.CastCellToColumn(col, 0, ic)
	assert.True(lossy)
	assert.Equal(uint64(0x00FF), bits)
}

func TestCastCellToColumnFloatRoundTrip(t *testing.T) {
	col := layout.NewFloat32Column(1)
	col.Bits[0] = uint64(math.Float32bits(3.25))
	fc := layout.FloatColumn{Order: layout.LittleEndian(4)}
	bits, lossy := layout.CastCellToColumn(col, 0, fc)
	assert.False(t, lossy)
	assert.Equal(t, float32(3.25), math.Float32frombits(uint32(bits)))
}
