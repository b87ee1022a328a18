package layout_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/flowfcs/fcs/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAlphaNumThenReadAlphaNumRoundTrips(t *testing.T) {
	ic, err := layout.NewIntegerColumn(16, layout.LittleEndian(2), 0xFFFF)
	require.NoError(t, err)
	fc := layout.FloatColumn{Order: layout.LittleEndian(4)}
	ac := layout.AsciiColumn{Chars: 5}

	lay := layout.AlphaNum{NRows: 2, Columns: []layout.ColumnType{ic, fc, ac}}

	intCol := layout.NewUintColumn(2)
	intCol.Bits[0], intCol.Bits[1] = 10, 20
	floatCol := layout.NewFloat32Column(2)
	floatCol.Bits[0] = uint64(math.Float32bits(1.5))
	floatCol.Bits[1] = uint64(math.Float32bits(2.5))
	asciiCol := layout.NewUintColumn(2)
	asciiCol.Bits[0], asciiCol.Bits[1] = 7, 99

	df := layout.DataFrame{Columns: []layout.Column{intCol, floatCol, asciiCol}}
	require.NoError(t, df.Validate())

	var buf bytes.Buffer
	warnings, err := layout.WriteAlphaNum(&buf, df, lay, layout.LossPolicy{AllowLossyConversions: true})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, lay.EventWidth()*2, buf.Len())

	out, err := layout.ReadAlphaNum(bytes.NewReader(buf.Bytes()), lay)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 20}, out.Columns[0].Bits)
	assert.Equal(t, float32(1.5), math.Float32frombits(uint32(out.Columns[1].Bits[0])))
	assert.Equal(t, []uint64{7, 99}, out.Columns[2].Bits)
}

func TestWriteAlphaNumFailsFastOnColumnCountMismatch(t *testing.T) {
	lay := layout.AlphaNum{NRows: 1, Columns: []layout.ColumnType{layout.AsciiColumn{Chars: 3}}}
	df := layout.DataFrame{Columns: []layout.Column{layout.NewUintColumn(1), layout.NewUintColumn(1)}}
	var buf bytes.Buffer
	_, err := layout.WriteAlphaNum(&buf, df, lay, layout.LossPolicy{})
	assert.Error(t, err)
}

func TestWriteAlphaNumRejectsLossyConversionWhenDisallowed(t *testing.T) {
	ic, err := layout.NewIntegerColumn(8, layout.LittleEndian(1), 0xFF)
	require.NoError(t, err)
	lay := layout.AlphaNum{NRows: 1, Columns: []layout.ColumnType{ic}}
	col := layout.NewUintColumn(1)
	col.Bits[0] = 1000
	df := layout.DataFrame{Columns: []layout.Column{col}}

	var buf bytes.Buffer
	_, err = layout.WriteAlphaNum(&buf, df, lay, layout.LossPolicy{AllowLossyConversions: false})
	assert.Error(t, err)
}

func TestAsciiColumnTruncatesAndZeroPads(t *testing.T) {
	ac := layout.AsciiColumn{Chars: 3}
	lay := layout.AlphaNum{NRows: 1, Columns: []layout.ColumnType{ac}}
	col := layout.NewUintColumn(1)
	col.Bits[0] = 12345
	df := layout.DataFrame{Columns: []layout.Column{col}}

	var buf bytes.Buffer
	_, err := layout.WriteAlphaNum(&buf, df, lay, layout.LossPolicy{AllowLossyConversions: true})
	require.NoError(t, err)
	assert.Equal(t, "345", buf.String())
}

func TestWriteAsciiDelimitedSpaceSeparatesTokens(t *testing.T) {
	colA := layout.NewUintColumn(2)
	colA.Bits[0], colA.Bits[1] = 1, 3
	colB := layout.NewUintColumn(2)
	colB.Bits[0], colB.Bits[1] = 2, 4
	df := layout.DataFrame{Columns: []layout.Column{colA, colB}}

	var buf bytes.Buffer
	require.NoError(t, layout.WriteAsciiDelimited(&buf, df))
	assert.Equal(t, "1 2 3 4", buf.String())

	out, err := layout.ReadAsciiDelimited(buf.Bytes(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, out.Columns[0].Bits)
	assert.Equal(t, []uint64{2, 4}, out.Columns[1].Bits)
}
