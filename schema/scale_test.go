package schema_test

import (
	"testing"

	"github.com/flowfcs/fcs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRejectsNonPositiveDecadesOrOffset(t *testing.T) {
	_, err := schema.Log(0, 1)
	assert.Error(t, err)
	_, err = schema.Log(4, 0)
	assert.Error(t, err)
}

func TestLinearGainRejectsNonPositiveGain(t *testing.T) {
	_, err := schema.LinearGain(0)
	assert.Error(t, err)
}

func TestParsePnEZeroZeroIsLinear(t *testing.T) {
	s, fixed, err := schema.ParsePnE(0, 0, true)
	require.NoError(t, err)
	assert.False(t, fixed)
	assert.Equal(t, schema.ScaleLinear, s.Kind)
}

func TestParsePnEDecadesWithZeroOffsetFixedWhenAllowed(t *testing.T) {
	s, fixed, err := schema.ParsePnE(4, 0, true)
	require.NoError(t, err)
	assert.True(t, fixed)
	assert.Equal(t, schema.ScaleLog, s.Kind)
	assert.Equal(t, 1.0, s.Offset)
}

func TestParsePnEDecadesWithZeroOffsetFailsWhenNotFixed(t *testing.T) {
	_, _, err := schema.ParsePnE(4, 0, false)
	assert.Error(t, err)
}

func TestParsePnEOrdinaryLog(t *testing.T) {
	s, fixed, err := schema.ParsePnE(4, 1, true)
	require.NoError(t, err)
	assert.False(t, fixed)
	assert.Equal(t, schema.ScaleLog, s.Kind)
	assert.Equal(t, 4.0, s.Decades)
	assert.Equal(t, 1.0, s.Offset)
}

func TestResolvePnEPnGNoGainPassesThrough(t *testing.T) {
	logScale, _, err := schema.ParsePnE(4, 1, false)
	require.NoError(t, err)
	resolved, err := schema.ResolvePnEPnG(logScale, nil)
	require.NoError(t, err)
	assert.Equal(t, logScale, resolved)
}

func TestResolvePnEPnGRejectsBothLogAndGain(t *testing.T) {
	logScale, _, err := schema.ParsePnE(4, 1, false)
	require.NoError(t, err)
	gain := 2.0
	_, err = schema.ResolvePnEPnG(logScale, &gain)
	assert.Error(t, err)
}

func TestResolvePnEPnGAppliesGainToLinear(t *testing.T) {
	linear := schema.Linear()
	gain := 2.0
	resolved, err := schema.ResolvePnEPnG(linear, &gain)
	require.NoError(t, err)
	assert.Equal(t, schema.ScaleLinearGain, resolved.Kind)
	assert.Equal(t, 2.0, resolved.Gain)
}
