package schema_test

import (
	"testing"

	"github.com/flowfcs/fcs/keyword"
	"github.com/flowfcs/fcs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promoted(t *testing.T, version schema.Version, extra map[string]string) *schema.Result {
	t.Helper()
	pk := keyword.New()
	base := map[string]string{
		"BYTEORD":  "1,2",
		"DATATYPE": "I",
		"MODE":     "L",
		"PAR":      "1",
		"P1B":      "16",
		"P1R":      "1024",
	}
	for k, v := range base {
		require.NoError(t, pk.InsertStandard(k, v))
	}
	for k, v := range extra {
		pk.SetStandard(k, v)
	}
	tv := schema.Promote(pk, version, schema.Config{AllowPseudostandard: true})
	require.False(t, tv.HasErrors())
	return tv.Value
}

func TestConvertDropsLaterVersionFieldWithWarningByDefault(t *testing.T) {
	res := promoted(t, schema.V31, map[string]string{"VOL": "5", "P1N": "FL1"})
	mr, _, warnings, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V30, schema.ConvertConfig{})
	require.NoError(t, err)
	assert.Nil(t, mr.Vol)
	require.Len(t, warnings, 1)
	assert.Equal(t, "VOL", warnings[0].Field)
}

func TestConvertFailsUnderLosslessWhenFieldWouldDrop(t *testing.T) {
	res := promoted(t, schema.V31, map[string]string{"VOL": "5", "P1N": "FL1"})
	_, _, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V30, schema.ConvertConfig{Lossless: true})
	assert.Error(t, err)
}

func TestConvertTo32RequiresCyt(t *testing.T) {
	res := promoted(t, schema.V30, nil)
	_, _, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V32, schema.ConvertConfig{})
	assert.Error(t, err)
}

func TestConvertByteOrdRejectsArbitraryPermutationInto31(t *testing.T) {
	res := promoted(t, schema.V30, map[string]string{"BYTEORD": "2,1,4,3"})
	_, _, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V31, schema.ConvertConfig{})
	assert.Error(t, err)
}

func TestConvertFailsOnUnnamedMeasurementUnderLossless(t *testing.T) {
	res := promoted(t, schema.V20, nil)
	_, ok := res.Measurements.Get(0)
	require.True(t, ok)
	require.False(t, res.Measurements.HasName(0))

	_, _, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V31, schema.ConvertConfig{Lossless: true})
	assert.Error(t, err)
}

func TestConvertSynthesizesNameAndWarnsWhenNotLossless(t *testing.T) {
	res := promoted(t, schema.V20, nil)
	require.False(t, res.Measurements.HasName(0))

	_, newMeas, warnings, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V31, schema.ConvertConfig{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "P1N", warnings[0].Field)
	el := newMeas.All()[0]
	assert.Equal(t, "$P1", el.Name)
}

func TestConvertShortnamePrefixOverridesSynthesizedName(t *testing.T) {
	res := promoted(t, schema.V20, nil)
	_, newMeas, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V31, schema.ConvertConfig{ShortnamePrefix: "$Custom"})
	require.NoError(t, err)
	el := newMeas.All()[0]
	assert.Equal(t, "$Custom1", el.Name)
}

func TestConvertClearsGainWhenTargetPredates30(t *testing.T) {
	res := promoted(t, schema.V30, map[string]string{"P1G": "2.0"})
	opt, ok := res.Measurements.Get(0)
	require.True(t, ok)
	require.NotNil(t, opt.Gain)

	_, newMeas, _, err := schema.Convert(res.MetaRoot, res.Measurements, schema.V20, schema.ConvertConfig{})
	require.NoError(t, err)
	converted, ok := newMeas.Get(0)
	require.True(t, ok)
	assert.Nil(t, converted.Gain)
}
