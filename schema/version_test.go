package schema_test

import (
	"testing"

	"github.com/flowfcs/fcs/measure"
	"github.com/flowfcs/fcs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionStringRoundTripsThroughParseVersion(t *testing.T) {
	for _, v := range []schema.Version{schema.V20, schema.V30, schema.V31, schema.V32} {
		parsed, err := schema.ParseVersion(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestParseVersionRejectsUnknownTag(t *testing.T) {
	_, err := schema.ParseVersion("FCS9.9")
	assert.Error(t, err)
}

func TestNamePolicyByVersion(t *testing.T) {
	assert.Equal(t, measure.Maybe, schema.V20.NamePolicy())
	assert.Equal(t, measure.Maybe, schema.V30.NamePolicy())
	assert.Equal(t, measure.Always, schema.V31.NamePolicy())
	assert.Equal(t, measure.Always, schema.V32.NamePolicy())
}

func TestHasGainIs30Plus(t *testing.T) {
	assert.False(t, schema.V20.HasGain())
	assert.True(t, schema.V30.HasGain())
	assert.True(t, schema.V31.HasGain())
	assert.True(t, schema.V32.HasGain())
}

func TestRequiresSupplementalTextOnlyFor30And31(t *testing.T) {
	assert.False(t, schema.V20.RequiresSupplementalText())
	assert.True(t, schema.V30.RequiresSupplementalText())
	assert.True(t, schema.V31.RequiresSupplementalText())
	assert.False(t, schema.V32.RequiresSupplementalText())
}
