package fcs

import (
	"testing"

	"github.com/flowfcs/fcs/layout"
	"github.com/flowfcs/fcs/validated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestByteOrderForWidthRejectsMismatchByDefault exercises the $PnB=24
// boundary: a $BYTEORD whose own width disagrees with the column width
// is rejected by default, and accepted only once its width actually
// matches.
func TestByteOrderForWidthRejectsMismatchByDefault(t *testing.T) {
	big4, err := layout.ParseByteOrd("4,3,2,1")
	require.NoError(t, err)

	_, err = byteOrderForWidth(big4, 3, false)
	assert.Error(t, err)

	big3, err := layout.ParseByteOrd("3,2,1")
	require.NoError(t, err)
	order, err := byteOrderForWidth(big3, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Len())
}

func TestByteOrderForWidthAllowsOverride(t *testing.T) {
	big4, err := layout.ParseByteOrd("4,3,2,1")
	require.NoError(t, err)

	order, err := byteOrderForWidth(big4, 3, true)
	require.NoError(t, err)
	assert.True(t, order.IsBigEndian())
	assert.Equal(t, 3, order.Len())
}

func TestBuildColumnTypeRejectsRangeTruncationWhenDisallowed(t *testing.T) {
	order := layout.LittleEndian(1)
	rng := validated.NewRangeFromUint64(1 << 16)

	_, err := buildColumnType('I', 8, rng, order, false, true)
	assert.Error(t, err)

	_, err = buildColumnType('I', 8, rng, order, false, false)
	assert.NoError(t, err)
}
