package layout_test

import (
	"testing"

	"github.com/flowfcs/fcs/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRowCountExactDivision(t *testing.T) {
	nrows, issues, err := layout.DeriveRowCount(nil, 100, 10, layout.DataConfig{})
	require.NoError(t, err)
	assert.Equal(t, 10, nrows)
	assert.Empty(t, issues)
}

func TestDeriveRowCountUnevenWidthErrorsByDefault(t *testing.T) {
	_, _, err := layout.DeriveRowCount(nil, 105, 10, layout.DataConfig{})
	assert.Error(t, err)
}

func TestDeriveRowCountUnevenWidthWarnsWhenAllowed(t *testing.T) {
	nrows, issues, err := layout.DeriveRowCount(nil, 105, 10, layout.DataConfig{AllowUnevenEventWidth: true})
	require.NoError(t, err)
	assert.Equal(t, 10, nrows)
	require.Len(t, issues, 1)
	assert.Equal(t, "UnevenEventWidth", issues[0].Kind)
}

func TestDeriveRowCountSegmentLengthIsAuthoritativeOverTot(t *testing.T) {
	tot := 5
	nrows, issues, err := layout.DeriveRowCount(&tot, 100, 10, layout.DataConfig{AllowTotMismatch: true})
	require.NoError(t, err)
	assert.Equal(t, 10, nrows)
	require.Len(t, issues, 1)
	assert.Equal(t, "TotMismatch", issues[0].Kind)
}

func TestDeriveRowCountTotMismatchFailsWhenDisallowed(t *testing.T) {
	tot := 5
	_, _, err := layout.DeriveRowCount(&tot, 100, 10, layout.DataConfig{AllowTotMismatch: false})
	assert.Error(t, err)
}

func TestDeriveRowCountRejectsNonPositiveEventWidth(t *testing.T) {
	_, _, err := layout.DeriveRowCount(nil, 100, 0, layout.DataConfig{})
	assert.Error(t, err)
}
