package options_test

import (
	"fmt"
	"testing"

	"github.com/flowfcs/fcs/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type target struct {
	a int
	b string
}

func TestApplyRunsOptionsInOrder(t *testing.T) {
	tgt := &target{}
	err := options.Apply(tgt,
		options.NoError[*target](func(tg *target) { tg.a = 1 }),
		options.NoError[*target](func(tg *target) { tg.b = "x" }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, tgt.a)
	assert.Equal(t, "x", tgt.b)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tgt := &target{}
	called := false
	err := options.Apply(tgt,
		options.New[*target](func(tg *target) error { return fmt.Errorf("boom") }),
		options.NoError[*target](func(tg *target) { called = true }),
	)
	assert.Error(t, err)
	assert.False(t, called)
}

func TestApplySkipsNilOptions(t *testing.T) {
	tgt := &target{}
	err := options.Apply[*target](tgt, nil, options.NoError[*target](func(tg *target) { tg.a = 5 }))
	require.NoError(t, err)
	assert.Equal(t, 5, tgt.a)
}
