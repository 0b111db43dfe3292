package marco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineRejectsInvalidOptionsWithoutPanicking(t *testing.T) {
	e, err := NewEngine(WithMaxBlockDepth(0))
	assert.Nil(t, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid engine options")
}

func TestNewPanicsOnInvalidOptions(t *testing.T) {
	assert.Panics(t, func() {
		New(WithMaxAdmonitionDepth(-1))
	})
}

func TestNewEngineAcceptsValidOptions(t *testing.T) {
	e, err := NewEngine(WithMaxBlockDepth(4))
	require.NoError(t, err)
	require.NotNil(t, e)
}
