package optimize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/gate"
)

type failingPass struct{ err error }

func (p failingPass) Name() string                 { return "failing" }
func (p failingPass) Run(c *circuit.Circuit) error { return p.err }

func TestPipelineRunsPassesInOrder(t *testing.T) {
	c := circuit.New(1, 1)
	mustAppend(t, c, gate.X, []int{0}, nil)
	mustAppend(t, c, gate.X, []int{0}, nil)
	mustAppend(t, c, gate.Measure, []int{0}, []int{0})

	pl := NewPipeline(
		NewFixedGenerator("run-1"),
		NewResynth1Q(WithBasis(gate.RZ, gate.SX, gate.X)),
		NewRemoveFinalMeasurements(),
	)
	token, err := pl.Run(c)
	require.NoError(t, err)
	assert.Equal(t, "run-1", token)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.NumClbits())
}

func TestPipelineAbortsOnFailure(t *testing.T) {
	c := circuit.New(1, 0)
	mustAppend(t, c, gate.X, []int{0}, nil)
	mustAppend(t, c, gate.X, []int{0}, nil)

	boom := errors.New("boom")
	pl := NewPipeline(NewFixedGenerator("run-1"), failingPass{err: boom}, NewResynth1Q())

	_, err := pl.Run(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// The pass after the failure never ran.
	assert.Equal(t, 2, c.Len())
}

func TestPipelineDefaultsToUUIDTokens(t *testing.T) {
	c := circuit.New(1, 0)
	token, err := NewPipeline(nil).Run(c)
	require.NoError(t, err)
	assert.Len(t, token, 36)
}

func TestFixedGeneratorSequence(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
