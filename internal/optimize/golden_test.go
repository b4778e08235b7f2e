package optimize

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/gate"
)

// TestPipelineGolden pins the encoded output of a full pipeline run. The
// doubled x collapses to nothing, the final measurement and its clbit go,
// and only the entangler survives.
func TestPipelineGolden(t *testing.T) {
	c := circuit.New(2, 1)
	mustAppend(t, c, gate.X, []int{0}, nil)
	mustAppend(t, c, gate.X, []int{0}, nil)
	mustAppend(t, c, gate.CX, []int{0, 1}, nil)
	mustAppend(t, c, gate.Measure, []int{0}, []int{0})

	pl := NewPipeline(
		NewFixedGenerator("golden-run"),
		NewResynth1Q(WithBasis(gate.RZ, gate.SX, gate.X, gate.CX)),
		NewRemoveFinalMeasurements(),
	)
	_, err := pl.Run(c)
	require.NoError(t, err)

	encoded, err := circuit.Encode(c)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "pipeline_collapse", encoded)
}
