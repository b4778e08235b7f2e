package euler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatefold/gatefold/internal/gate"
	"github.com/gatefold/gatefold/internal/target"
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestPossibleDecomposersNilMeansAll(t *testing.T) {
	assert.Equal(t, AllBases(), PossibleDecomposers(nil))
}

func TestPossibleDecomposersFiltersByRequiredGates(t *testing.T) {
	got := PossibleDecomposers(set(gate.RZ, gate.RY))
	assert.Equal(t, []Basis{BasisZYZ}, got)

	got = PossibleDecomposers(set(gate.RZ, gate.RX))
	assert.Equal(t, []Basis{BasisZXZ, BasisXZX}, got)

	assert.Nil(t, PossibleDecomposers(set(gate.CX, gate.Measure)))
	assert.Nil(t, PossibleDecomposers(set()))
}

func TestPossibleDecomposersEliminations(t *testing.T) {
	// u3 alone keeps U3; adding u1 and u2 promotes to U321 and drops U3.
	assert.Equal(t, []Basis{BasisU3}, PossibleDecomposers(set(gate.U3)))
	assert.Equal(t, []Basis{BasisU321}, PossibleDecomposers(set(gate.U1, gate.U2, gate.U3)))

	// rz+sx keeps ZSX; adding x promotes to ZSXX and drops ZSX.
	assert.Equal(t, []Basis{BasisZSX}, PossibleDecomposers(set(gate.RZ, gate.SX)))
	assert.Equal(t, []Basis{BasisZSXX}, PossibleDecomposers(set(gate.RZ, gate.SX, gate.X)))
}

func TestScoreLexicographic(t *testing.T) {
	assert.True(t, Score{Error: 0, Gates: 1}.Less(Score{Error: 0, Gates: 2}))
	assert.True(t, Score{Error: 1e-6, Gates: 9}.Less(Score{Error: 1e-3, Gates: 1}))
	assert.False(t, Score{Error: 0, Gates: 2}.Less(Score{Error: 0, Gates: 2}))
	assert.False(t, Score{Error: 1e-3, Gates: 1}.Less(Score{Error: 1e-6, Gates: 9}))
}

func TestSequenceErrorAggregates(t *testing.T) {
	tgt := target.New(2)
	tgt.AddInstructionError(gate.RZ, 1, 1e-3)
	tgt.AddInstructionError(gate.SX, 1, 2e-3)
	em := target.BuildErrorMap(tgt)

	seq := GateSequence{Gates: []SeqGate{{Name: gate.RZ}, {Name: gate.SX}}}
	got := SequenceError(seq, 1, em)
	want := 1 - (1-1e-3)*(1-2e-3)
	assert.InDelta(t, want, got.Error, 1e-15)
	assert.Equal(t, 2, got.Gates)

	// Missing data contributes zero error.
	got = SequenceError(seq, 0, em)
	assert.Zero(t, got.Error)

	// A nil error map scores everything zero.
	got = RunError([]string{gate.H, gate.X}, 0, nil)
	assert.Zero(t, got.Error)
	assert.Equal(t, 2, got.Gates)
}
