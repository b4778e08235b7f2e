package euler

import "github.com/gatefold/gatefold/internal/target"

// SeqGate is one gate of a synthesized replacement, with fully bound angles.
type SeqGate struct {
	Name   string
	Params []float64
}

// GateSequence is a synthesized single-qubit sequence in execution order:
// Gates[0] is applied first. GlobalPhase is the phase the sequence adds to
// the enclosing circuit, already wrapped by the circuit on insertion.
type GateSequence struct {
	Basis       Basis
	Gates       []SeqGate
	GlobalPhase float64
}

// Score orders candidate sequences. Comparison is lexicographic: error
// probability first, then gate count. With no error data every error is
// zero and selection falls through to length.
type Score struct {
	Error float64
	Gates int
}

// Less reports whether s is strictly better than o.
func (s Score) Less(o Score) bool {
	if s.Error != o.Error {
		return s.Error < o.Error
	}
	return s.Gates < o.Gates
}

// SequenceError scores a synthesized sequence on the given physical qubit.
// The error is 1 - prod(1 - e_g) over per-gate error rates; gates with no
// recorded rate contribute zero.
func SequenceError(seq GateSequence, qubit int, em *target.ErrorMap) Score {
	fidelity := 1.0
	for _, g := range seq.Gates {
		fidelity *= 1 - em.GateError(g.Name, qubit)
	}
	return Score{Error: 1 - fidelity, Gates: len(seq.Gates)}
}

// RunError scores an existing run of gates, identified by name, on the given
// physical qubit. Same error model as SequenceError.
func RunError(names []string, qubit int, em *target.ErrorMap) Score {
	fidelity := 1.0
	for _, name := range names {
		fidelity *= 1 - em.GateError(name, qubit)
	}
	return Score{Error: 1 - fidelity, Gates: len(names)}
}
