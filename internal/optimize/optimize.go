package optimize

import (
	"fmt"
	"log/slog"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/euler"
	"github.com/gatefold/gatefold/internal/gate"
	"github.com/gatefold/gatefold/internal/target"
)

// restriction selects how the pass decides which decomposer families and
// error rates apply to a qubit.
type restriction int

const (
	// noRestriction synthesizes against every family with zero errors.
	noRestriction restriction = iota

	// explicitBasis restricts families to a fixed gate-name set, the same
	// on every qubit, with zero errors.
	explicitBasis

	// deviceModel restricts families per physical qubit using a device
	// target, and scores candidates with its recorded error rates.
	deviceModel
)

// Synthesizer produces a replacement sequence for an accumulated unitary,
// or nil when it declines. The default is the Euler kernel; tests inject
// their own to pin down the substitution policy in isolation.
type Synthesizer interface {
	Synthesize(u gate.Mat2, bases []euler.Basis, qubit int, em *target.ErrorMap, atol float64) *euler.GateSequence
}

type eulerSynthesizer struct{}

func (eulerSynthesizer) Synthesize(u gate.Mat2, bases []euler.Basis, qubit int, em *target.ErrorMap, atol float64) *euler.GateSequence {
	return euler.Synthesize(u, bases, qubit, em, atol)
}

// Resynth1Q rewrites maximal runs of single-qubit gates as shorter or
// lower-error sequences drawn from the eligible Euler families.
//
// The pass is configured once and may be run against any number of
// circuits. It holds no per-circuit state between runs.
type Resynth1Q struct {
	mode   restriction
	basis  map[string]bool
	target *target.Target
	errMap *target.ErrorMap
	atol   float64
	synth  Synthesizer
}

// PassOption allows configuration of pass parameters.
type PassOption func(*Resynth1Q)

// WithBasis restricts synthesis to the given gate names. Overrides any
// earlier WithTarget.
func WithBasis(names ...string) PassOption {
	return func(p *Resynth1Q) {
		p.mode = explicitBasis
		p.basis = make(map[string]bool, len(names))
		for _, n := range names {
			p.basis[n] = true
		}
		p.target = nil
		p.errMap = nil
	}
}

// WithTarget restricts synthesis per physical qubit using a device target
// and scores candidates with its error rates. Overrides any earlier
// WithBasis. A nil target leaves the pass unrestricted.
func WithTarget(t *target.Target) PassOption {
	return func(p *Resynth1Q) {
		if t == nil {
			return
		}
		p.mode = deviceModel
		p.target = t
		p.errMap = target.BuildErrorMap(t)
		p.basis = nil
	}
}

// WithTolerance sets the absolute tolerance for angle simplification.
func WithTolerance(atol float64) PassOption {
	return func(p *Resynth1Q) { p.atol = atol }
}

// WithSynthesizer replaces the synthesis kernel.
func WithSynthesizer(s Synthesizer) PassOption {
	return func(p *Resynth1Q) { p.synth = s }
}

// NewResynth1Q creates the pass. With no options it synthesizes against
// every family and keeps a run only when the replacement is strictly
// shorter.
func NewResynth1Q(opts ...PassOption) *Resynth1Q {
	p := &Resynth1Q{
		mode:  noRestriction,
		atol:  1e-12,
		synth: eulerSynthesizer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Pass.
func (p *Resynth1Q) Name() string { return "resynth_1q" }

// Run rewrites c in place. Control-flow blocks are rewritten before the
// enclosing circuit; a block whose width disagrees with its carrier node is
// a fatal structural error.
func (p *Resynth1Q) Run(c *circuit.Circuit) error {
	// Decomposer lists are cached for the duration of one invocation so
	// repeated qubits and nested blocks share the lookup.
	cache := make(map[int][]euler.Basis)
	qmap := make([]int, c.NumQubits())
	for i := range qmap {
		qmap[i] = i
	}
	return p.run(c, qmap, cache)
}

func (p *Resynth1Q) run(c *circuit.Circuit, qmap []int, cache map[int][]euler.Basis) error {
	for _, n := range c.TopoNodes() {
		if len(n.Op.Blocks) == 0 {
			continue
		}
		inner := make([]int, len(n.Qubits))
		for i, q := range n.Qubits {
			inner[i] = qmap[q]
		}
		for _, block := range n.Op.Blocks {
			if block.NumQubits() != len(n.Qubits) {
				return newBlockMismatchError(p.Name(), n.ID(), block.NumQubits(), len(n.Qubits))
			}
			if err := p.run(block, inner, cache); err != nil {
				return err
			}
		}
	}

	for _, run := range c.Collect1QRuns() {
		p.resynthesize(c, run, qmap, cache)
	}
	return nil
}

// resynthesize synthesizes one run and substitutes it when the policy says
// the replacement wins. Runs come from the circuit's own link structure, so
// any inconsistency found while rewriting is a programming error and panics.
func (p *Resynth1Q) resynthesize(c *circuit.Circuit, run []circuit.NodeID, qmap []int, cache map[int][]euler.Basis) {
	first := c.Node(run[0])
	logical := first.Qubits[0]
	phys := qmap[logical]

	u, ok := c.RunUnitary(run)
	if !ok {
		return
	}
	bases := p.decomposersFor(phys, cache)
	seq := p.synth.Synthesize(u, bases, phys, p.errMap, p.atol)
	if seq == nil {
		return
	}

	names := make([]string, len(run))
	for i, id := range run {
		names[i] = c.Node(id).Name()
	}
	if !p.shouldSubstitute(c, run, names, *seq, phys) {
		return
	}

	for _, g := range seq.Gates {
		op := circuit.Operation{Name: g.Name, Params: g.Params}
		if _, err := c.InsertBefore(run[0], op, []int{logical}, nil); err != nil {
			panic(fmt.Sprintf("resynth_1q: insert before run head: %v", err))
		}
	}
	c.AddGlobalPhase(seq.GlobalPhase)
	for _, id := range run {
		c.Remove(id)
	}

	slog.Debug("run resynthesized",
		"qubit", phys,
		"old_gates", len(run),
		"new_gates", len(seq.Gates),
		"family", seq.Basis.String())
}

// shouldSubstitute applies the substitution policy:
//
//  1. a run containing an uncalibrated gate outside the configured basis is
//     replaced unconditionally,
//  2. a run with any uncalibrated gate is replaced when the candidate
//     scores strictly better,
//  3. a candidate whose error is within the configured tolerance of zero
//     replaces a run whose error is not.
//
// Otherwise the run is kept. Calibrated gates never count toward the basis
// test; a bespoke pulse implementation outranks nominal basis membership.
func (p *Resynth1Q) shouldSubstitute(c *circuit.Circuit, run []circuit.NodeID, names []string, seq euler.GateSequence, phys int) bool {
	hasCals := c.HasCalibrations()
	uncalibrated := !hasCals
	if hasCals {
		for _, id := range run {
			if !c.HasCalibrationFor(c.Node(id)) {
				uncalibrated = true
				break
			}
		}
	}

	basisSet := p.basisSetFor(phys)
	outOfBasis := false
	if basisSet != nil {
		for i, id := range run {
			if basisSet[names[i]] {
				continue
			}
			if !hasCals || !c.HasCalibrationFor(c.Node(id)) {
				outOfBasis = true
				break
			}
		}
	}
	if outOfBasis {
		return true
	}

	newScore := euler.SequenceError(seq, phys, p.errMap)
	oldScore := euler.RunError(names, phys, p.errMap)
	if uncalibrated && newScore.Less(oldScore) {
		return true
	}
	return newScore.Error <= p.atol && oldScore.Error > p.atol
}

// decomposersFor returns the eligible families for a physical qubit,
// memoized in the invocation cache. Unrestricted and explicit-basis modes
// are qubit independent and share one slot.
func (p *Resynth1Q) decomposersFor(phys int, cache map[int][]euler.Basis) []euler.Basis {
	key := phys
	if p.mode != deviceModel {
		key = -1
	}
	if bases, ok := cache[key]; ok {
		return bases
	}
	var bases []euler.Basis
	switch p.mode {
	case noRestriction:
		bases = euler.PossibleDecomposers(nil)
	case explicitBasis:
		bases = euler.PossibleDecomposers(p.basis)
	case deviceModel:
		bases = euler.PossibleDecomposers(p.basisSetFor(phys))
	}
	cache[key] = bases
	return bases
}

// basisSetFor returns the gate-name set constraining a physical qubit, or
// nil when the pass is unrestricted.
func (p *Resynth1Q) basisSetFor(phys int) map[string]bool {
	switch p.mode {
	case explicitBasis:
		return p.basis
	case deviceModel:
		names := p.target.OperationNamesForQubit(phys)
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		return set
	default:
		return nil
	}
}
