// Package target models the compilation device: which operations each qubit
// supports and their measured error rates. It is the read-only collaborator
// the optimization passes consult; nothing in this package depends on a
// particular circuit.
package target

import "sort"

// InstructionProps holds the measured properties of one (operation, qubit)
// pair. Error is a probability in [0, 1]; HasError distinguishes "measured
// as zero" from "no data".
type InstructionProps struct {
	Error    float64
	HasError bool
}

// Target describes a device. A Target with an unknown qubit count (a
// degenerate or simulator target) supports any operation anywhere and
// carries no error data.
type Target struct {
	numQubits int // -1 when unknown
	// ops maps operation name -> qubit index -> props.
	ops map[string]map[int]InstructionProps
}

// New creates a Target with the given qubit count.
func New(numQubits int) *Target {
	return &Target{
		numQubits: numQubits,
		ops:       make(map[string]map[int]InstructionProps),
	}
}

// NewUnsized creates a degenerate Target whose qubit count is unknown.
func NewUnsized() *Target {
	return &Target{numQubits: -1, ops: make(map[string]map[int]InstructionProps)}
}

// NumQubits returns the qubit count; ok is false for a degenerate target.
func (t *Target) NumQubits() (int, bool) {
	if t.numQubits < 0 {
		return 0, false
	}
	return t.numQubits, true
}

// AddInstruction registers support for an operation on one qubit without
// error data.
func (t *Target) AddInstruction(name string, qubit int) {
	t.add(name, qubit, InstructionProps{})
}

// AddInstructionError registers support for an operation on one qubit with a
// measured error rate.
func (t *Target) AddInstructionError(name string, qubit int, errRate float64) {
	t.add(name, qubit, InstructionProps{Error: errRate, HasError: true})
}

func (t *Target) add(name string, qubit int, props InstructionProps) {
	qs, ok := t.ops[name]
	if !ok {
		qs = make(map[int]InstructionProps)
		t.ops[name] = qs
	}
	qs[qubit] = props
}

// OperationNamesForQubit returns the sorted operation names supported at one
// qubit. For a degenerate target the result is empty.
func (t *Target) OperationNamesForQubit(qubit int) []string {
	var names []string
	for name, qs := range t.ops {
		if _, ok := qs[qubit]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// OperationNames returns all operation names the target mentions, sorted.
func (t *Target) OperationNames() []string {
	names := make([]string, 0, len(t.ops))
	for name := range t.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InstructionCount returns the number of (name, qubit) pairs recorded.
func (t *Target) InstructionCount() int {
	n := 0
	for _, qs := range t.ops {
		n += len(qs)
	}
	return n
}

// ErrorFor returns the measured error for (name, qubit); ok is false when the
// target has no error figure for that exact pair.
func (t *Target) ErrorFor(name string, qubit int) (float64, bool) {
	qs, ok := t.ops[name]
	if !ok {
		return 0, false
	}
	p, ok := qs[qubit]
	if !ok || !p.HasError {
		return 0, false
	}
	return p.Error, true
}

// Supports reports whether the target supports (name, qubit).
func (t *Target) Supports(name string, qubit int) bool {
	qs, ok := t.ops[name]
	if !ok {
		return false
	}
	_, ok = qs[qubit]
	return ok
}
