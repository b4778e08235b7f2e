package target

// ErrorMap is the per-qubit operation -> error-probability table the
// synthesis passes score candidates against. It is built once per pass
// construction from a Target and is immutable afterward, so it may be shared
// read-only across parallel invocations on independent circuits.
type ErrorMap struct {
	qubits []map[string]float64
}

// BuildErrorMap derives the error table from a target. Only data explicitly
// present for a qubit contributes; no qubit's entries default another's.
// A nil target, or one whose qubit count is unknown, yields a nil map, which
// downstream treats as "all errors equal/zero": error-driven substitution is
// disabled, basis-driven substitution is not.
func BuildErrorMap(t *Target) *ErrorMap {
	if t == nil {
		return nil
	}
	n, ok := t.NumQubits()
	if !ok {
		return nil
	}
	em := &ErrorMap{qubits: make([]map[string]float64, n)}
	for q := 0; q < n; q++ {
		table := make(map[string]float64)
		for _, name := range t.OperationNamesForQubit(q) {
			if e, ok := t.ErrorFor(name, q); ok {
				table[name] = e
			}
		}
		em.qubits[q] = table
	}
	return em
}

// GateError returns the error probability for (name, qubit). Absent entries,
// out-of-range qubits, and a nil receiver all mean "no error data" and
// report zero.
func (em *ErrorMap) GateError(name string, qubit int) float64 {
	if em == nil || qubit < 0 || qubit >= len(em.qubits) {
		return 0
	}
	return em.qubits[qubit][name]
}

// NumQubits returns the number of qubits the map covers; zero for nil.
func (em *ErrorMap) NumQubits() int {
	if em == nil {
		return 0
	}
	return len(em.qubits)
}
