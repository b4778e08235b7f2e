package circuit

import "github.com/gatefold/gatefold/internal/gate"

// resynthesizable reports whether a node can participate in a single-qubit
// run: exactly one qubit, no classical bits, no nested blocks, and an
// operation with a known 2x2 matrix. Directives, conditioned operations and
// opaque gates break runs.
func (c *Circuit) resynthesizable(n *Node) bool {
	if len(n.Qubits) != 1 || len(n.Clbits) != 0 || len(n.Op.Blocks) != 0 {
		return false
	}
	_, ok := gate.Matrix(n.Op.Name, n.Op.Params)
	return ok
}

// Collect1QRuns returns every maximal run of consecutive resynthesizable
// single-qubit operations, one slice of node handles per run, in execution
// order within each run. Runs are reported qubit by qubit in ascending wire
// order, which fixes the processing order of the optimizer and with it the
// NodeID allocation of any rewrite.
func (c *Circuit) Collect1QRuns() [][]NodeID {
	var runs [][]NodeID
	for q := 0; q < c.numQubits; q++ {
		w := qubit(q)
		var run []NodeID
		flush := func() {
			if len(run) > 0 {
				runs = append(runs, run)
				run = nil
			}
		}
		for id := c.head[w]; id != NoNode; id = c.nodes[id].next[w] {
			if c.resynthesizable(c.nodes[id]) {
				run = append(run, id)
			} else {
				flush()
			}
		}
		flush()
	}
	return runs
}

// RunUnitary multiplies the matrices of a run's nodes in execution order and
// returns the accumulated 2x2 unitary. The second return is false when any
// node of the run has no matrix form, which cannot happen for runs produced
// by Collect1QRuns.
func (c *Circuit) RunUnitary(run []NodeID) (gate.Mat2, bool) {
	u := gate.Identity2()
	for _, id := range run {
		n := c.Node(id)
		if n == nil {
			return gate.Mat2{}, false
		}
		m, ok := gate.Matrix(n.Op.Name, n.Op.Params)
		if !ok {
			return gate.Mat2{}, false
		}
		u = m.Mul(u)
	}
	return u, true
}
