// Package circuit implements the quantum-circuit intermediate representation
// the transpiler passes operate on.
//
// ARCHITECTURE:
//
// Arena of nodes, explicit wires:
// Operation nodes live in an append-only arena and are addressed by stable
// integer NodeIDs. Edges are not stored as a general adjacency structure;
// instead every node carries, per wire it touches (qubit or classical bit),
// the previous and next node on that wire. This matches the delete / insert /
// relink pattern the rewriting passes need: splicing a node in or out of a
// wire is O(wires of the node) and never invalidates other handles.
//
// Mutation model:
// Single writer. The circuit is not safe for concurrent mutation; passes run
// one at a time per circuit. Reads of distinct circuits may proceed in
// parallel.
//
// INVARIANTS:
//   - NodeIDs are never reused; a removed node's arena slot stays nil.
//   - For every wire, following next pointers from the wire head visits the
//     nodes of that wire in execution order and ends at the wire tail.
//   - opCounts matches the live node population at all times.
package circuit

import (
	"fmt"
	"sort"

	"github.com/gatefold/gatefold/internal/gate"
)

// NodeID is a stable handle into the circuit's node arena.
type NodeID int

// NoNode marks the absence of a node (wire endpoints, removed references).
const NoNode NodeID = -1

// WireKind distinguishes quantum wires from classical wires.
type WireKind int

const (
	QubitWire WireKind = iota
	ClbitWire
)

// Wire identifies one qubit or classical bit of the circuit.
type Wire struct {
	Kind  WireKind
	Index int
}

func qubit(i int) Wire { return Wire{QubitWire, i} }
func clbit(i int) Wire { return Wire{ClbitWire, i} }

// Operation is the payload of a node: a name, numeric parameters, and, for
// structured control flow, the nested circuit blocks.
type Operation struct {
	Name   string
	Params []float64
	Blocks []*Circuit
}

// Node is one operation in the graph. Nodes are owned by the circuit; passes
// observe them and request mutation through the circuit's methods.
type Node struct {
	id     NodeID
	Op     Operation
	Qubits []int
	Clbits []int
	prev   map[Wire]NodeID
	next   map[Wire]NodeID
}

// ID returns the node's stable handle.
func (n *Node) ID() NodeID { return n.id }

// Name returns the operation name.
func (n *Node) Name() string { return n.Op.Name }

// wires returns the wires the node touches, qubits first, in argument order.
func (n *Node) wires() []Wire {
	ws := make([]Wire, 0, len(n.Qubits)+len(n.Clbits))
	for _, q := range n.Qubits {
		ws = append(ws, qubit(q))
	}
	for _, c := range n.Clbits {
		ws = append(ws, clbit(c))
	}
	return ws
}

// Circuit is the acyclic graph of operations over a fixed set of qubits and
// classical bits.
type Circuit struct {
	numQubits int
	numClbits int

	nodes       []*Node
	head        map[Wire]NodeID
	tail        map[Wire]NodeID
	globalPhase float64
	opCounts    map[string]int

	// calibrations maps operation name -> qubit indices that carry a custom
	// calibration for that operation.
	calibrations map[string]map[int]struct{}
}

// New creates an empty circuit over numQubits qubits and numClbits classical
// bits.
func New(numQubits, numClbits int) *Circuit {
	c := &Circuit{
		numQubits:    numQubits,
		numClbits:    numClbits,
		head:         make(map[Wire]NodeID),
		tail:         make(map[Wire]NodeID),
		opCounts:     make(map[string]int),
		calibrations: make(map[string]map[int]struct{}),
	}
	for i := 0; i < numQubits; i++ {
		c.head[qubit(i)] = NoNode
		c.tail[qubit(i)] = NoNode
	}
	for i := 0; i < numClbits; i++ {
		c.head[clbit(i)] = NoNode
		c.tail[clbit(i)] = NoNode
	}
	return c
}

// NumQubits returns the qubit count.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumClbits returns the classical bit count.
func (c *Circuit) NumClbits() int { return c.numClbits }

// Len returns the number of live operation nodes.
func (c *Circuit) Len() int {
	n := 0
	for _, nd := range c.nodes {
		if nd != nil {
			n++
		}
	}
	return n
}

// Node returns the node for a handle, or nil if the handle is out of range
// or the node was removed.
func (c *Circuit) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil
	}
	return c.nodes[id]
}

// GlobalPhase returns the accumulated global phase, wrapped into [-pi, pi).
func (c *Circuit) GlobalPhase() float64 { return c.globalPhase }

// AddGlobalPhase accumulates delta into the circuit's global phase.
func (c *Circuit) AddGlobalPhase(delta float64) {
	c.globalPhase = gate.Mod2Pi(c.globalPhase + delta)
}

// OpCounts returns a copy of the per-operation-name node counts.
func (c *Circuit) OpCounts() map[string]int {
	out := make(map[string]int, len(c.opCounts))
	for k, v := range c.opCounts {
		out[k] = v
	}
	return out
}

// CountOps returns the live node count for one operation name.
func (c *Circuit) CountOps(name string) int { return c.opCounts[name] }

// AddCalibration records a custom calibration for (name, qubit). Nodes whose
// operation matches a recorded calibration are exempt from resynthesis
// forcing.
func (c *Circuit) AddCalibration(name string, qubitIndex int) {
	qs, ok := c.calibrations[name]
	if !ok {
		qs = make(map[int]struct{})
		c.calibrations[name] = qs
	}
	qs[qubitIndex] = struct{}{}
}

// HasCalibrations reports whether any custom calibration is attached to the
// circuit.
func (c *Circuit) HasCalibrations() bool { return len(c.calibrations) > 0 }

// HasCalibrationFor reports whether node's exact operation, on its first
// qubit, carries a custom calibration.
func (c *Circuit) HasCalibrationFor(n *Node) bool {
	qs, ok := c.calibrations[n.Op.Name]
	if !ok || len(n.Qubits) == 0 {
		return false
	}
	_, ok = qs[n.Qubits[0]]
	return ok
}

// CalibratedNames returns the sorted operation names with at least one
// calibration entry.
func (c *Circuit) CalibratedNames() []string {
	names := make([]string, 0, len(c.calibrations))
	for name := range c.calibrations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calibrations returns the calibration table as name -> sorted qubit list.
// Used by the encoder; the result is a copy.
func (c *Circuit) Calibrations() map[string][]int {
	out := make(map[string][]int, len(c.calibrations))
	for name, qs := range c.calibrations {
		idx := make([]int, 0, len(qs))
		for q := range qs {
			idx = append(idx, q)
		}
		sort.Ints(idx)
		out[name] = idx
	}
	return out
}

func (c *Circuit) checkArgs(qubits, clbits []int) error {
	if len(qubits) == 0 && len(clbits) == 0 {
		return fmt.Errorf("operation touches no wires")
	}
	seen := make(map[Wire]struct{}, len(qubits)+len(clbits))
	for _, q := range qubits {
		if q < 0 || q >= c.numQubits {
			return fmt.Errorf("qubit %d out of range [0, %d)", q, c.numQubits)
		}
		if _, dup := seen[qubit(q)]; dup {
			return fmt.Errorf("duplicate qubit %d", q)
		}
		seen[qubit(q)] = struct{}{}
	}
	for _, cl := range clbits {
		if cl < 0 || cl >= c.numClbits {
			return fmt.Errorf("clbit %d out of range [0, %d)", cl, c.numClbits)
		}
		if _, dup := seen[clbit(cl)]; dup {
			return fmt.Errorf("duplicate clbit %d", cl)
		}
		seen[clbit(cl)] = struct{}{}
	}
	return nil
}

func (c *Circuit) newNode(op Operation, qubits, clbits []int) *Node {
	n := &Node{
		id:     NodeID(len(c.nodes)),
		Op:     op,
		Qubits: append([]int(nil), qubits...),
		Clbits: append([]int(nil), clbits...),
		prev:   make(map[Wire]NodeID),
		next:   make(map[Wire]NodeID),
	}
	c.nodes = append(c.nodes, n)
	c.opCounts[op.Name]++
	return n
}

// Append adds an operation at the end of its wires and returns its handle.
func (c *Circuit) Append(op Operation, qubits, clbits []int) (NodeID, error) {
	if err := c.checkArgs(qubits, clbits); err != nil {
		return NoNode, fmt.Errorf("append %s: %w", op.Name, err)
	}
	n := c.newNode(op, qubits, clbits)
	for _, w := range n.wires() {
		t := c.tail[w]
		n.prev[w] = t
		n.next[w] = NoNode
		if t == NoNode {
			c.head[w] = n.id
		} else {
			c.nodes[t].next[w] = n.id
		}
		c.tail[w] = n.id
	}
	return n.id, nil
}

// InsertBefore splices a new operation immediately before the node `before`
// on each wire the new operation touches. Every wire of the new operation
// must also be a wire of `before`; this is the primitive the rewriter uses
// to place a synthesized sequence ahead of a run while preserving all other
// edges of that position.
func (c *Circuit) InsertBefore(before NodeID, op Operation, qubits, clbits []int) (NodeID, error) {
	b := c.Node(before)
	if b == nil {
		return NoNode, fmt.Errorf("insert %s: node %d not in circuit", op.Name, before)
	}
	if err := c.checkArgs(qubits, clbits); err != nil {
		return NoNode, fmt.Errorf("insert %s: %w", op.Name, err)
	}
	bw := make(map[Wire]struct{})
	for _, w := range b.wires() {
		bw[w] = struct{}{}
	}
	n := c.newNode(op, qubits, clbits)
	for _, w := range n.wires() {
		if _, ok := bw[w]; !ok {
			// The arena slot was already allocated; undo the count so the
			// invariant holds even on the error path.
			c.opCounts[op.Name]--
			c.nodes[n.id] = nil
			return NoNode, fmt.Errorf("insert %s: wire %v not shared with node %d", op.Name, w, before)
		}
		p := b.prev[w]
		n.prev[w] = p
		n.next[w] = before
		b.prev[w] = n.id
		if p == NoNode {
			c.head[w] = n.id
		} else {
			c.nodes[p].next[w] = n.id
		}
	}
	return n.id, nil
}

// Remove deletes a node, relinking its predecessors and successors on every
// wire. Removing an already-removed node panics: the rewriting passes treat
// that as a programming-contract violation, not a recoverable condition.
func (c *Circuit) Remove(id NodeID) {
	n := c.Node(id)
	if n == nil {
		panic(fmt.Sprintf("circuit: remove of node %d which is not in the circuit", id))
	}
	for _, w := range n.wires() {
		p, s := n.prev[w], n.next[w]
		if p == NoNode {
			c.head[w] = s
		} else {
			c.nodes[p].next[w] = s
		}
		if s == NoNode {
			c.tail[w] = p
		} else {
			c.nodes[s].prev[w] = p
		}
	}
	c.opCounts[n.Op.Name]--
	if c.opCounts[n.Op.Name] == 0 {
		delete(c.opCounts, n.Op.Name)
	}
	c.nodes[id] = nil
}

// Successor returns the next node after id on wire w, or NoNode.
func (c *Circuit) Successor(id NodeID, w Wire) NodeID {
	n := c.Node(id)
	if n == nil {
		return NoNode
	}
	s, ok := n.next[w]
	if !ok {
		return NoNode
	}
	return s
}

// Predecessor returns the node before id on wire w, or NoNode.
func (c *Circuit) Predecessor(id NodeID, w Wire) NodeID {
	n := c.Node(id)
	if n == nil {
		return NoNode
	}
	p, ok := n.prev[w]
	if !ok {
		return NoNode
	}
	return p
}

// WireHead returns the first node on wire w, or NoNode for an idle wire.
func (c *Circuit) WireHead(w Wire) NodeID { return c.head[w] }

// WireTail returns the last node on wire w, or NoNode for an idle wire.
func (c *Circuit) WireTail(w Wire) NodeID { return c.tail[w] }

// QubitWireOf returns the wire for qubit index q.
func QubitWireOf(q int) Wire { return qubit(q) }

// ClbitWireOf returns the wire for classical bit index i.
func ClbitWireOf(i int) Wire { return clbit(i) }
