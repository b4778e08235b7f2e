package circuit

import "sort"

// TopoNodes returns the live nodes in a deterministic topological order:
// a node is emitted once it is at the frontier of every wire it touches, and
// ties are broken by the smallest NodeID. Two circuits built by the same
// sequence of mutations iterate identically, which is what makes encoded
// output byte-for-byte reproducible.
func (c *Circuit) TopoNodes() []*Node {
	cursor := make(map[Wire]NodeID, len(c.head))
	for w, h := range c.head {
		cursor[w] = h
	}
	out := make([]*Node, 0, len(c.nodes))
	remaining := c.Len()
	for remaining > 0 {
		best := NoNode
		for _, id := range cursor {
			if id == NoNode {
				continue
			}
			n := c.nodes[id]
			ready := true
			for _, w := range n.wires() {
				if cursor[w] != id {
					ready = false
					break
				}
			}
			if ready && (best == NoNode || id < best) {
				best = id
			}
		}
		if best == NoNode {
			// Wire links are corrupt; this is unreachable for circuits built
			// through the public API.
			panic("circuit: no ready node in topological iteration")
		}
		n := c.nodes[best]
		out = append(out, n)
		for _, w := range n.wires() {
			cursor[w] = n.next[w]
		}
		remaining--
	}
	return out
}

// QuantumSuccessors returns the distinct nodes that directly follow id on its
// qubit wires, sorted by NodeID.
func (c *Circuit) QuantumSuccessors(id NodeID) []NodeID {
	n := c.Node(id)
	if n == nil {
		return nil
	}
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, q := range n.Qubits {
		s := n.next[qubit(q)]
		if s == NoNode {
			continue
		}
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// QuantumPredecessors returns the distinct nodes directly preceding id on its
// qubit wires, sorted by NodeID.
func (c *Circuit) QuantumPredecessors(id NodeID) []NodeID {
	n := c.Node(id)
	if n == nil {
		return nil
	}
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, q := range n.Qubits {
		p := n.prev[qubit(q)]
		if p == NoNode {
			continue
		}
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IdleClbits returns the classical bit indices with no operations, ascending.
func (c *Circuit) IdleClbits() []int {
	var out []int
	for i := 0; i < c.numClbits; i++ {
		if c.head[clbit(i)] == NoNode {
			out = append(out, i)
		}
	}
	return out
}

// RemoveIdleClbits deletes the given classical bits, which must all be idle,
// and compacts the remaining clbit indices downward. Node clbit references
// are rewritten in place.
func (c *Circuit) RemoveIdleClbits(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= c.numClbits {
			return errOutOfRangeClbit(i, c.numClbits)
		}
		if c.head[clbit(i)] != NoNode {
			return errClbitInUse(i)
		}
		drop[i] = struct{}{}
	}
	remap := make(map[int]int, c.numClbits-len(drop))
	next := 0
	for i := 0; i < c.numClbits; i++ {
		if _, gone := drop[i]; gone {
			continue
		}
		remap[i] = next
		next++
	}
	newHead := make(map[Wire]NodeID)
	newTail := make(map[Wire]NodeID)
	for w, id := range c.head {
		if w.Kind == QubitWire {
			newHead[w] = id
			continue
		}
		if ni, keep := remap[w.Index]; keep {
			newHead[clbit(ni)] = id
		}
	}
	for w, id := range c.tail {
		if w.Kind == QubitWire {
			newTail[w] = id
			continue
		}
		if ni, keep := remap[w.Index]; keep {
			newTail[clbit(ni)] = id
		}
	}
	for _, n := range c.nodes {
		if n == nil || len(n.Clbits) == 0 {
			continue
		}
		prev := make(map[Wire]NodeID, len(n.prev))
		nxt := make(map[Wire]NodeID, len(n.next))
		for w, id := range n.prev {
			if w.Kind == ClbitWire {
				w = clbit(remap[w.Index])
			}
			prev[w] = id
		}
		for w, id := range n.next {
			if w.Kind == ClbitWire {
				w = clbit(remap[w.Index])
			}
			nxt[w] = id
		}
		n.prev, n.next = prev, nxt
		for i, cl := range n.Clbits {
			n.Clbits[i] = remap[cl]
		}
	}
	c.head, c.tail = newHead, newTail
	c.numClbits -= len(drop)
	return nil
}

// Clone returns a deep copy of the circuit, preserving NodeIDs, wire links,
// global phase, counts, calibrations, and nested blocks.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{
		numQubits:    c.numQubits,
		numClbits:    c.numClbits,
		globalPhase:  c.globalPhase,
		nodes:        make([]*Node, len(c.nodes)),
		head:         make(map[Wire]NodeID, len(c.head)),
		tail:         make(map[Wire]NodeID, len(c.tail)),
		opCounts:     make(map[string]int, len(c.opCounts)),
		calibrations: make(map[string]map[int]struct{}, len(c.calibrations)),
	}
	for w, id := range c.head {
		out.head[w] = id
	}
	for w, id := range c.tail {
		out.tail[w] = id
	}
	for k, v := range c.opCounts {
		out.opCounts[k] = v
	}
	for name, qs := range c.calibrations {
		cp := make(map[int]struct{}, len(qs))
		for q := range qs {
			cp[q] = struct{}{}
		}
		out.calibrations[name] = cp
	}
	for i, n := range c.nodes {
		if n == nil {
			continue
		}
		var blocks []*Circuit
		if len(n.Op.Blocks) > 0 {
			blocks = make([]*Circuit, len(n.Op.Blocks))
			for bi, b := range n.Op.Blocks {
				blocks[bi] = b.Clone()
			}
		}
		cp := &Node{
			id: n.id,
			Op: Operation{
				Name:   n.Op.Name,
				Params: append([]float64(nil), n.Op.Params...),
				Blocks: blocks,
			},
			Qubits: append([]int(nil), n.Qubits...),
			Clbits: append([]int(nil), n.Clbits...),
			prev:   make(map[Wire]NodeID, len(n.prev)),
			next:   make(map[Wire]NodeID, len(n.next)),
		}
		for w, id := range n.prev {
			cp.prev[w] = id
		}
		for w, id := range n.next {
			cp.next[w] = id
		}
		out.nodes[i] = cp
	}
	return out
}
