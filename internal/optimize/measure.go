package optimize

import (
	"log/slog"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/gate"
)

// RemoveFinalMeasurements strips measurements and barriers from the end of
// a circuit, then drops the classical bits left idle by the removal.
//
// A measure or barrier is final when every operation reachable forward from
// it, on any wire, is itself a measure or barrier. Measurements feeding
// later quantum or classical operations are kept.
type RemoveFinalMeasurements struct{}

// NewRemoveFinalMeasurements creates the pass.
func NewRemoveFinalMeasurements() *RemoveFinalMeasurements {
	return &RemoveFinalMeasurements{}
}

// Name implements Pass.
func (p *RemoveFinalMeasurements) Name() string { return "remove_final_measurements" }

// Run rewrites c in place.
func (p *RemoveFinalMeasurements) Run(c *circuit.Circuit) error {
	order := c.TopoNodes()

	// Walk backwards so a node's successors are classified before the node
	// itself.
	final := make(map[circuit.NodeID]bool)
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		name := n.Name()
		if name != gate.Measure && name != gate.Barrier {
			continue
		}
		isFinal := true
		for _, q := range n.Qubits {
			if s := c.Successor(n.ID(), circuit.QubitWireOf(q)); s != circuit.NoNode && !final[s] {
				isFinal = false
				break
			}
		}
		if isFinal {
			for _, cl := range n.Clbits {
				if s := c.Successor(n.ID(), circuit.ClbitWireOf(cl)); s != circuit.NoNode && !final[s] {
					isFinal = false
					break
				}
			}
		}
		if isFinal {
			final[n.ID()] = true
		}
	}
	if len(final) == 0 {
		return nil
	}

	removed := 0
	freed := make(map[int]bool)
	for _, n := range order {
		if final[n.ID()] {
			for _, cl := range n.Clbits {
				freed[cl] = true
			}
			c.Remove(n.ID())
			removed++
		}
	}
	// Only clbits freed by the removal are dropped; bits that were already
	// idle before the pass keep their indices.
	var idle []int
	for _, i := range c.IdleClbits() {
		if freed[i] {
			idle = append(idle, i)
		}
	}
	if len(idle) > 0 {
		if err := c.RemoveIdleClbits(idle); err != nil {
			return err
		}
	}
	slog.Debug("final measurements removed",
		"nodes", removed,
		"idle_clbits", len(idle))
	return nil
}
