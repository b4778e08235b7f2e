// Package euler implements single-qubit Euler-angle synthesis: the closed
// catalog of decomposer basis families, and the numeric kernel that turns an
// accumulated 2x2 unitary into the best replacement gate sequence for a set
// of eligible families.
package euler

import "github.com/gatefold/gatefold/internal/gate"

// Basis identifies one Euler decomposer family. The set is closed; adding a
// family means extending the table below and the builder in synth.go in
// lockstep.
type Basis int

const (
	BasisU3 Basis = iota
	BasisU321
	BasisU
	BasisPSX
	BasisZSX
	BasisZSXX
	BasisU1X
	BasisRR
	BasisZYZ
	BasisZXZ
	BasisXYX
	BasisXZX

	numBases
)

var basisNames = [numBases]string{
	BasisU3:   "U3",
	BasisU321: "U321",
	BasisU:    "U",
	BasisPSX:  "PSX",
	BasisZSX:  "ZSX",
	BasisZSXX: "ZSXX",
	BasisU1X:  "U1X",
	BasisRR:   "RR",
	BasisZYZ:  "ZYZ",
	BasisZXZ:  "ZXZ",
	BasisXYX:  "XYX",
	BasisXZX:  "XZX",
}

func (b Basis) String() string {
	if b < 0 || b >= numBases {
		return "unknown"
	}
	return basisNames[b]
}

// requiredGates is the minimal gate set a family needs to be expressible.
var requiredGates = [numBases][]string{
	BasisU3:   {gate.U3},
	BasisU321: {gate.U1, gate.U2, gate.U3},
	BasisU:    {gate.U},
	BasisPSX:  {gate.P, gate.SX},
	BasisZSX:  {gate.RZ, gate.SX},
	BasisZSXX: {gate.RZ, gate.SX, gate.X},
	BasisU1X:  {gate.U1, gate.RX},
	BasisRR:   {gate.R},
	BasisZYZ:  {gate.RZ, gate.RY},
	BasisZXZ:  {gate.RZ, gate.RX},
	BasisXYX:  {gate.RX, gate.RY},
	BasisXZX:  {gate.RX, gate.RZ},
}

// RequiredGates returns the gate names a family needs.
func (b Basis) RequiredGates() []string {
	return append([]string(nil), requiredGates[b]...)
}

// AllBases returns every family in declaration order. Declaration order is
// the final tie-break when candidate sequences score identically.
func AllBases() []Basis {
	out := make([]Basis, 0, numBases)
	for b := Basis(0); b < numBases; b++ {
		out = append(out, b)
	}
	return out
}

// PossibleDecomposers returns the families usable over the given gate names,
// in declaration order. A nil set means no basis restriction is configured
// and every family is returned.
//
// Two fixed redundancy eliminations apply (a hard-coded rule set, not a
// general subsumption search):
//   - U3 is dropped when U321 is eligible: U321 covers the same output space
//     and emits u2/u1 where they are cheaper.
//   - ZSX is dropped when ZSXX is eligible: ZSXX additionally folds half-turn
//     rotations into a single x gate.
func PossibleDecomposers(available map[string]bool) []Basis {
	if available == nil {
		return AllBases()
	}
	var out []Basis
	eligible := [numBases]bool{}
	for b := Basis(0); b < numBases; b++ {
		ok := true
		for _, g := range requiredGates[b] {
			if !available[g] {
				ok = false
				break
			}
		}
		eligible[b] = ok
	}
	if eligible[BasisU3] && eligible[BasisU321] {
		eligible[BasisU3] = false
	}
	if eligible[BasisZSX] && eligible[BasisZSXX] {
		eligible[BasisZSX] = false
	}
	for b := Basis(0); b < numBases; b++ {
		if eligible[b] {
			out = append(out, b)
		}
	}
	return out
}
