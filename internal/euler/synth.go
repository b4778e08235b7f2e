package euler

import (
	"math"
	"math/cmplx"

	"github.com/gatefold/gatefold/internal/gate"
	"github.com/gatefold/gatefold/internal/target"
)

// seqBuilder accumulates gates in execution order plus the phase
// corrections each emission step owes the enclosing circuit.
type seqBuilder struct {
	seq GateSequence
}

func (b *seqBuilder) gate(name string, params ...float64) {
	b.seq.Gates = append(b.seq.Gates, SeqGate{Name: name, Params: params})
}

func (b *seqBuilder) phase(d float64) {
	b.seq.GlobalPhase = gate.Mod2Pi(b.seq.GlobalPhase + d)
}

// circuitKAK emits U = e^{i phase} K(phi) A(theta) K(lam) as at most three
// rotation gates, K first. With simplify set, rotations that vanish within
// atol are folded away; K and A are axis rotations (rz, ry, rx) whose angle
// wraps cost a half-angle phase correction.
func circuitKAK(theta, phi, lam, phase float64, kGate, aGate string, simplify bool, atol float64) GateSequence {
	if !simplify {
		atol = -1
	}
	b := &seqBuilder{}
	b.phase(phase - (phi+lam)/2)
	wrapped := gate.Mod2Pi(theta)
	b.phase((theta - wrapped) / 2)
	theta = wrapped

	if math.Abs(theta) < atol {
		tot := gate.Mod2Pi(phi + lam)
		if math.Abs(tot) > atol {
			b.gate(kGate, tot)
			b.phase(tot / 2)
		}
		return b.seq
	}
	if math.Abs(math.Abs(theta)-math.Pi) < atol {
		if theta < 0 {
			b.phase(math.Pi)
			theta = math.Pi
		}
		b.phase(phi)
		lam, phi = lam-phi, 0
	}
	l := gate.Mod2Pi(lam)
	if math.Abs(l) > atol {
		b.gate(kGate, l)
		b.phase(l / 2)
	}
	b.gate(aGate, theta)
	p := gate.Mod2Pi(phi)
	if math.Abs(p) > atol {
		b.gate(kGate, p)
		b.phase(p / 2)
	}
	return b.seq
}

// circuitU3Like emits a single three-parameter gate (u3 or u). A fully
// vanishing rotation simplifies to nothing.
func circuitU3Like(name string, theta, phi, lam, phase float64, simplify bool, atol float64) GateSequence {
	b := &seqBuilder{}
	b.phase(phase - (phi+lam)/2)
	phi = gate.Mod2Pi(phi)
	lam = gate.Mod2Pi(lam)
	if simplify && math.Abs(theta) < atol && math.Abs(phi) < atol && math.Abs(lam) < atol {
		return b.seq
	}
	b.gate(name, theta, phi, lam)
	return b.seq
}

// circuitU321 emits the cheapest of u1, u2, u3 for the rotation. u1 and u2
// are exactly 2 pi periodic in their phase parameters, so wrapping costs no
// phase correction beyond the shared initial offset.
func circuitU321(theta, phi, lam, phase float64, simplify bool, atol float64) GateSequence {
	if !simplify {
		atol = -1
	}
	b := &seqBuilder{}
	b.phase(phase - (phi+lam)/2)
	switch {
	case math.Abs(theta) < atol:
		tot := gate.Mod2Pi(phi + lam)
		if math.Abs(tot) > atol {
			b.gate(gate.U1, tot)
		}
	case math.Abs(theta-math.Pi/2) < atol:
		b.gate(gate.U2, gate.Mod2Pi(phi), gate.Mod2Pi(lam))
	default:
		b.gate(gate.U3, theta, gate.Mod2Pi(phi), gate.Mod2Pi(lam))
	}
	return b.seq
}

// psxMode selects the concrete gates a PSX-family builder emits.
type psxMode struct {
	zGate  string // p, u1 or rz
	zIsRot bool   // z gate is an rz rotation rather than a phase gate
	xGate  string // sx or rx
	xPhase float64
	allowX bool // fold half turns into a plain x gate
}

var psxModes = map[Basis]psxMode{
	BasisPSX:  {zGate: gate.P, xGate: gate.SX, xPhase: -math.Pi / 4},
	BasisZSX:  {zGate: gate.RZ, zIsRot: true, xGate: gate.SX, xPhase: -math.Pi / 4},
	BasisZSXX: {zGate: gate.RZ, zIsRot: true, xGate: gate.SX, xPhase: -math.Pi / 4, allowX: true},
	BasisU1X:  {zGate: gate.U1, xGate: gate.RX},
}

// circuitPSXLike emits U as interleaved z-axis and sqrt(X)-style gates using
//
//	U = e^{i(phase+pi)} Rz(phi+pi) Rx(pi/2) Rz(theta+pi) Rx(pi/2) Rz(lam)
//
// with early exits for theta near 0, pi/2 and (when an x gate is allowed)
// pi. Emission is in application order, rightmost factor first.
func circuitPSXLike(theta, phi, lam, phase float64, m psxMode, simplify bool, atol float64) GateSequence {
	if !simplify {
		atol = -1
	}
	b := &seqBuilder{}

	// emitZ realizes one Rz(x) factor as the mode's z gate. Wrapping an rz
	// by 2 pi k costs pi k of phase; a phase gate p(x) = e^{ix/2} Rz(x)
	// additionally supplies half its own angle.
	emitZ := func(x float64) {
		w := gate.Mod2Pi(x)
		keep := math.Abs(w) > atol
		if keep {
			b.gate(m.zGate, w)
		}
		if m.zIsRot || !keep {
			b.phase((x - w) / 2)
		} else {
			b.phase(x/2 - w)
		}
	}
	emitX := func() {
		if m.xGate == gate.RX {
			b.gate(gate.RX, math.Pi/2)
		} else {
			b.gate(m.xGate)
			b.phase(m.xPhase)
		}
	}

	switch {
	case math.Abs(gate.Mod2Pi(theta)) < atol:
		b.phase(phase)
		emitZ(phi + lam)
	case math.Abs(theta-math.Pi/2) < atol:
		b.phase(phase)
		emitZ(lam - math.Pi/2)
		emitX()
		emitZ(phi + math.Pi/2)
	case m.allowX && math.Abs(theta-math.Pi) < atol:
		b.phase(phase - math.Pi/2)
		emitZ(lam - math.Pi/2)
		b.gate(gate.X)
		emitZ(phi + math.Pi/2)
	default:
		b.phase(phase + math.Pi)
		emitZ(lam)
		emitX()
		emitZ(theta + math.Pi)
		emitX()
		emitZ(phi + math.Pi)
	}
	return b.seq
}

// circuitRR emits U as at most two r gates. The unitary is split off its
// determinant phase and read as a quaternion w - i(x X + y Y + z Z); a
// scalar needs nothing, an equatorial axis needs one r gate, and anything
// else composes an equatorial rotation with a half turn. The two-gate
// construction is exact: R(pi, alpha) R(mu, alpha-delta) reproduces the
// quaternion components without residual phase.
func circuitRR(u gate.Mat2, simplify bool, atol float64) GateSequence {
	if !simplify {
		atol = -1
	}
	coeff := cmplx.Sqrt(u.Det())
	phase := cmplx.Phase(coeff)
	inv := 1 / coeff
	su00 := u[0][0] * inv
	su01 := u[0][1] * inv
	su10 := u[1][0] * inv
	su11 := u[1][1] * inv

	w := (real(su00) + real(su11)) / 2
	x := -(imag(su01) + imag(su10)) / 2
	y := (real(su10) - real(su01)) / 2
	z := (imag(su11) - imag(su00)) / 2
	planar := math.Hypot(x, y)
	axial := math.Hypot(w, z)

	b := &seqBuilder{}
	switch {
	case planar < atol && math.Abs(z) < atol:
		// scalar, up to sign
		if w < 0 {
			phase += math.Pi
		}
		b.phase(phase)
	case math.Abs(z) < atol:
		// equatorial axis: a single r gate
		b.phase(phase)
		b.gate(gate.R, 2*math.Atan2(planar, w), math.Atan2(y, x))
	default:
		alpha := math.Atan2(y, x)
		delta := math.Atan2(-z, -w)
		mu := 2 * math.Atan2(axial, planar)
		b.phase(phase)
		b.gate(gate.R, mu, alpha-delta)
		b.gate(gate.R, math.Pi, alpha)
	}
	return b.seq
}

// buildSequence synthesizes u in the given family.
func buildSequence(basis Basis, u gate.Mat2, simplify bool, atol float64) GateSequence {
	var seq GateSequence
	switch basis {
	case BasisZYZ:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitKAK(t, p, l, ph, gate.RZ, gate.RY, simplify, atol)
	case BasisZXZ:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitKAK(t, p+math.Pi/2, l-math.Pi/2, ph, gate.RZ, gate.RX, simplify, atol)
	case BasisXYX:
		t, p, l, ph := paramsXYX(u)
		seq = circuitKAK(t, p, l, ph, gate.RX, gate.RY, simplify, atol)
	case BasisXZX:
		t, p, l, ph := paramsXYX(u)
		seq = circuitKAK(-t, p+math.Pi/2, l-math.Pi/2, ph, gate.RX, gate.RZ, simplify, atol)
	case BasisU3:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitU3Like(gate.U3, t, p, l, ph, simplify, atol)
	case BasisU:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitU3Like(gate.U, t, p, l, ph, simplify, atol)
	case BasisU321:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitU321(t, p, l, ph, simplify, atol)
	case BasisPSX, BasisZSX, BasisZSXX, BasisU1X:
		t, p, l, ph := paramsZYZ(u)
		seq = circuitPSXLike(t, p, l, ph, psxModes[basis], simplify, atol)
	case BasisRR:
		seq = circuitRR(u, simplify, atol)
	}
	seq.Basis = basis
	return seq
}

// Synthesize builds u in each eligible family and returns the best-scoring
// sequence, or nil when no family is eligible or u is numerically singular.
// Ties on score resolve to the earlier family in declaration order; bases
// must already be in declaration order, as PossibleDecomposers returns them.
func Synthesize(u gate.Mat2, bases []Basis, qubit int, em *target.ErrorMap, atol float64) *GateSequence {
	if len(bases) == 0 {
		return nil
	}
	if d := cmplx.Abs(u.Det()); math.IsNaN(d) || math.Abs(d-1) > 1e-8 {
		return nil
	}
	var best *GateSequence
	var bestScore Score
	for _, basis := range bases {
		seq := buildSequence(basis, u, true, atol)
		score := SequenceError(seq, qubit, em)
		if best == nil || score.Less(bestScore) {
			s := seq
			best = &s
			bestScore = score
		}
	}
	return best
}
