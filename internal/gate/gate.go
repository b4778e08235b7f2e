// Package gate defines the operation vocabulary shared by the circuit graph
// and the synthesis passes: canonical operation names, parameter arity, and
// 2x2 matrices for the single-qubit gates.
//
// Names are lower-case OpenQASM style ("rz", "sx", "u3"). The set of gates
// with a known matrix must stay in lockstep with the Euler basis table in
// internal/euler: every gate a basis family can emit has a matrix here.
package gate

import (
	"math"
	"math/cmplx"
)

// Standard operation names understood by the passes.
const (
	ID   = "id"
	X    = "x"
	Y    = "y"
	Z    = "z"
	H    = "h"
	S    = "s"
	Sdg  = "sdg"
	T    = "t"
	Tdg  = "tdg"
	SX   = "sx"
	SXdg = "sxdg"
	RX   = "rx"
	RY   = "ry"
	RZ   = "rz"
	P    = "p"
	U1   = "u1"
	U2   = "u2"
	U3   = "u3"
	U    = "u"
	R    = "r"

	CX   = "cx"
	CZ   = "cz"
	Swap = "swap"

	Measure = "measure"
	Reset   = "reset"
	Barrier = "barrier"

	IfElse     = "if_else"
	ForLoop    = "for_loop"
	WhileLoop  = "while_loop"
	SwitchCase = "switch_case"
)

// IsControlFlow reports whether name denotes a structured control-flow
// operation carrying nested circuit blocks.
func IsControlFlow(name string) bool {
	switch name {
	case IfElse, ForLoop, WhileLoop, SwitchCase:
		return true
	}
	return false
}

// IsDirective reports whether name is a non-unitary directive rather than a
// gate (measurement, reset, barrier).
func IsDirective(name string) bool {
	switch name {
	case Measure, Reset, Barrier:
		return true
	}
	return false
}

// NumParams returns the parameter arity of a known operation name.
// The second return is false for names outside the vocabulary; such
// operations are carried through the graph opaquely and never resynthesized.
func NumParams(name string) (int, bool) {
	switch name {
	case ID, X, Y, Z, H, S, Sdg, T, Tdg, SX, SXdg, CX, CZ, Swap, Measure, Reset, Barrier:
		return 0, true
	case RX, RY, RZ, P, U1:
		return 1, true
	case U2, R:
		return 2, true
	case U3, U:
		return 3, true
	}
	return 0, false
}

// Matrix returns the 2x2 unitary for a single-qubit gate, or ok=false when
// the name has no matrix form (multi-qubit gates, directives, control flow,
// unknown operations). params must match the gate's arity; excess entries
// are ignored and missing entries yield ok=false.
func Matrix(name string, params []float64) (Mat2, bool) {
	n, known := NumParams(name)
	if !known || len(params) < n {
		return Mat2{}, false
	}
	switch name {
	case ID:
		return Mat2{{1, 0}, {0, 1}}, true
	case X:
		return Mat2{{0, 1}, {1, 0}}, true
	case Y:
		return Mat2{{0, -1i}, {1i, 0}}, true
	case Z:
		return Mat2{{1, 0}, {0, -1}}, true
	case H:
		s := complex(1/math.Sqrt2, 0)
		return Mat2{{s, s}, {s, -s}}, true
	case S:
		return Mat2{{1, 0}, {0, 1i}}, true
	case Sdg:
		return Mat2{{1, 0}, {0, -1i}}, true
	case T:
		return Mat2{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}, true
	case Tdg:
		return Mat2{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}, true
	case SX:
		return Mat2{
			{complex(0.5, 0.5), complex(0.5, -0.5)},
			{complex(0.5, -0.5), complex(0.5, 0.5)},
		}, true
	case SXdg:
		return Mat2{
			{complex(0.5, -0.5), complex(0.5, 0.5)},
			{complex(0.5, 0.5), complex(0.5, -0.5)},
		}, true
	case RX:
		c := complex(math.Cos(params[0]/2), 0)
		js := complex(0, -math.Sin(params[0]/2))
		return Mat2{{c, js}, {js, c}}, true
	case RY:
		c := complex(math.Cos(params[0]/2), 0)
		s := complex(math.Sin(params[0]/2), 0)
		return Mat2{{c, -s}, {s, c}}, true
	case RZ:
		e := cmplx.Exp(complex(0, params[0]/2))
		return Mat2{{cmplx.Conj(e), 0}, {0, e}}, true
	case P, U1:
		return Mat2{{1, 0}, {0, cmplx.Exp(complex(0, params[0]))}}, true
	case U2:
		return u3Matrix(math.Pi/2, params[0], params[1]), true
	case U3, U:
		return u3Matrix(params[0], params[1], params[2]), true
	case R:
		theta, phi := params[0], params[1]
		c := complex(math.Cos(theta/2), 0)
		s := math.Sin(theta / 2)
		return Mat2{
			{c, -1i * complex(s, 0) * cmplx.Exp(complex(0, -phi))},
			{-1i * complex(s, 0) * cmplx.Exp(complex(0, phi)), c},
		}, true
	}
	return Mat2{}, false
}

func u3Matrix(theta, phi, lam float64) Mat2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Mat2{
		{c, -s * cmplx.Exp(complex(0, lam))},
		{s * cmplx.Exp(complex(0, phi)), c * cmplx.Exp(complex(0, phi+lam))},
	}
}
