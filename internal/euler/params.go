package euler

import (
	"math"
	"math/cmplx"

	"github.com/gatefold/gatefold/internal/gate"
)

// paramsZYZ extracts (theta, phi, lam, phase) such that
//
//	U = e^{i phase} * Rz(phi) * Ry(theta) * Rz(lam)
//
// with theta in [0, pi]. The input must have a determinant of unit modulus;
// callers screen singular matrices before reaching here.
func paramsZYZ(u gate.Mat2) (theta, phi, lam, phase float64) {
	det := u.Det()
	coeff := cmplx.Sqrt(det)
	phase = cmplx.Phase(coeff)
	inv := 1 / coeff
	su00 := u[0][0] * inv
	su10 := u[1][0] * inv
	su11 := u[1][1] * inv
	theta = 2 * math.Atan2(cmplx.Abs(su10), cmplx.Abs(su00))
	ang11 := cmplx.Phase(su11)
	ang10 := cmplx.Phase(su10)
	phi = ang11 + ang10
	lam = ang11 - ang10
	return theta, phi, lam, phase
}

var hadamard = gate.Mat2{
	{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
	{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
}

// paramsXYX extracts angles for the XYX frame by conjugating with Hadamard,
// which swaps the X and Z axes: U = e^{i phase} Rx(phi) Ry(theta) Rx(lam).
func paramsXYX(u gate.Mat2) (theta, phi, lam, phase float64) {
	t, p, l, ph := paramsZYZ(hadamard.Mul(u).Mul(hadamard))
	return -t, p, l, ph
}
