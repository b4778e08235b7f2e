package gate

import (
	"math"
	"math/cmplx"
)

// Mat2 is a 2x2 complex matrix in row-major order.
type Mat2 [2][2]complex128

// Identity2 returns the 2x2 identity.
func Identity2() Mat2 {
	return Mat2{{1, 0}, {0, 1}}
}

// Mul returns m * n (n applied first when matrices act on column vectors).
func (m Mat2) Mul(n Mat2) Mat2 {
	var out Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j]
		}
	}
	return out
}

// Scale returns s * m.
func (m Mat2) Scale(s complex128) Mat2 {
	var out Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = s * m[i][j]
		}
	}
	return out
}

// Det returns the determinant.
func (m Mat2) Det() complex128 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Dist returns the max-entry distance between m and n. Used by tests and by
// equivalence checks; a tolerance of 1e-10 on this norm is the repo-wide
// convention for "the same unitary".
func (m Mat2) Dist(n Mat2) float64 {
	d := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if a := cmplx.Abs(m[i][j] - n[i][j]); a > d {
				d = a
			}
		}
	}
	return d
}

// EqualUpToPhase reports whether m and n represent the same unitary up to a
// global phase, within tol on the entry norm.
func (m Mat2) EqualUpToPhase(n Mat2, tol float64) bool {
	// Phase-align on the largest entry of n to avoid dividing by noise.
	bi, bj := 0, 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(n[i][j]) > cmplx.Abs(n[bi][bj]) {
				bi, bj = i, j
			}
		}
	}
	if cmplx.Abs(n[bi][bj]) == 0 {
		return m.Dist(n) <= tol
	}
	phase := m[bi][bj] / n[bi][bj]
	if a := cmplx.Abs(phase); a > 0 {
		phase /= complex(a, 0)
	}
	return m.Dist(n.Scale(phase)) <= tol
}

// Mod2Pi wraps an angle into [-pi, pi).
func Mod2Pi(a float64) float64 {
	w := math.Mod(a+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}
