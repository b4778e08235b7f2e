package gate

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phaseExp(a float64) complex128 {
	return cmplx.Exp(complex(0, a))
}

func mat(t *testing.T, name string, params ...float64) Mat2 {
	t.Helper()
	m, ok := Matrix(name, params)
	require.True(t, ok, "Matrix(%q)", name)
	return m
}

func TestMatrixIdentities(t *testing.T) {
	h := mat(t, H)
	x := mat(t, X)
	sx := mat(t, SX)
	s := mat(t, S)
	tg := mat(t, T)

	assert.Less(t, h.Mul(h).Dist(Identity2()), 1e-12, "h^2 = I")
	assert.Less(t, sx.Mul(sx).Dist(x), 1e-12, "sx^2 = x")
	assert.Less(t, tg.Mul(tg).Dist(s), 1e-12, "t^2 = s")
	assert.Less(t, mat(t, Sdg).Mul(s).Dist(Identity2()), 1e-12, "sdg s = I")
	assert.Less(t, mat(t, SXdg).Mul(sx).Dist(Identity2()), 1e-12, "sxdg sx = I")

	// hzh = x
	z := mat(t, Z)
	assert.Less(t, h.Mul(z).Mul(h).Dist(x), 1e-12)
}

func TestMatrixRotationConventions(t *testing.T) {
	// u3 carries the full Euler form: u3(theta, phi, lam) equals
	// e^{i (phi+lam)/2} Rz(phi) Ry(theta) Rz(lam).
	theta, phi, lam := 1.1, 0.4, -0.9
	u3 := mat(t, U3, theta, phi, lam)
	kak := mat(t, RZ, phi).Mul(mat(t, RY, theta)).Mul(mat(t, RZ, lam))
	want := kak.Scale(phaseExp((phi + lam) / 2))
	assert.Less(t, u3.Dist(want), 1e-12)

	// u and u3 are the same matrix under either name.
	assert.Less(t, mat(t, U, theta, phi, lam).Dist(u3), 1e-12)

	// u2 is the quarter-turn special case, u1 and p the z-axis one.
	assert.Less(t, mat(t, U2, phi, lam).Dist(mat(t, U3, math.Pi/2, phi, lam)), 1e-12)
	assert.Less(t, mat(t, U1, lam).Dist(mat(t, P, lam)), 1e-12)

	// r(theta, 0) is a plain x rotation, r(theta, pi/2) a y rotation.
	assert.Less(t, mat(t, R, theta, 0).Dist(mat(t, RX, theta)), 1e-12)
	assert.Less(t, mat(t, R, theta, math.Pi/2).Dist(mat(t, RY, theta)), 1e-12)
}

func TestMatrixUnknownAndMalformed(t *testing.T) {
	_, ok := Matrix(CX, nil)
	assert.False(t, ok, "two-qubit gates have no 2x2 matrix")
	_, ok = Matrix(Measure, nil)
	assert.False(t, ok)
	_, ok = Matrix("nonsense", nil)
	assert.False(t, ok)
	_, ok = Matrix(RZ, nil)
	assert.False(t, ok, "missing params")
	// Excess params are tolerated and ignored.
	_, ok = Matrix(RZ, []float64{0.1, 0.2})
	assert.True(t, ok)
}

func TestNumParams(t *testing.T) {
	cases := map[string]int{
		X: 0, H: 0, SX: 0,
		RX: 1, RZ: 1, P: 1, U1: 1,
		U2: 2, R: 2,
		U3: 3, U: 3,
	}
	for name, want := range cases {
		n, ok := NumParams(name)
		require.True(t, ok, name)
		assert.Equal(t, want, n, name)
	}
	_, ok := NumParams("nope")
	assert.False(t, ok)
}

func TestEqualUpToPhase(t *testing.T) {
	z := mat(t, Z)
	rz := mat(t, RZ, math.Pi)
	assert.True(t, z.EqualUpToPhase(rz, 1e-12), "z = e^{i pi/2} rz(pi)")
	assert.False(t, z.EqualUpToPhase(mat(t, X), 1e-12))
}

func TestMod2Pi(t *testing.T) {
	assert.InDelta(t, 0, Mod2Pi(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi, Mod2Pi(math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi, Mod2Pi(-math.Pi), 1e-12)
	assert.InDelta(t, 0.5, Mod2Pi(0.5+4*math.Pi), 1e-12)
	assert.InDelta(t, -0.5, Mod2Pi(-0.5-2*math.Pi), 1e-12)
}
