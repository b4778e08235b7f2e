package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.ErrorAs(t, err, &le)
	return le.Code
}

func TestLoadTargetValid(t *testing.T) {
	path := writeTempFile(t, "device.cue", `
target: {
	num_qubits: 2
	instructions: [
		{gate: "rz", qubit: 0},
		{gate: "sx", qubit: 0, error: 2.5e-4},
		{gate: "sx", qubit: 1, error: 0.0},
	]
}
`)

	tgt, err := LoadTarget(path)
	require.NoError(t, err)

	n, known := tgt.NumQubits()
	assert.True(t, known)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"rz", "sx"}, tgt.OperationNames())

	e, ok := tgt.ErrorFor("sx", 0)
	assert.True(t, ok)
	assert.Equal(t, 2.5e-4, e)

	// Explicit zero error is data; a missing error field is not.
	e, ok = tgt.ErrorFor("sx", 1)
	assert.True(t, ok)
	assert.Zero(t, e)
	_, ok = tgt.ErrorFor("rz", 0)
	assert.False(t, ok)
}

func TestLoadTargetUnsized(t *testing.T) {
	path := writeTempFile(t, "device.cue", `
target: {
	num_qubits: -1
	instructions: [{gate: "rz", qubit: 11}]
}
`)

	tgt, err := LoadTarget(path)
	require.NoError(t, err)
	_, known := tgt.NumQubits()
	assert.False(t, known)
	assert.True(t, tgt.Supports("rz", 11))
}

func TestLoadTargetNotFound(t *testing.T) {
	_, err := LoadTarget(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Equal(t, ErrCodeNotFound, loadCode(t, err))
}

func TestLoadTargetBuildFailed(t *testing.T) {
	path := writeTempFile(t, "device.cue", `target: { num_qubits: `)
	_, err := LoadTarget(path)
	assert.Equal(t, ErrCodeBuildFailed, loadCode(t, err))
}

func TestLoadTargetMissingField(t *testing.T) {
	path := writeTempFile(t, "device.cue", `device: {num_qubits: 1}`)
	_, err := LoadTarget(path)
	assert.Equal(t, ErrCodeSchema, loadCode(t, err))
}

func TestLoadTargetSchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty gate name", `target: {num_qubits: 1, instructions: [{gate: "", qubit: 0}]}`},
		{"negative qubit", `target: {num_qubits: 1, instructions: [{gate: "rz", qubit: -3}]}`},
		{"qubit out of range", `target: {num_qubits: 2, instructions: [{gate: "rz", qubit: 2}]}`},
		{"error above one", `target: {num_qubits: 1, instructions: [{gate: "rz", qubit: 0, error: 1.5}]}`},
		{"error below zero", `target: {num_qubits: 1, instructions: [{gate: "rz", qubit: 0, error: -0.1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, "device.cue", tc.body)
			_, err := LoadTarget(path)
			assert.Equal(t, ErrCodeSchema, loadCode(t, err))
		})
	}
}

func TestLoadCircuitValid(t *testing.T) {
	path := writeTempFile(t, "c.yaml", `
qubits: 2
ops:
    - name: h
      qubits: [0]
    - name: cx
      qubits: [0, 1]
`)

	c, err := LoadCircuit(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumQubits())
	assert.Equal(t, 2, c.Len())
}

func TestLoadCircuitMalformed(t *testing.T) {
	path := writeTempFile(t, "c.yaml", "qubits: 1\nops:\n    - name: x\n      qubits: [4]\n")
	_, err := LoadCircuit(path)
	assert.Equal(t, ErrCodeBadCircuit, loadCode(t, err))

	path = writeTempFile(t, "junk.yaml", ":::not yaml:::")
	_, err = LoadCircuit(path)
	assert.Equal(t, ErrCodeBadCircuit, loadCode(t, err))
}

func TestLoadCircuitNotFound(t *testing.T) {
	_, err := LoadCircuit(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ErrCodeNotFound, loadCode(t, err))
}

func TestNormalizeGateName(t *testing.T) {
	// Combining diaeresis composes with the base letter under NFC.
	assert.Equal(t, "ü", NormalizeGateName("ü"))
	assert.Equal(t, "rz", NormalizeGateName("rz"))
}
