package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatefold/gatefold/internal/circuit"
)

const doubledXCircuit = `
qubits: 1
ops:
    - name: x
      qubits: [0]
    - name: x
      qubits: [0]
`

func runOptimizeCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewOptimizeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestOptimizeCollapsesToStdout(t *testing.T) {
	path := writeTempFile(t, "c.yaml", doubledXCircuit)

	buf, err := runOptimizeCmd(t, "text", path, "--basis", "rz,sx,x")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ops: []")
}

func TestOptimizeWritesOutputFile(t *testing.T) {
	path := writeTempFile(t, "c.yaml", doubledXCircuit)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	buf, err := runOptimizeCmd(t, "text", path, "--basis", "rz,sx,x", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	c, err := circuit.Decode(data)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestOptimizeJSONOutput(t *testing.T) {
	path := writeTempFile(t, "c.yaml", doubledXCircuit)

	buf, err := runOptimizeCmd(t, "json", path, "--basis", "rz,sx,x")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["nodes_before"])
	assert.Equal(t, float64(0), data["nodes_after"])
	assert.NotEmpty(t, data["run"])
}

func TestOptimizeWithTargetSpec(t *testing.T) {
	circuitPath := writeTempFile(t, "c.yaml", `
qubits: 1
ops:
    - name: h
      qubits: [0]
`)
	targetPath := writeTempFile(t, "device.cue", `
target: {
	num_qubits: 1
	instructions: [
		{gate: "rz", qubit: 0},
		{gate: "sx", qubit: 0, error: 2.5e-4},
	]
}
`)

	buf, err := runOptimizeCmd(t, "text", circuitPath, "--target", targetPath)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "name: rz")
	assert.Contains(t, out, "name: sx")
	assert.NotContains(t, out, "name: h")
}

func TestOptimizeRejectsConflictingRestrictions(t *testing.T) {
	path := writeTempFile(t, "c.yaml", doubledXCircuit)

	_, err := runOptimizeCmd(t, "text", path, "--basis", "x", "--target", "device.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOptimizeMissingCircuit(t *testing.T) {
	_, err := runOptimizeCmd(t, "text", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOptimizeKeepFinalMeasurements(t *testing.T) {
	path := writeTempFile(t, "c.yaml", `
qubits: 1
clbits: 1
ops:
    - name: measure
      qubits: [0]
      clbits: [0]
`)

	buf, err := runOptimizeCmd(t, "text", path, "--keep-final-measurements")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "name: measure")

	buf, err = runOptimizeCmd(t, "text", path)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "name: measure")
}

func TestSplitBasis(t *testing.T) {
	assert.Equal(t, []string{"rz", "sx", "x"}, splitBasis(" rz, sx ,,x "))
	assert.Empty(t, splitBasis(" , "))
	assert.Equal(t, []string{"ü"}, splitBasis("ü"))
}
