package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsCircuit = `
qubits: 2
clbits: 1
global_phase: 0.5
calibrations:
    - gate: sx
      qubit: 1
ops:
    - name: h
      qubits: [0]
    - name: cx
      qubits: [0, 1]
    - name: measure
      qubits: [1]
      clbits: [0]
`

func runStatsCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewStatsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestStatsText(t *testing.T) {
	path := writeTempFile(t, "c.yaml", statsCircuit)

	buf, err := runStatsCmd(t, "text", path)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "qubits: 2")
	assert.Contains(t, out, "clbits: 1")
	assert.Contains(t, out, "ops: 3")
	assert.Contains(t, out, "global_phase: 0.5")
	assert.Contains(t, out, "cx: 1")
}

func TestStatsJSON(t *testing.T) {
	path := writeTempFile(t, "c.yaml", statsCircuit)

	buf, err := runStatsCmd(t, "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["qubits"])
	assert.Equal(t, float64(3), data["ops"])

	counts, ok := data["op_counts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), counts["h"])

	cals, ok := data["calibrations"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, cals, "sx")
}

func TestStatsMissingFile(t *testing.T) {
	_, err := runStatsCmd(t, "text", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatStatsSortsOps(t *testing.T) {
	out := formatStats(StatsResult{
		Qubits:   1,
		Ops:      3,
		OpCounts: map[string]int{"x": 1, "h": 2},
	})
	assert.Less(t, strings.Index(out, "h: 2"), strings.Index(out, "x: 1"))
}
