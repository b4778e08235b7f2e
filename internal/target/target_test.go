package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetBasics(t *testing.T) {
	tgt := New(3)
	tgt.AddInstruction("cx", 0)
	tgt.AddInstructionError("rz", 0, 0)
	tgt.AddInstructionError("sx", 0, 1e-4)
	tgt.AddInstruction("sx", 2)

	n, known := tgt.NumQubits()
	assert.True(t, known)
	assert.Equal(t, 3, n)

	assert.Equal(t, []string{"cx", "rz", "sx"}, tgt.OperationNames())
	assert.Equal(t, []string{"cx", "rz", "sx"}, tgt.OperationNamesForQubit(0))
	assert.Equal(t, []string{"sx"}, tgt.OperationNamesForQubit(2))
	assert.Empty(t, tgt.OperationNamesForQubit(1))
	assert.Equal(t, 4, tgt.InstructionCount())

	e, ok := tgt.ErrorFor("sx", 0)
	assert.True(t, ok)
	assert.Equal(t, 1e-4, e)
	_, ok = tgt.ErrorFor("sx", 2)
	assert.False(t, ok, "supported but no error figure")
	_, ok = tgt.ErrorFor("cx", 1)
	assert.False(t, ok)

	assert.True(t, tgt.Supports("sx", 2))
	assert.False(t, tgt.Supports("sx", 1))
}

func TestUnsizedTarget(t *testing.T) {
	tgt := NewUnsized()
	_, known := tgt.NumQubits()
	assert.False(t, known)
	tgt.AddInstructionError("rz", 7, 2e-3)
	assert.True(t, tgt.Supports("rz", 7))
}

func TestBuildErrorMap(t *testing.T) {
	tgt := New(2)
	tgt.AddInstructionError("sx", 1, 1e-3)
	tgt.AddInstruction("rz", 1)

	em := BuildErrorMap(tgt)
	require.NotNil(t, em)
	assert.Equal(t, 2, em.NumQubits())
	assert.Equal(t, 1e-3, em.GateError("sx", 1))
	assert.Zero(t, em.GateError("rz", 1), "supported without error data")
	assert.Zero(t, em.GateError("sx", 0), "missing pair")
	assert.Zero(t, em.GateError("sx", 5), "out of range")

	assert.Nil(t, BuildErrorMap(nil))
	assert.Nil(t, BuildErrorMap(NewUnsized()))

	// A nil map answers zero for everything.
	var none *ErrorMap
	assert.Zero(t, none.GateError("sx", 0))
}
