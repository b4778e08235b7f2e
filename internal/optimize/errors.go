package optimize

import (
	"errors"
	"fmt"

	"github.com/gatefold/gatefold/internal/circuit"
)

// PassError represents an error detected while a pass runs.
//
// Pass errors include:
//   - Block mismatch: a control-flow block's qubit count disagrees with the
//     node that carries it
//
// PassError includes structured fields for diagnostics.
type PassError struct {
	// Code identifies the error category.
	Code PassErrorCode

	// Message is a human-readable description.
	Message string

	// Pass names the pass that failed.
	Pass string

	// Node identifies the offending node, or circuit.NoNode.
	Node circuit.NodeID

	// Details contains additional context.
	Details map[string]string
}

// PassErrorCode categorizes pass errors.
type PassErrorCode string

const (
	// ErrCodeBlockMismatch indicates a control-flow block whose width does
	// not match its carrier node.
	ErrCodeBlockMismatch PassErrorCode = "BLOCK_MISMATCH"
)

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.Node != circuit.NoNode {
		return fmt.Sprintf("%s: %s (pass=%s, node=%d)", e.Code, e.Message, e.Pass, e.Node)
	}
	return fmt.Sprintf("%s: %s (pass=%s)", e.Code, e.Message, e.Pass)
}

// IsBlockMismatchError returns true if the error is a block mismatch error.
// Uses errors.As to handle wrapped errors.
func IsBlockMismatchError(err error) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeBlockMismatch
	}
	return false
}

// newBlockMismatchError creates a PassError for a block width mismatch.
func newBlockMismatchError(pass string, node circuit.NodeID, blockQubits, nodeQubits int) *PassError {
	return &PassError{
		Code:    ErrCodeBlockMismatch,
		Message: "control-flow block width disagrees with carrier node",
		Pass:    pass,
		Node:    node,
		Details: map[string]string{
			"block_qubits": fmt.Sprintf("%d", blockQubits),
			"node_qubits":  fmt.Sprintf("%d", nodeQubits),
		},
	}
}
