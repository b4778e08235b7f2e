package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/target"
)

// Error codes for load failures.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeBuildFailed = "E003" // CUE build failed
	ErrCodeSchema      = "E004" // Target spec violates schema
	ErrCodeBadCircuit  = "E005" // Circuit file malformed
	ErrCodeWriteFailed = "E006" // File write error
)

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// targetSpec mirrors the CUE target schema:
//
//	target: {
//		num_qubits: int
//		instructions: [...{gate: string, qubit: int, error?: float}]
//	}
//
// num_qubits may be -1 for a device of unknown width. A missing error field
// records the instruction as supported with no error data.
type targetSpec struct {
	NumQubits    int               `json:"num_qubits"`
	Instructions []instructionSpec `json:"instructions"`
}

type instructionSpec struct {
	Gate  string   `json:"gate"`
	Qubit int      `json:"qubit"`
	Error *float64 `json:"error"`
}

// LoadTarget reads a device target from a CUE file.
func LoadTarget(path string) (*target.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "target spec not found", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
	}

	ctx := cuecontext.New()
	val := ctx.CompileBytes(data)
	if val.Err() != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: val.Err().Error(), Path: path}
	}
	tval := val.LookupPath(cue.ParsePath("target"))
	if !tval.Exists() {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "missing top-level target field", Path: path}
	}

	var spec targetSpec
	if err := tval.Decode(&spec); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Path: path}
	}
	return buildTarget(path, spec)
}

func buildTarget(path string, spec targetSpec) (*target.Target, error) {
	var t *target.Target
	if spec.NumQubits < 0 {
		t = target.NewUnsized()
	} else {
		t = target.New(spec.NumQubits)
	}
	for i, inst := range spec.Instructions {
		name := NormalizeGateName(inst.Gate)
		if name == "" {
			return nil, &LoadError{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("instructions[%d]: empty gate name", i),
				Path:    path,
			}
		}
		if inst.Qubit < 0 {
			return nil, &LoadError{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("instructions[%d]: negative qubit", i),
				Path:    path,
			}
		}
		if spec.NumQubits >= 0 && inst.Qubit >= spec.NumQubits {
			return nil, &LoadError{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("instructions[%d]: qubit %d out of range (num_qubits=%d)", i, inst.Qubit, spec.NumQubits),
				Path:    path,
			}
		}
		if inst.Error != nil {
			if *inst.Error < 0 || *inst.Error > 1 {
				return nil, &LoadError{
					Code:    ErrCodeSchema,
					Message: fmt.Sprintf("instructions[%d]: error rate %v outside [0, 1]", i, *inst.Error),
					Path:    path,
				}
			}
			t.AddInstructionError(name, inst.Qubit, *inst.Error)
		} else {
			t.AddInstruction(name, inst.Qubit)
		}
	}
	return t, nil
}

// LoadCircuit reads a circuit from a YAML file. Gate names are normalized
// to NFC so visually identical spellings collide instead of slipping past
// basis checks.
func LoadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "circuit file not found", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
	}
	c, err := circuit.Decode(norm.NFC.Bytes(data))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadCircuit, Message: err.Error(), Path: path}
	}
	return c, nil
}

// NormalizeGateName returns the NFC form of a gate name.
func NormalizeGateName(name string) string {
	return norm.NFC.String(name)
}
