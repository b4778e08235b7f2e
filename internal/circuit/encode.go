package circuit

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// File format for circuits. Kept deliberately small: qubit/clbit counts,
// global phase, the calibration table, and the operation list in execution
// order. Nested control-flow blocks recurse into the same structure.

type fileCircuit struct {
	Qubits       int               `yaml:"qubits"`
	Clbits       int               `yaml:"clbits,omitempty"`
	GlobalPhase  float64           `yaml:"global_phase,omitempty"`
	Calibrations []fileCalibration `yaml:"calibrations,omitempty"`
	Ops          []fileOp          `yaml:"ops"`
}

type fileCalibration struct {
	Gate  string `yaml:"gate"`
	Qubit int    `yaml:"qubit"`
}

type fileOp struct {
	Name   string        `yaml:"name"`
	Qubits []int         `yaml:"qubits,flow,omitempty"`
	Clbits []int         `yaml:"clbits,flow,omitempty"`
	Params []float64     `yaml:"params,flow,omitempty"`
	Blocks []fileCircuit `yaml:"blocks,omitempty"`
}

func toFile(c *Circuit) fileCircuit {
	fc := fileCircuit{
		Qubits:      c.numQubits,
		Clbits:      c.numClbits,
		GlobalPhase: c.globalPhase,
	}
	cals := c.Calibrations()
	names := make([]string, 0, len(cals))
	for name := range cals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, q := range cals[name] {
			fc.Calibrations = append(fc.Calibrations, fileCalibration{Gate: name, Qubit: q})
		}
	}
	for _, n := range c.TopoNodes() {
		op := fileOp{
			Name:   n.Op.Name,
			Qubits: n.Qubits,
			Clbits: n.Clbits,
			Params: n.Op.Params,
		}
		for _, b := range n.Op.Blocks {
			op.Blocks = append(op.Blocks, toFile(b))
		}
		fc.Ops = append(fc.Ops, op)
	}
	return fc
}

func fromFile(fc fileCircuit) (*Circuit, error) {
	if fc.Qubits < 0 || fc.Clbits < 0 {
		return nil, fmt.Errorf("negative qubit or clbit count")
	}
	c := New(fc.Qubits, fc.Clbits)
	c.globalPhase = fc.GlobalPhase
	for _, cal := range fc.Calibrations {
		if cal.Qubit < 0 || cal.Qubit >= fc.Qubits {
			return nil, fmt.Errorf("calibration %s: qubit %d out of range", cal.Gate, cal.Qubit)
		}
		c.AddCalibration(cal.Gate, cal.Qubit)
	}
	for i, op := range fc.Ops {
		operation := Operation{Name: op.Name, Params: op.Params}
		for bi, b := range op.Blocks {
			block, err := fromFile(b)
			if err != nil {
				return nil, fmt.Errorf("op %d (%s) block %d: %w", i, op.Name, bi, err)
			}
			operation.Blocks = append(operation.Blocks, block)
		}
		if _, err := c.Append(operation, op.Qubits, op.Clbits); err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
	}
	return c, nil
}

// Encode serializes a circuit to its YAML file form. Output is deterministic
// for a given circuit: operations in topological order, calibrations sorted.
func Encode(c *Circuit) ([]byte, error) {
	return yaml.Marshal(toFile(c))
}

// Decode parses the YAML file form into a circuit.
func Decode(data []byte) (*Circuit, error) {
	var fc fileCircuit
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse circuit: %w", err)
	}
	return fromFile(fc)
}
