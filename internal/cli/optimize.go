package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatefold/gatefold/internal/circuit"
	"github.com/gatefold/gatefold/internal/optimize"
	"github.com/gatefold/gatefold/internal/target"
)

// OptimizeResult holds the outcome of an optimize run.
type OptimizeResult struct {
	Run         string         `json:"run"`
	NodesBefore int            `json:"nodes_before"`
	NodesAfter  int            `json:"nodes_after"`
	GlobalPhase float64        `json:"global_phase"`
	OpCounts    map[string]int `json:"op_counts"`
	Output      string         `json:"output,omitempty"`
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		basisFlag    string
		targetPath   string
		devicePath   string
		outputPath   string
		tolerance    float64
		keepMeasures bool
	)

	cmd := &cobra.Command{
		Use:   "optimize <circuit.yaml>",
		Short: "Resynthesize single-qubit gate runs",
		Long: `Resynthesize runs of single-qubit gates into minimal equivalent sequences.

The gate set to synthesize into comes from one of:
  --basis   comma-separated gate names, the same on every qubit
  --target  CUE device spec with per-qubit instructions and error rates
  --device  SQLite device snapshot written by "gatefold target import"

With none of these, every decomposer family is eligible and a run is only
replaced by a strictly shorter sequence.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(rootOpts, args[0], optimizeFlags{
				basis:        basisFlag,
				targetPath:   targetPath,
				devicePath:   devicePath,
				outputPath:   outputPath,
				tolerance:    tolerance,
				keepMeasures: keepMeasures,
			}, cmd)
		},
	}

	cmd.Flags().StringVar(&basisFlag, "basis", "", "comma-separated basis gate names")
	cmd.Flags().StringVar(&targetPath, "target", "", "CUE device target spec")
	cmd.Flags().StringVar(&devicePath, "device", "", "SQLite device snapshot")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write optimized circuit to file (default: stdout)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-12, "absolute tolerance for angle simplification")
	cmd.Flags().BoolVar(&keepMeasures, "keep-final-measurements", false, "skip the final-measurement removal pass")

	return cmd
}

type optimizeFlags struct {
	basis        string
	targetPath   string
	devicePath   string
	outputPath   string
	tolerance    float64
	keepMeasures bool
}

func runOptimize(opts *RootOptions, circuitPath string, flags optimizeFlags, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	restrictions := 0
	for _, s := range []string{flags.basis, flags.targetPath, flags.devicePath} {
		if s != "" {
			restrictions++
		}
	}
	if restrictions > 1 {
		return NewExitError(ExitCommandError, "at most one of --basis, --target, --device may be set")
	}

	c, err := LoadCircuit(circuitPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading circuit", err)
	}
	formatter.VerboseLog("Loaded circuit: %d qubits, %d clbits, %d ops", c.NumQubits(), c.NumClbits(), c.Len())

	passOpts := []optimize.PassOption{optimize.WithTolerance(flags.tolerance)}
	switch {
	case flags.basis != "":
		names := splitBasis(flags.basis)
		formatter.VerboseLog("Basis restriction: %v", names)
		passOpts = append(passOpts, optimize.WithBasis(names...))
	case flags.targetPath != "":
		t, err := LoadTarget(flags.targetPath)
		if err != nil {
			return WrapExitError(ExitFailure, "loading target", err)
		}
		passOpts = append(passOpts, optimize.WithTarget(t))
	case flags.devicePath != "":
		t, err := readDeviceSnapshot(cmd.Context(), flags.devicePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "reading device snapshot", err)
		}
		passOpts = append(passOpts, optimize.WithTarget(t))
	}

	passes := []optimize.Pass{optimize.NewResynth1Q(passOpts...)}
	if !flags.keepMeasures {
		passes = append(passes, optimize.NewRemoveFinalMeasurements())
	}

	before := c.Len()
	token, err := optimize.NewPipeline(nil, passes...).Run(c)
	if err != nil {
		return WrapExitError(ExitFailure, "pipeline failed", err)
	}

	encoded, err := circuit.Encode(c)
	if err != nil {
		return WrapExitError(ExitFailure, "encoding circuit", err)
	}
	if flags.outputPath != "" {
		if err := os.WriteFile(flags.outputPath, encoded, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing output", err)
		}
	}

	result := OptimizeResult{
		Run:         token,
		NodesBefore: before,
		NodesAfter:  c.Len(),
		GlobalPhase: c.GlobalPhase(),
		OpCounts:    c.OpCounts(),
		Output:      flags.outputPath,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	if flags.outputPath == "" {
		_, err := formatter.Writer.Write(encoded)
		return err
	}
	formatter.VerboseLog("Run %s: %d -> %d ops", token, before, c.Len())
	return formatter.Success(flags.outputPath)
}

// splitBasis parses a comma-separated basis flag into normalized names.
func splitBasis(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, NormalizeGateName(p))
		}
	}
	return names
}

// readDeviceSnapshot loads a target from a SQLite snapshot.
func readDeviceSnapshot(ctx context.Context, path string) (*target.Target, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "device snapshot not found", Path: path}
	}
	store, err := target.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ReadTarget(ctx)
}
