package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// StatsResult summarizes a circuit file.
type StatsResult struct {
	Qubits       int              `json:"qubits"`
	Clbits       int              `json:"clbits"`
	Ops          int              `json:"ops"`
	GlobalPhase  float64          `json:"global_phase"`
	OpCounts     map[string]int   `json:"op_counts"`
	Calibrations map[string][]int `json:"calibrations,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stats <circuit.yaml>",
		Short:         "Summarize a circuit file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := LoadCircuit(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading circuit", err)
	}

	result := StatsResult{
		Qubits:      c.NumQubits(),
		Clbits:      c.NumClbits(),
		Ops:         c.Len(),
		GlobalPhase: c.GlobalPhase(),
		OpCounts:    c.OpCounts(),
	}
	if c.HasCalibrations() {
		result.Calibrations = c.Calibrations()
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(formatStats(result))
}

func formatStats(r StatsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "qubits: %d\nclbits: %d\nops: %d\nglobal_phase: %g\n", r.Qubits, r.Clbits, r.Ops, r.GlobalPhase)
	names := make([]string, 0, len(r.OpCounts))
	for name := range r.OpCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %d\n", name, r.OpCounts[name])
	}
	return strings.TrimRight(b.String(), "\n")
}
