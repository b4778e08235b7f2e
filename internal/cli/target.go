package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatefold/gatefold/internal/target"
)

// TargetSummary reports the shape of a loaded target.
type TargetSummary struct {
	NumQubits    int      `json:"num_qubits"` // -1 when unknown
	Operations   []string `json:"operations"`
	Instructions int      `json:"instructions"`
}

// NewTargetCommand creates the target command group.
func NewTargetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Inspect and snapshot device targets",
	}
	cmd.AddCommand(newTargetValidateCommand(rootOpts))
	cmd.AddCommand(newTargetImportCommand(rootOpts))
	return cmd
}

func newTargetValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "validate <target.cue>",
		Short:         "Validate a CUE device target spec",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargetValidate(rootOpts, args[0], cmd)
		},
	}
}

func newTargetImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:           "import <target.cue>",
		Short:         "Snapshot a CUE device target into SQLite",
		Long:          "Snapshot a CUE device target into a SQLite database that optimize --device can read without re-parsing CUE.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargetImport(rootOpts, args[0], dbPath, cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "target.db", "snapshot database path")
	return cmd
}

func runTargetValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t, err := LoadTarget(path)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid target", err)
	}
	summary := summarize(t)
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	return formatter.Success(formatTargetSummary(summary))
}

func runTargetImport(opts *RootOptions, path, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t, err := LoadTarget(path)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid target", err)
	}
	store, err := target.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening snapshot database", err)
	}
	defer store.Close()
	if err := store.WriteTarget(cmd.Context(), t); err != nil {
		return WrapExitError(ExitCommandError, "writing snapshot", err)
	}
	formatter.VerboseLog("Snapshot written to %s", dbPath)
	if opts.Format == "json" {
		return formatter.Success(map[string]string{"db": dbPath})
	}
	return formatter.Success(dbPath)
}

func summarize(t *target.Target) TargetSummary {
	n, known := t.NumQubits()
	if !known {
		n = -1
	}
	return TargetSummary{
		NumQubits:    n,
		Operations:   t.OperationNames(),
		Instructions: t.InstructionCount(),
	}
}

func formatTargetSummary(s TargetSummary) string {
	var b strings.Builder
	if s.NumQubits >= 0 {
		fmt.Fprintf(&b, "num_qubits: %d\n", s.NumQubits)
	} else {
		b.WriteString("num_qubits: unknown\n")
	}
	sort.Strings(s.Operations)
	fmt.Fprintf(&b, "operations: %s", strings.Join(s.Operations, ", "))
	return b.String()
}
