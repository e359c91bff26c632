package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tracespy/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the validation outcome for one plan file.
type ValidateResult struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Rules  int    `json:"rules,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Validate a watch plan without running anything",
		Long: `Validate a watch plan: structural rules, category names, and predicate
patterns. Exit code 0 means the plan would load for replay; 1 means it
would not.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd, args[0])
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command, path string) error {
	result := ValidateResult{Path: path, Valid: true}

	plan, err := config.Load(path)
	if err != nil {
		result.Valid = false
		result.Reason = err.Error()
	} else {
		result.Rules = len(plan.Rules)
	}

	if opts.Format == "json" {
		if err := json.NewEncoder(cmd.OutOrStdout()).Encode(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s rules=%d\n", path, result.Rules)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "invalid %s: %s\n", path, result.Reason)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "watch plan invalid")
	}
	return nil
}
