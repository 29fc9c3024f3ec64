package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/report"
	"github.com/anentropic/condagg/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Report string
}

// ValidationIssue is one reported validation problem.
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// ValidationResult is the validate command's payload.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a schema and optionally a report",
		Long: `Validate CUE schema files, and with --report also validate a report
definition against the schema by compiling it without executing.

Schema errors carry CUE source positions where available.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Report, "report", "", "path to YAML report definition")

	return cmd
}

func runValidateCmd(opts *ValidateOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var issues []ValidationIssue

	sch, err := schema.LoadDir(schemaDir)
	if err != nil {
		issues = append(issues, schemaIssue(err))
	} else {
		formatter.VerboseLog("Schema OK: %d table(s)", len(sch.Tables))
	}

	if opts.Report != "" && sch != nil {
		rep, err := report.Load(opts.Report)
		if err != nil {
			issues = append(issues, ValidationIssue{Code: ErrCodeReport, Message: err.Error()})
		} else if _, _, err := rep.Compile(sch, condsql.SQLite); err != nil {
			issues = append(issues, ValidationIssue{Code: ErrCodeCompile, Message: err.Error()})
		} else {
			formatter.VerboseLog("Report OK: %q", rep.Name)
		}
	}

	result := &ValidationResult{Valid: len(issues) == 0, Issues: issues}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, "validation failed")
		}
		return nil
	}

	if result.Valid {
		fmt.Fprintln(formatter.Writer, "✓ Valid")
		return nil
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.Position != "" {
			fmt.Fprintln(formatter.Writer, issue.Position)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
	}
	return NewExitError(ExitFailure, "validation failed")
}

// schemaIssue converts a schema load error to an issue, extracting the CUE
// source position when the error carries one.
func schemaIssue(err error) ValidationIssue {
	issue := ValidationIssue{Code: ErrCodeSchema, Message: err.Error()}

	var cerr *schema.CompileError
	if errors.As(err, &cerr) && cerr.Pos.IsValid() {
		issue.Position = fmt.Sprintf("%s:%d:%d",
			cerr.Pos.Filename(), cerr.Pos.Line(), cerr.Pos.Column())
		issue.Message = fmt.Sprintf("%s: %s", cerr.Field, cerr.Message)
	}
	return issue
}
