package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/report"
	"github.com/anentropic/condagg/internal/schema"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Report  string
	Dialect string
}

// CompileResult is the compile command's success payload.
type CompileResult struct {
	Report  string `json:"report"`
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Params  []any  `json:"params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir>",
		Short: "Compile a report to SQL",
		Long: `Compile a YAML report definition against a CUE schema and print the
resulting SQL statement and its ordered bind parameters.

Example:
  condagg compile ./schema --report ./reports/overview.yaml
  condagg compile ./schema --report ./reports/overview.yaml --dialect postgres`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompileCmd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Report, "report", "", "path to YAML report definition (required)")
	_ = cmd.MarkFlagRequired("report")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "SQL dialect (sqlite|postgres)")

	return cmd
}

func runCompileCmd(opts *CompileOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dialect, ok := condsql.DialectByName(opts.Dialect)
	if !ok {
		return commandError(formatter, ErrCodeGeneric,
			fmt.Sprintf("unknown dialect %q", opts.Dialect))
	}

	sch, err := schema.LoadDir(schemaDir)
	if err != nil {
		return commandError(formatter, ErrCodeSchema, err.Error())
	}
	formatter.VerboseLog("Loaded schema with %d table(s) from %s", len(sch.Tables), schemaDir)

	rep, err := report.Load(opts.Report)
	if err != nil {
		return commandError(formatter, ErrCodeReport, err.Error())
	}
	formatter.VerboseLog("Loaded report %q with %d column(s)", rep.Name, len(rep.Columns))

	sql, params, err := rep.Compile(sch, dialect)
	if err != nil {
		return commandError(formatter, ErrCodeCompile, err.Error())
	}

	result := &CompileResult{
		Report:  rep.Name,
		Dialect: dialect.Name,
		SQL:     sql,
		Params:  params,
	}
	if params == nil {
		result.Params = []any{}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, sql)
	if len(params) > 0 {
		strs := make([]string, len(params))
		for i, p := range params {
			strs[i] = fmt.Sprintf("%v", p)
		}
		fmt.Fprintf(formatter.Writer, "-- params: [%s]\n", strings.Join(strs, ", "))
	}
	return nil
}

// commandError reports an error through the formatter and returns the
// matching ExitError so the process exits with code 2.
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
