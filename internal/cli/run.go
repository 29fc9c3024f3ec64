package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/report"
	"github.com/anentropic/condagg/internal/schema"
	"github.com/anentropic/condagg/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Report   string
	Database string
}

// RunResult is the run command's success payload.
type RunResult struct {
	Report  string   `json:"report"`
	RunID   string   `json:"run_id"`
	SQL     string   `json:"sql"`
	Params  []any    `json:"params"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <schema-dir>",
		Short: "Execute a report against a SQLite database",
		Long: `Compile a report against the schema, execute it against the SQLite
database and print the result table. Each execution is recorded in the
database's run log with a unique run id.

Example:
  condagg run ./schema --report ./reports/overview.yaml --db ./stats.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Report, "report", "", "path to YAML report definition (required)")
	_ = cmd.MarkFlagRequired("report")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *RunOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	sch, err := schema.LoadDir(schemaDir)
	if err != nil {
		return commandError(formatter, ErrCodeSchema, err.Error())
	}
	logger.Debug("schema loaded", "dir", schemaDir, "tables", len(sch.Tables))

	rep, err := report.Load(opts.Report)
	if err != nil {
		return commandError(formatter, ErrCodeReport, err.Error())
	}
	logger.Debug("report loaded", "name", rep.Name, "columns", len(rep.Columns))

	if _, err := os.Stat(opts.Database); err != nil {
		return commandError(formatter, ErrCodeNotFound,
			fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDB, err.Error())
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := rep.Execute(ctx, st, sch, condsql.SQLite)
	if err != nil {
		return commandError(formatter, ErrCodeDB, err.Error())
	}
	logger.Debug("report executed", "run_id", result.Run.ID, "rows", len(result.Rows))

	payload := &RunResult{
		Report:  rep.Name,
		RunID:   result.Run.ID,
		SQL:     result.SQL,
		Params:  result.Params,
		Columns: result.Columns,
		Rows:    result.Rows,
	}
	if payload.Params == nil {
		payload.Params = []any{}
	}
	if payload.Rows == nil {
		payload.Rows = [][]any{}
	}

	if formatter.Format == "json" {
		return formatter.Success(payload)
	}

	fmt.Fprintf(formatter.Writer, "%s %s: %d row(s)\n\n",
		color.GreenString("✓"), rep.Name, len(result.Rows))

	table := tablewriter.NewTable(formatter.Writer)
	table.Header(result.Columns)
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(formatter.Writer, "\nrun %s recorded\n", result.Run.ID)
	return nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case int64:
		return fmt.Sprintf("%d", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
