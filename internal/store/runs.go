package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anentropic/condagg/internal/ir"
)

// Run is one recorded report execution.
type Run struct {
	// Seq is the append position, assigned by AUTOINCREMENT.
	Seq int64

	// ID is the run's uuid, assigned at record time.
	ID string

	Report string
	SQL    string

	// Params holds the ordered bind parameters, as stored: canonical JSON
	// per RFC 8785.
	Params ir.Array

	// Fingerprint is the content hash of the SQL and its parameters.
	// Repeated executions of the same compiled report share it.
	Fingerprint string

	RowCount  int64
	CreatedAt string
}

// RecordRun appends an execution of the named report to the run log.
// Parameters are serialized to canonical JSON for deterministic storage,
// and the run is fingerprinted over the SQL and parameters together.
func (s *Store) RecordRun(ctx context.Context, report, sqlText string, params []any, rowCount int) (Run, error) {
	arr := make(ir.Array, len(params))
	for i, p := range params {
		v, err := ir.FromGo(p)
		if err != nil {
			return Run{}, fmt.Errorf("record run: param %d: %w", i, err)
		}
		arr[i] = v
	}

	paramsJSON, err := ir.MarshalCanonical(arr)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	fingerprint, err := ir.FragmentFingerprint(sqlText, params)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	run := Run{
		ID:          uuid.NewString(),
		Report:      report,
		SQL:         sqlText,
		Params:      arr,
		Fingerprint: fingerprint,
		RowCount:    int64(rowCount),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO report_runs (id, report, sql_text, params, fingerprint, row_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Report,
		run.SQL,
		string(paramsJSON),
		run.Fingerprint,
		run.RowCount,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	run.Seq, err = res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM report_runs WHERE seq = ?`, run.Seq,
	).Scan(&run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	return run, nil
}

// ListRuns returns recorded runs in append order. An empty report name
// matches all reports. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, report string, limit int) ([]Run, error) {
	query := `
		SELECT seq, id, report, sql_text, params, fingerprint, row_count, created_at
		FROM report_runs
	`
	var args []any
	if report != "" {
		query += ` WHERE report = ?`
		args = append(args, report)
	}
	query += ` ORDER BY seq`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var paramsJSON string
		err := rows.Scan(
			&run.Seq,
			&run.ID,
			&run.Report,
			&run.SQL,
			&paramsJSON,
			&run.Fingerprint,
			&run.RowCount,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}

		val, err := ir.UnmarshalValue([]byte(paramsJSON))
		if err != nil {
			return nil, fmt.Errorf("list runs: run %s: %w", run.ID, err)
		}
		arr, ok := val.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("list runs: run %s: params are not an array", run.ID)
		}
		run.Params = arr

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}
