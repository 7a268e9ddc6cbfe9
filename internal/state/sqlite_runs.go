package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unyt-org/datex-go/pkg/compiler"
)

const runColumns = `id, started_at, completed_at, files, error_count`

// CreateRun starts a new check run.
func (s *SQLiteStore) CreateRun(ctx context.Context) (*CheckRun, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	run := &CheckRun{ID: generateID(), StartedAt: time.Now().UTC()}
	s.logger.Debug("creating run", slog.String("id", run.ID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// RecordDiagnostics stores the diagnostics of one file in a single
// transaction.
func (s *SQLiteStore) RecordDiagnostics(ctx context.Context, runID, path string, diags []compiler.Diagnostic) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(diags) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (run_id, path, span_start, span_end, kind, message) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range diags {
		if _, err := stmt.ExecContext(ctx, runID, path, d.Span.Start, d.Span.End, d.Kind, d.Message); err != nil {
			return fmt.Errorf("failed to record diagnostic for %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit diagnostics: %w", err)
	}
	return nil
}

// CompleteRun marks a run as finished with its totals.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, files, errorCount int) error {
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE check_runs SET completed_at = ?, files = ?, error_count = ? WHERE id = ?`,
		time.Now().UTC(), files, errorCount, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*CheckRun, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM check_runs WHERE id = ?`, runID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*CheckRun, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM check_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*CheckRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunDiagnostics returns every diagnostic of a run ordered by file and
// position.
func (s *SQLiteStore) RunDiagnostics(ctx context.Context, runID string) ([]FileDiagnostic, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, span_start, span_end, kind, message FROM diagnostics
		 WHERE run_id = ? ORDER BY path, span_start, rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []FileDiagnostic
	for rows.Next() {
		var d FileDiagnostic
		if err := rows.Scan(&d.Path, &d.Span.Start, &d.Span.End, &d.Kind, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*CheckRun, error) {
	run := &CheckRun{}
	var completedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.StartedAt, &completedAt, &run.Files, &run.ErrorCount); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}
