// Package state records the history of check runs in SQLite.
//
// Every `datex check` opens a run, records the diagnostics of each file it
// compiled and completes the run with totals. The history command reads it
// back.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/unyt-org/datex-go/pkg/compiler"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// CheckRun is one invocation of the checker.
type CheckRun struct {
	ID          string     `json:"id" yaml:"id"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Files       int        `json:"files" yaml:"files"`
	ErrorCount  int        `json:"error_count" yaml:"error_count"`
}

// Completed reports whether the run has finished.
func (r *CheckRun) Completed() bool { return r.CompletedAt != nil }

// FileDiagnostic is a diagnostic recorded for one file of a run.
type FileDiagnostic struct {
	Path string `json:"path" yaml:"path"`
	compiler.Diagnostic
}

// Store persists check runs.
type Store interface {
	CreateRun(ctx context.Context) (*CheckRun, error)
	RecordDiagnostics(ctx context.Context, runID, path string, diags []compiler.Diagnostic) error
	CompleteRun(ctx context.Context, runID string, files, errorCount int) error
	GetRun(ctx context.Context, runID string) (*CheckRun, error)
	ListRuns(ctx context.Context, limit int) ([]*CheckRun, error)
	RunDiagnostics(ctx context.Context, runID string) ([]FileDiagnostic, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
