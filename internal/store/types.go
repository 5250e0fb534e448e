package store

import (
	"context"
	"time"

	"github.com/stellarlinkco/lingbench/internal/results"
)

// RunRecord summarises one scoring run.
type RunRecord struct {
	ID             string
	CreatedAt      time.Time
	SourceFile     string
	TotalRows      int
	AvgScore       float64
	CategoryCounts map[string]int
}

// RunWriter persists scoring runs.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord, rows []results.ScoredRow) error
}

// RunReader reads persisted runs back.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	GetRunRows(ctx context.Context, runID string) ([]results.ScoredRow, error)
}

// Store is the persistence surface for scoring runs.
type Store interface {
	RunWriter
	RunReader
	Close() error
}
