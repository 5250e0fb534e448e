package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/lingbench/internal/results"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt *sql.Stmt
	insertRowStmt *sql.Stmt
	getRunStmt    *sql.Stmt
	listRunsStmt  *sql.Stmt
	rowsByRunStmt *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS scoring_runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			source_file TEXT NOT NULL,
			total_rows INTEGER NOT NULL,
			avg_score REAL NOT NULL,
			category_counts TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scored_results (
			run_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			model_identifier TEXT NOT NULL,
			language TEXT NOT NULL,
			domain TEXT,
			score REAL NOT NULL,
			score_category TEXT NOT NULL,
			reasoning_similarity REAL,
			FOREIGN KEY(run_id) REFERENCES scoring_runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scored_results_run_id ON scored_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scored_results_model ON scored_results(model_identifier, language)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil db")
	}

	var err error
	if s.insertRunStmt, err = s.db.Prepare(
		`INSERT INTO scoring_runs (id, created_at, source_file, total_rows, avg_score, category_counts)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	); err != nil {
		return fmt.Errorf("store: prepare insert run: %w", err)
	}
	if s.insertRowStmt, err = s.db.Prepare(
		`INSERT INTO scored_results (run_id, question_id, model_identifier, language, domain, score, score_category, reasoning_similarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	); err != nil {
		return fmt.Errorf("store: prepare insert row: %w", err)
	}
	if s.getRunStmt, err = s.db.Prepare(
		`SELECT id, created_at, source_file, total_rows, avg_score, category_counts
		 FROM scoring_runs WHERE id = ?`,
	); err != nil {
		return fmt.Errorf("store: prepare get run: %w", err)
	}
	if s.listRunsStmt, err = s.db.Prepare(
		`SELECT id, created_at, source_file, total_rows, avg_score, category_counts
		 FROM scoring_runs ORDER BY created_at DESC LIMIT ?`,
	); err != nil {
		return fmt.Errorf("store: prepare list runs: %w", err)
	}
	if s.rowsByRunStmt, err = s.db.Prepare(
		`SELECT question_id, model_identifier, language, domain, score, score_category, reasoning_similarity
		 FROM scored_results WHERE run_id = ? ORDER BY rowid`,
	); err != nil {
		return fmt.Errorf("store: prepare rows by run: %w", err)
	}
	return nil
}

// SaveRun persists a run summary and its scored rows in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord, rows []results.ScoredRow) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil db")
	}
	if run == nil {
		return errors.New("store: nil run")
	}
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("store: missing run id")
	}

	counts, err := json.Marshal(run.CategoryCounts)
	if err != nil {
		return fmt.Errorf("store: marshal category counts: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.StmtContext(ctx, s.insertRunStmt).ExecContext(ctx,
		run.ID, run.CreatedAt.UTC().Unix(), run.SourceFile, run.TotalRows, run.AvgScore, string(counts),
	); err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	insertRow := tx.StmtContext(ctx, s.insertRowStmt)
	for i := range rows {
		r := &rows[i]
		var sim any
		if r.Similarity != nil {
			sim = *r.Similarity
		}
		if _, err := insertRow.ExecContext(ctx,
			run.ID, r.QuestionID, r.ModelIdentifier, r.Language, r.Domain, r.Score, r.ScoreCategory, sim,
		); err != nil {
			return fmt.Errorf("store: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// GetRun returns one run summary, or an error when not found.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil || s.getRunStmt == nil {
		return nil, errors.New("store: nil db")
	}
	run, err := scanRun(s.getRunStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: run %q not found", id)
	}
	return run, err
}

// ListRuns returns recent run summaries, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if s == nil || s.listRunsStmt == nil {
		return nil, errors.New("store: nil db")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.listRunsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// GetRunRows returns the scored rows of a run in insertion order.
func (s *SQLiteStore) GetRunRows(ctx context.Context, runID string) ([]results.ScoredRow, error) {
	if s == nil || s.rowsByRunStmt == nil {
		return nil, errors.New("store: nil db")
	}

	rows, err := s.rowsByRunStmt.QueryContext(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: rows for run %q: %w", runID, err)
	}
	defer rows.Close()

	var out []results.ScoredRow
	for rows.Next() {
		var r results.ScoredRow
		var domain sql.NullString
		var sim sql.NullFloat64
		if err := rows.Scan(&r.QuestionID, &r.ModelIdentifier, &r.Language, &domain, &r.Score, &r.ScoreCategory, &sim); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		r.Domain = domain.String
		if sim.Valid {
			v := sim.Float64
			r.Similarity = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows for run %q: %w", runID, err)
	}
	return out, nil
}

// Close releases prepared statements and the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	for _, stmt := range []*sql.Stmt{s.insertRunStmt, s.insertRowStmt, s.getRunStmt, s.listRunsStmt, s.rowsByRunStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var run RunRecord
	var createdAt int64
	var counts string
	if err := row.Scan(&run.ID, &createdAt, &run.SourceFile, &run.TotalRows, &run.AvgScore, &counts); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if counts != "" {
		if err := json.Unmarshal([]byte(counts), &run.CategoryCounts); err != nil {
			return nil, fmt.Errorf("store: unmarshal category counts: %w", err)
		}
	}
	return &run, nil
}
