package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/martinHW299/crewai/internal/core/domain"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	root_id TEXT NOT NULL,
	status TEXT NOT NULL,
	aggregate_completeness DOUBLE PRECISION NOT NULL DEFAULT 0,
	error_message TEXT,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_documents (
	run_id TEXT NOT NULL REFERENCES analysis_runs(id),
	document_id TEXT NOT NULL,
	display_name TEXT NOT NULL,
	file_type TEXT NOT NULL,
	hierarchy_path TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	is_container BOOLEAN NOT NULL,
	status TEXT NOT NULL,
	failure_reason TEXT,
	discovered_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, document_id)
);

CREATE TABLE IF NOT EXISTS run_category_scores (
	run_id TEXT NOT NULL REFERENCES analysis_runs(id),
	category_key TEXT NOT NULL,
	completeness_score DOUBLE PRECISION NOT NULL,
	finding_count INT NOT NULL,
	gap_count INT NOT NULL,
	conflict_count INT NOT NULL,
	PRIMARY KEY (run_id, category_key)
);

CREATE TABLE IF NOT EXISTS run_gaps (
	run_id TEXT NOT NULL REFERENCES analysis_runs(id),
	category_key TEXT NOT NULL,
	missing_question TEXT NOT NULL,
	priority TEXT NOT NULL,
	rationale TEXT NOT NULL,
	risk_narrative TEXT NOT NULL,
	contributing_document_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
	PRIMARY KEY (run_id, category_key, missing_question)
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_started_at ON analysis_runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_run_gaps_priority ON run_gaps(run_id, priority);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RunRepository) CreateRun(ctx context.Context, run *domain.AnalysisRun) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_runs (id, root_id, status, aggregate_completeness, error_message, started_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, run.ID, run.RootID, string(run.Status), run.AggregateCompleteness, run.Error, run.StartedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *RunRepository) FinishRun(ctx context.Context, run *domain.AnalysisRun) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE analysis_runs
SET status = $2, aggregate_completeness = $3, error_message = $4, finished_at = $5
WHERE id = $1
`, run.ID, string(run.Status), run.AggregateCompleteness, run.Error, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "finish run", fmt.Errorf("run %s", run.ID))
	}
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, root_id, status, aggregate_completeness, COALESCE(error_message, ''), started_at, COALESCE(finished_at, 'epoch'::timestamptz)
FROM analysis_runs
WHERE id = $1
`, id)

	var run domain.AnalysisRun
	var status string
	err := row.Scan(&run.ID, &run.RootID, &status, &run.AggregateCompleteness, &run.Error, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get run", fmt.Errorf("run %s", id))
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = domain.RunStatus(status)
	return &run, nil
}

func (r *RunRepository) SaveInventory(ctx context.Context, runID string, records []domain.DocumentRecord) error {
	for _, rec := range records {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO run_documents (run_id, document_id, display_name, file_type, hierarchy_path, size_bytes, is_container, status, failure_reason, discovered_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, runID, rec.ID, rec.DisplayName, rec.FileType, rec.HierarchyPath, rec.Size, rec.IsContainer, string(rec.Status), rec.FailureReason, rec.DiscoveredAt)
		if err != nil {
			return fmt.Errorf("insert inventory record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func (r *RunRepository) SaveCategoryScores(ctx context.Context, runID string, summaries []domain.CategorySummary) error {
	for _, cs := range summaries {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO run_category_scores (run_id, category_key, completeness_score, finding_count, gap_count, conflict_count)
VALUES ($1,$2,$3,$4,$5,$6)
`, runID, cs.CategoryKey, cs.CompletenessScore, len(cs.Findings), len(cs.Gaps), len(cs.Conflicts))
		if err != nil {
			return fmt.Errorf("insert category score %s: %w", cs.CategoryKey, err)
		}
	}
	return nil
}

func (r *RunRepository) SaveGaps(ctx context.Context, runID string, gaps []domain.PrioritizedGap) error {
	for _, g := range gaps {
		ids, err := json.Marshal(g.Gap.ContributingDocumentIDs)
		if err != nil {
			return fmt.Errorf("marshal contributing ids: %w", err)
		}
		_, err = r.db.ExecContext(ctx, `
INSERT INTO run_gaps (run_id, category_key, missing_question, priority, rationale, risk_narrative, contributing_document_ids)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, runID, g.Gap.CategoryKey, g.Gap.MissingQuestion, string(g.Priority), g.Gap.Rationale, g.RiskNarrative, ids)
		if err != nil {
			return fmt.Errorf("insert gap %s/%s: %w", g.Gap.CategoryKey, g.Gap.MissingQuestion, err)
		}
	}
	return nil
}
