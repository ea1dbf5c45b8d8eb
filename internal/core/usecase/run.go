package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/core/ports"
)

// RunUseCase wraps the analysis pipeline with run persistence and report
// output for queue-driven execution.
type RunUseCase struct {
	analyzer ports.AnalysisRunner
	repo     ports.RunRepository
	writer   ports.ReportWriter
	logger   *slog.Logger
}

func NewRunUseCase(
	analyzer ports.AnalysisRunner,
	repo ports.RunRepository,
	writer ports.ReportWriter,
	logger *slog.Logger,
) *RunUseCase {
	return &RunUseCase{analyzer: analyzer, repo: repo, writer: writer, logger: logger}
}

// ExecuteRun runs the pipeline for rootID and persists whatever it produced.
// A cancelled pipeline still persists its partial, valid results.
func (uc *RunUseCase) ExecuteRun(ctx context.Context, rootID string) (*domain.Report, error) {
	started := time.Now().UTC()
	report, err := uc.analyzer.Analyze(ctx, rootID)
	if err != nil {
		return nil, err
	}

	// Persistence uses a fresh context: a cancelled run must still record
	// its partial outcome.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	run := &domain.AnalysisRun{
		ID:                    report.RunID,
		RootID:                rootID,
		Status:                runStatus(report),
		AggregateCompleteness: report.Summary.AggregateCompleteness,
		StartedAt:             started,
		FinishedAt:            time.Now().UTC(),
	}
	if err := uc.persist(persistCtx, run, report); err != nil {
		return nil, err
	}

	paths, err := uc.writer.WriteReport(persistCtx, report)
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	uc.logger.Info("run_persisted", "run_id", report.RunID, "status", run.Status, "artifacts", paths)
	return report, nil
}

func (uc *RunUseCase) persist(ctx context.Context, run *domain.AnalysisRun, report *domain.Report) error {
	if err := uc.repo.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	if err := uc.repo.SaveInventory(ctx, run.ID, report.Inventory); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	if err := uc.repo.SaveCategoryScores(ctx, run.ID, report.Categories); err != nil {
		return fmt.Errorf("save category scores: %w", err)
	}
	if err := uc.repo.SaveGaps(ctx, run.ID, report.PrioritizedGaps); err != nil {
		return fmt.Errorf("save gaps: %w", err)
	}
	if err := uc.repo.FinishRun(ctx, run); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func runStatus(report *domain.Report) domain.RunStatus {
	if report.Cancelled {
		return domain.RunStatusCancelled
	}
	return domain.RunStatusCompleted
}
