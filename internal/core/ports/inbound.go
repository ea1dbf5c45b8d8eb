package ports

import (
	"context"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// AnalysisRunner executes the full extraction and gap-synthesis pipeline for
// one root container and returns the assembled report.
type AnalysisRunner interface {
	Analyze(ctx context.Context, rootID string) (*domain.Report, error)
}

// RunExecutor is the inbound contract for queue-driven execution: run the
// pipeline, persist the outcome and write report artifacts.
type RunExecutor interface {
	ExecuteRun(ctx context.Context, rootID string) (*domain.Report, error)
}
