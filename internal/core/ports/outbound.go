package ports

import (
	"context"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// DocumentStore is the hierarchical document store boundary. The core only
// requires these two operations plus stable item identifiers.
type DocumentStore interface {
	ListChildren(ctx context.Context, containerID string) ([]domain.StoreItem, error)
	GetContent(ctx context.Context, itemID string) ([]byte, error)
}

// TextExtractor turns raw document bytes into plain text. Implementations
// must be idempotent and side-effect-free.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, declaredType string) (string, error)
}

// CategoryClassifier asks the external classification capability whether the
// document text answers a category's canonical questions. Responses that do
// not match the expected shape fail with domain.ErrMalformedExtraction.
type CategoryClassifier interface {
	ClassifyCategory(ctx context.Context, text string, category domain.Category) (domain.CategoryExtraction, error)
}

// RunQueue publishes/consumes analysis-run requests.
type RunQueue interface {
	PublishRunRequested(ctx context.Context, rootID string) error
	SubscribeRunRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// RunRepository persists runs, their document inventory and their outcomes.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.AnalysisRun) error
	FinishRun(ctx context.Context, run *domain.AnalysisRun) error
	GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error)
	SaveInventory(ctx context.Context, runID string, records []domain.DocumentRecord) error
	SaveCategoryScores(ctx context.Context, runID string, summaries []domain.CategorySummary) error
	SaveGaps(ctx context.Context, runID string, gaps []domain.PrioritizedGap) error
}

// ReportWriter renders and stores the final report artifacts.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *domain.Report) ([]string, error)
}
