package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/core/ports"
)

// RunObserver receives pipeline progress events. Implemented by the worker
// metrics; a nil observer is valid.
type RunObserver interface {
	DocumentStarted()
	DocumentFinished(status domain.ProcessingStatus, duration time.Duration)
	ClassificationFailure(kind domain.FailureKind)
}

// AnalyzeUseCase orchestrates the pipeline: traversal, concurrent
// per-document classification fanned out up to the configured limit, a join
// barrier, then single-threaded reconciliation, prioritization and synthesis.
type AnalyzeUseCase struct {
	traverser     *Traverser
	docClassifier *DocumentClassifier
	reconciler    *Reconciler
	prioritizer   *Prioritizer
	synthesizer   *Synthesizer
	params        AnalysisParams
	logger        *slog.Logger
	observer      RunObserver
}

func NewAnalyzeUseCase(
	store ports.DocumentStore,
	extractor ports.TextExtractor,
	classifier ports.CategoryClassifier,
	params AnalysisParams,
	logger *slog.Logger,
	observer RunObserver,
) *AnalyzeUseCase {
	p := params.normalize()
	limiter := rate.NewLimiter(rate.Limit(float64(p.CallsPerMinute)/60.0), p.MaxConcurrentCalls)
	return &AnalyzeUseCase{
		traverser:     NewTraverser(store, extractor, logger),
		docClassifier: NewDocumentClassifier(classifier, p.CallTimeout, limiter),
		reconciler:    NewReconciler(p),
		prioritizer:   NewPrioritizer(p),
		synthesizer:   NewSynthesizer(p),
		params:        p,
		logger:        logger,
		observer:      observer,
	}
}

// Analyze runs the full pipeline for one root container. Cancellation lets
// in-flight document classifications finish or abort cleanly, merges what
// completed and marks the remainder not_processed; the returned report is
// valid partial output. Only a completely empty root is fatal.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, rootID string) (*domain.Report, error) {
	runID := uuid.NewString()
	registry := NewSourceRegistry()

	docs, extractedChars, err := uc.traverser.Traverse(ctx, rootID, registry)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("traversal_complete", "run_id", runID, "documents", len(docs))

	results := uc.classifyAll(ctx, docs, registry)

	// Join barrier passed: everything below is single-threaded.
	cancelled := ctx.Err() != nil
	if cancelled {
		registry.MarkRemainingNotProcessed()
	}

	summaries := uc.reconciler.Reconcile(results)
	gaps := uc.prioritizer.Prioritize(summaries)
	failures := collectFailures(results)

	report := uc.synthesizer.Synthesize(synthesisInput{
		RunID:     runID,
		RootID:    rootID,
		Cancelled: cancelled,
		Summaries: summaries,
		Gaps:      gaps,
		Inventory: registry.Snapshot(),
		Failures:  failures,
		Stats:     registry.Stats(extractedChars),
	})

	uc.logger.Info("analysis_complete",
		"run_id", runID,
		"documents_succeeded", report.Stats.Succeeded,
		"documents_failed", report.Stats.Failed,
		"aggregate_completeness", report.Summary.AggregateCompleteness,
		"cancelled", cancelled,
	)
	return report, nil
}

// classifyAll fans classification out per document with a bounded pool and a
// shared call-rate limiter, collecting results behind one lock. A document
// merges only when all its categories were attempted; a cancelled document
// contributes nothing and stays pending for the not_processed sweep.
func (uc *AnalyzeUseCase) classifyAll(ctx context.Context, docs []sourceDocument, registry *SourceRegistry) []documentResult {
	var (
		mu      sync.Mutex
		results []documentResult
	)

	g := new(errgroup.Group)
	g.SetLimit(uc.params.MaxConcurrentCalls)

	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			start := time.Now()
			if uc.observer != nil {
				uc.observer.DocumentStarted()
			}

			res, err := uc.classifyOne(ctx, doc)
			if err != nil {
				if uc.observer != nil {
					uc.observer.DocumentFinished(domain.StatusNotProcessed, time.Since(start))
				}
				return nil
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			// A document whose every classification call failed contributed
			// nothing; its inventory record says so instead of claiming success.
			status := domain.StatusSuccess
			if len(res.Findings)+len(res.Gaps) == 0 && len(res.Failures) > 0 {
				status = domain.StatusFailed
				_ = registry.MarkFailed(doc.RecordID, "all classification calls failed")
			} else {
				_ = registry.MarkSuccess(doc.RecordID)
			}

			if uc.observer != nil {
				uc.observer.DocumentFinished(status, time.Since(start))
				for _, f := range res.Failures {
					uc.observer.ClassificationFailure(f.Kind)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (uc *AnalyzeUseCase) classifyOne(ctx context.Context, doc sourceDocument) (documentResult, error) {
	res, err := uc.docClassifier.ClassifyDocument(ctx, doc.RecordID, doc.Text)
	if err != nil {
		uc.logger.Warn("document_classification_aborted", "record_id", doc.RecordID, "error", err)
		return documentResult{}, err
	}
	return res, nil
}

func collectFailures(results []documentResult) []domain.CategoryFailure {
	var out []domain.CategoryFailure
	for _, res := range results {
		out = append(out, res.Failures...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		ci, _ := domain.CategoryByKey(out[i].CategoryKey)
		cj, _ := domain.CategoryByKey(out[j].CategoryKey)
		return ci.Ordinal < cj.Ordinal
	})
	return out
}
