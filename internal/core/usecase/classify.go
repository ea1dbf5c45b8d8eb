package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/core/ports"
)

const rationaleNotAddressed = "not addressed in this source"

// documentResult carries one document's complete classification output.
// Results merge only when every category was attempted, so a cancelled
// document never contributes a partial view.
type documentResult struct {
	RecordID string
	Findings []domain.Finding
	Gaps     []domain.Gap
	Failures []domain.CategoryFailure
}

// DocumentClassifier produces findings and gaps for one document against the
// full taxonomy, one external call per (document, category) pair.
type DocumentClassifier struct {
	classifier ports.CategoryClassifier
	timeout    time.Duration
	limiter    *rate.Limiter
}

func NewDocumentClassifier(classifier ports.CategoryClassifier, callTimeout time.Duration, limiter *rate.Limiter) *DocumentClassifier {
	if callTimeout <= 0 {
		callTimeout = DefaultParams().CallTimeout
	}
	return &DocumentClassifier{classifier: classifier, timeout: callTimeout, limiter: limiter}
}

// ClassifyDocument visits every category; no category is skipped. An empty
// document yields "not addressed" gaps for every canonical question without
// calling the capability. Per-category call failures are recorded and do not
// fail their siblings; only run cancellation aborts the document.
func (c *DocumentClassifier) ClassifyDocument(ctx context.Context, recordID, text string) (documentResult, error) {
	result := documentResult{RecordID: recordID}

	if strings.TrimSpace(text) == "" {
		for _, category := range domain.Taxonomy() {
			result.Gaps = append(result.Gaps, absentGaps(category, recordID)...)
		}
		return result, nil
	}

	for _, category := range domain.Taxonomy() {
		if err := ctx.Err(); err != nil {
			return documentResult{}, err
		}

		extraction, err := c.classifyCategory(ctx, text, category)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return documentResult{}, err
			}
			result.Failures = append(result.Failures, domain.CategoryFailure{
				DocumentID:  recordID,
				CategoryKey: category.Key,
				Kind:        failureKind(err),
				Reason:      err.Error(),
			})
			continue
		}

		now := time.Now().UTC()
		for _, f := range extraction.Findings {
			result.Findings = append(result.Findings, domain.Finding{
				CategoryKey:       category.Key,
				Question:          f.Question,
				Statement:         f.Statement,
				SourceDocumentIDs: []string{recordID},
				Confidence:        f.Confidence,
				ExtractedAt:       now,
			})
		}
		for _, g := range extraction.Gaps {
			rationale := strings.TrimSpace(g.Rationale)
			if rationale == "" {
				rationale = rationaleNotAddressed
			}
			result.Gaps = append(result.Gaps, domain.Gap{
				CategoryKey:             category.Key,
				MissingQuestion:         g.Question,
				Rationale:               rationale,
				ContributingDocumentIDs: []string{recordID},
			})
		}
	}
	return result, nil
}

func (c *DocumentClassifier) classifyCategory(ctx context.Context, text string, category domain.Category) (domain.CategoryExtraction, error) {
	// Rate limit against the parent context so a cancelled run never waits
	// for a token; the per-call timeout covers only the capability call.
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.CategoryExtraction{}, context.Canceled
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.classifier.ClassifyCategory(callCtx, text, category)
}

func absentGaps(category domain.Category, recordID string) []domain.Gap {
	gaps := make([]domain.Gap, 0, len(category.Questions))
	for _, q := range category.Questions {
		gaps = append(gaps, domain.Gap{
			CategoryKey:             category.Key,
			MissingQuestion:         q.Text,
			Rationale:               rationaleNotAddressed,
			ContributingDocumentIDs: []string{recordID},
		})
	}
	return gaps
}

func failureKind(err error) domain.FailureKind {
	switch {
	case domain.IsKind(err, domain.ErrMalformedExtraction):
		return domain.FailureMalformed
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureTimeout
	default:
		return domain.FailureCall
	}
}
