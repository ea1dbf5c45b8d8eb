package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
)

type fakeCategoryClassifier struct {
	calls    int
	byKey    map[string]domain.CategoryExtraction
	errByKey map[string]error
}

func (c *fakeCategoryClassifier) ClassifyCategory(_ context.Context, _ string, category domain.Category) (domain.CategoryExtraction, error) {
	c.calls++
	if err := c.errByKey[category.Key]; err != nil {
		return domain.CategoryExtraction{}, err
	}
	return c.byKey[category.Key], nil
}

func TestClassifyDocumentVisitsEveryCategory(t *testing.T) {
	fake := &fakeCategoryClassifier{byKey: map[string]domain.CategoryExtraction{}}
	dc := NewDocumentClassifier(fake, time.Second, nil)

	_, err := dc.ClassifyDocument(context.Background(), "doc-1", "project brief text")
	if err != nil {
		t.Fatalf("ClassifyDocument() error = %v", err)
	}
	if fake.calls != len(domain.Taxonomy()) {
		t.Fatalf("calls = %d, want one per category (%d)", fake.calls, len(domain.Taxonomy()))
	}
}

func TestClassifyDocumentEmptyTextSkipsCapability(t *testing.T) {
	fake := &fakeCategoryClassifier{}
	dc := NewDocumentClassifier(fake, time.Second, nil)

	result, err := dc.ClassifyDocument(context.Background(), "doc-1", "   \n ")
	if err != nil {
		t.Fatalf("ClassifyDocument() error = %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("empty document must not call the capability, got %d calls", fake.calls)
	}
	if len(result.Gaps) != domain.TotalQuestions() {
		t.Fatalf("gaps = %d, want one per canonical question (%d)", len(result.Gaps), domain.TotalQuestions())
	}
	for _, g := range result.Gaps {
		if g.Rationale != "not addressed in this source" {
			t.Fatalf("rationale = %q", g.Rationale)
		}
	}
}

func TestClassifyDocumentIsolatesCategoryFailures(t *testing.T) {
	fake := &fakeCategoryClassifier{
		byKey: map[string]domain.CategoryExtraction{
			"business_context": {
				Findings: []domain.ExtractedFinding{{
					Question:  "What business problem does this project solve?",
					Statement: "Replace the legacy intake portal.",
				}},
			},
		},
		errByKey: map[string]error{
			"timeline": domain.WrapError(domain.ErrMalformedExtraction, "classify timeline", errors.New("bad json")),
			"budget":   context.DeadlineExceeded,
		},
	}
	dc := NewDocumentClassifier(fake, time.Second, nil)

	result, err := dc.ClassifyDocument(context.Background(), "doc-1", "text")
	if err != nil {
		t.Fatalf("ClassifyDocument() error = %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(result.Findings))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(result.Failures))
	}

	kinds := make(map[string]domain.FailureKind)
	for _, f := range result.Failures {
		kinds[f.CategoryKey] = f.Kind
		if f.Reason == "" {
			t.Errorf("failure for %s missing reason", f.CategoryKey)
		}
	}
	if kinds["timeline"] != domain.FailureMalformed {
		t.Errorf("timeline kind = %s, want malformed_extraction", kinds["timeline"])
	}
	if kinds["budget"] != domain.FailureTimeout {
		t.Errorf("budget kind = %s, want timeout", kinds["budget"])
	}
}

func TestClassifyDocumentCancellationAbortsDocument(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCategoryClassifier{}
	dc := NewDocumentClassifier(fake, time.Second, nil)

	_, err := dc.ClassifyDocument(ctx, "doc-1", "text")
	if err == nil {
		t.Fatalf("expected error on cancelled context")
	}
	if fake.calls != 0 {
		t.Fatalf("cancelled document must not issue calls, got %d", fake.calls)
	}
}

func TestClassifyDocumentFillsBlankGapRationale(t *testing.T) {
	fake := &fakeCategoryClassifier{
		byKey: map[string]domain.CategoryExtraction{
			"legal": {
				Gaps: []domain.ExtractedGap{{
					Question: "Who owns the intellectual property of the deliverables?",
				}},
			},
		},
	}
	dc := NewDocumentClassifier(fake, time.Second, nil)

	result, err := dc.ClassifyDocument(context.Background(), "doc-1", "text")
	if err != nil {
		t.Fatalf("ClassifyDocument() error = %v", err)
	}
	for _, g := range result.Gaps {
		if g.CategoryKey == "legal" && g.Rationale == "" {
			t.Fatalf("blank rationale must default")
		}
	}
}
