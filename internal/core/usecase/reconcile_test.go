package usecase

import (
	"testing"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
)

func businessQuestions(t *testing.T) []domain.CanonicalQuestion {
	t.Helper()
	c, ok := domain.CategoryByKey("business_context")
	if !ok {
		t.Fatalf("business_context missing from taxonomy")
	}
	return c.Questions
}

func finding(docID, question, statement string) domain.Finding {
	return domain.Finding{
		CategoryKey:       "business_context",
		Question:          question,
		Statement:         statement,
		SourceDocumentIDs: []string{docID},
		ExtractedAt:       time.Now().UTC(),
	}
}

func TestReconcileAlwaysReturnsAllCategories(t *testing.T) {
	r := NewReconciler(DefaultParams())

	summaries := r.Reconcile(nil)
	if len(summaries) != len(domain.Taxonomy()) {
		t.Fatalf("summaries = %d, want %d", len(summaries), len(domain.Taxonomy()))
	}
	for i, s := range summaries {
		if s.CategoryKey != domain.Taxonomy()[i].Key {
			t.Errorf("summary %d key = %s, want ordinal order", i, s.CategoryKey)
		}
		if s.CompletenessScore != 0 {
			t.Errorf("empty run score = %v, want 0", s.CompletenessScore)
		}
	}
}

func TestReconcileTwoDocumentsCoverAllQuestions(t *testing.T) {
	questions := businessQuestions(t)
	r := NewReconciler(DefaultParams())

	var resA, resB documentResult
	resA.RecordID = "doc-a"
	resB.RecordID = "doc-b"
	for i, q := range questions {
		if i < 3 {
			resA.Findings = append(resA.Findings, finding("doc-a", q.Text, "answer to "+q.Text))
		} else {
			resB.Findings = append(resB.Findings, finding("doc-b", q.Text, "answer to "+q.Text))
		}
	}

	summaries := r.Reconcile([]documentResult{resA, resB})
	business := summaries[0]
	if business.CompletenessScore != 1.0 {
		t.Fatalf("score = %v, want 1.0", business.CompletenessScore)
	}
	if len(business.Gaps) != 0 {
		t.Fatalf("gaps = %d, want 0", len(business.Gaps))
	}
}

func TestReconcileDeduplicatesFindings(t *testing.T) {
	q := businessQuestions(t)[0].Text
	r := NewReconciler(DefaultParams())

	results := []documentResult{
		{RecordID: "doc-a", Findings: []domain.Finding{finding("doc-a", q, "Replace the legacy intake portal.")}},
		{RecordID: "doc-b", Findings: []domain.Finding{finding("doc-b", q, "replace the legacy  intake portal")}},
	}

	business := r.Reconcile(results)[0]
	if len(business.Findings) != 1 {
		t.Fatalf("findings = %d, want 1 after dedup", len(business.Findings))
	}
	ids := business.Findings[0].SourceDocumentIDs
	if len(ids) != 2 || ids[0] != "doc-a" || ids[1] != "doc-b" {
		t.Fatalf("source ids = %v, want union of both documents", ids)
	}
}

func TestReconcileMergesGapsAcrossDocuments(t *testing.T) {
	q := businessQuestions(t)[4].Text
	r := NewReconciler(DefaultParams())

	results := []documentResult{
		{RecordID: "doc-a", Gaps: []domain.Gap{{
			CategoryKey: "business_context", MissingQuestion: q,
			Rationale: "not addressed in this source", ContributingDocumentIDs: []string{"doc-a"},
		}}},
		{RecordID: "doc-b", Gaps: []domain.Gap{{
			CategoryKey: "business_context", MissingQuestion: q,
			Rationale: "not addressed in this source", ContributingDocumentIDs: []string{"doc-b"},
		}}},
	}

	business := r.Reconcile(results)[0]
	if len(business.Gaps) != 1 {
		t.Fatalf("gaps = %d, want 1 merged", len(business.Gaps))
	}
	if got := business.Gaps[0].ContributingDocumentIDs; len(got) != 2 {
		t.Fatalf("contributing ids = %v, want both documents", got)
	}
}

func TestReconcileDropsGapAnsweredElsewhere(t *testing.T) {
	q := businessQuestions(t)[0].Text
	r := NewReconciler(DefaultParams())

	results := []documentResult{
		{RecordID: "doc-a", Findings: []domain.Finding{finding("doc-a", q, "The project replaces manual invoicing.")}},
		{RecordID: "doc-b", Gaps: []domain.Gap{{
			CategoryKey: "business_context", MissingQuestion: q,
			Rationale: "not addressed in this source", ContributingDocumentIDs: []string{"doc-b"},
		}}},
	}

	business := r.Reconcile(results)[0]
	for _, g := range business.Gaps {
		if g.MissingQuestion == q {
			t.Fatalf("answered question must not survive as a gap")
		}
	}
}

func TestReconcileDetectsNumericConflict(t *testing.T) {
	q := businessQuestions(t)[1].Text
	r := NewReconciler(DefaultParams())

	results := []documentResult{
		{RecordID: "doc-a", Findings: []domain.Finding{finding("doc-a", q, "Target is 500 orders per day at launch.")}},
		{RecordID: "doc-b", Findings: []domain.Finding{finding("doc-b", q, "Target is 2000 orders per day at launch.")}},
	}

	business := r.Reconcile(results)[0]
	if len(business.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(business.Conflicts))
	}
	conflict := business.Conflicts[0]
	if conflict.Question != q {
		t.Errorf("conflict question = %q", conflict.Question)
	}
	// Both sides stay in the findings list; conflicts are surfaced, not resolved.
	if len(business.Findings) != 2 {
		t.Errorf("findings = %d, want both conflicting statements kept", len(business.Findings))
	}
}

func TestReconcileNoConflictWhenNumbersAgree(t *testing.T) {
	q := businessQuestions(t)[1].Text
	r := NewReconciler(DefaultParams())

	results := []documentResult{
		{RecordID: "doc-a", Findings: []domain.Finding{finding("doc-a", q, "Launch target of 500 orders per day.")}},
		{RecordID: "doc-b", Findings: []domain.Finding{finding("doc-b", q, "Confirmed: 500 orders per day at launch.")}},
	}

	business := r.Reconcile(results)[0]
	if len(business.Conflicts) != 0 {
		t.Fatalf("conflicts = %d, want 0 for agreeing numbers", len(business.Conflicts))
	}
}

func TestReconcileIgnoresDissimilarStatements(t *testing.T) {
	q := businessQuestions(t)[1].Text
	r := NewReconciler(DefaultParams())

	// Different numbers but almost no shared vocabulary: not the same metric.
	results := []documentResult{
		{RecordID: "doc-a", Findings: []domain.Finding{finding("doc-a", q, "Checkout must complete within 3 seconds.")}},
		{RecordID: "doc-b", Findings: []domain.Finding{finding("doc-b", q, "Roughly 40 staff will use the back office daily.")}},
	}

	business := r.Reconcile(results)[0]
	if len(business.Conflicts) != 0 {
		t.Fatalf("conflicts = %d, want 0 for unrelated statements", len(business.Conflicts))
	}
}

func TestNormalizeStatement(t *testing.T) {
	got := normalizeStatement("  The Budget, is   $500K!  ")
	want := "the budget is 500k"
	if got != want {
		t.Fatalf("normalizeStatement = %q, want %q", got, want)
	}
}
