package report

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
)

func sampleReport() *domain.Report {
	var categories []domain.CategorySummary
	for _, c := range domain.Taxonomy() {
		categories = append(categories, domain.CategorySummary{CategoryKey: c.Key})
	}
	categories[0].Findings = []domain.Finding{{
		CategoryKey:       "business_context",
		Statement:         "Replace the legacy intake portal.",
		SourceDocumentIDs: []string{"doc-1"},
	}}
	categories[0].CompletenessScore = 0.2

	return &domain.Report{
		RunID:       "run-42",
		RootID:      "root-1",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Summary: domain.ReportSummary{
			AggregateCompleteness: 0.35,
			CriticalGaps:          2,
		},
		Categories: categories,
		PrioritizedGaps: []domain.PrioritizedGap{{
			Gap: domain.Gap{
				CategoryKey:             "budget",
				MissingQuestion:         "What is the total budget available for the project?",
				Rationale:               "not addressed in this source",
				ContributingDocumentIDs: []string{"doc-1"},
			},
			Priority:      domain.PriorityCritical,
			RiskNarrative: "budget unknown",
		}},
		RecommendedActions: []domain.RecommendedAction{{
			Priority: domain.PriorityCritical,
			Action:   "Close 1 open Budget & Commercial Parameters question before committing scope, budget or dates.",
		}},
		EngagementPlan: []domain.EngagementItem{{
			CategoryKey: "budget",
			Topic:       "Open Budget & Commercial Parameters question",
			Reason:      "1 canonical question unanswered in a foundational category.",
		}},
		Inventory: []domain.DocumentRecord{{
			ID: "doc-1", DisplayName: "brief.txt", FileType: "txt",
			HierarchyPath: "brief.txt", Status: domain.StatusSuccess,
		}},
		Stats: domain.ProcessingStats{TotalDocuments: 1, Succeeded: 1, FileTypes: []string{"txt"}},
	}
}

func TestWriteReportProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	paths, err := w.WriteReport(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want markdown and json", paths)
	}

	md, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	text := string(md)

	// Every category section appears, even at completeness zero.
	for _, c := range domain.Taxonomy() {
		if !strings.Contains(text, c.Title) {
			t.Errorf("markdown missing category section %q", c.Title)
		}
	}
	for _, want := range []string{
		"run-42",
		"Executive Summary",
		"Replace the legacy intake portal.",
		"What is the total budget available for the project?",
		"brief.txt",
		"## Recommended Actions",
		"Close 1 open Budget & Commercial Parameters question",
		"## Stakeholder Engagement Plan",
		"1 canonical question unanswered in a foundational category.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	raw, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded domain.Report
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json sidecar invalid: %v", err)
	}
	if decoded.RunID != "run-42" || len(decoded.Categories) != len(domain.Taxonomy()) {
		t.Fatalf("json sidecar lost data: run=%s categories=%d", decoded.RunID, len(decoded.Categories))
	}
	if len(decoded.RecommendedActions) != 1 || len(decoded.EngagementPlan) != 1 {
		t.Fatalf("json sidecar lost actions/plan: %+v %+v", decoded.RecommendedActions, decoded.EngagementPlan)
	}
}

func TestWriteReportCancelledContext(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.WriteReport(ctx, sampleReport()); err == nil {
		t.Fatalf("expected context error")
	}
}
