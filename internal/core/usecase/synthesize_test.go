package usecase

import (
	"math"
	"strings"
	"testing"

	"github.com/martinHW299/crewai/internal/core/domain"
)

func TestSynthesizeCountsGapTiers(t *testing.T) {
	s := NewSynthesizer(DefaultParams())
	report := s.Synthesize(synthesisInput{
		RunID:  "run-1",
		RootID: "root-1",
		Gaps: []domain.PrioritizedGap{
			{Priority: domain.PriorityCritical},
			{Priority: domain.PriorityCritical},
			{Priority: domain.PriorityHigh},
			{Priority: domain.PriorityMedium},
		},
	})

	if report.Summary.CriticalGaps != 2 || report.Summary.HighGaps != 1 || report.Summary.MediumGaps != 1 {
		t.Fatalf("tier counts = %+v", report.Summary)
	}
	if report.RunID != "run-1" || report.RootID != "root-1" {
		t.Fatalf("identity fields lost: %+v", report)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatalf("GeneratedAt not set")
	}
}

func TestSynthesizeAggregateCompletenessIsWeighted(t *testing.T) {
	s := NewSynthesizer(DefaultParams())

	var summaries []domain.CategorySummary
	for _, c := range domain.Taxonomy() {
		score := 0.0
		if c.Key == "business_context" {
			score = 1.0
		}
		summaries = append(summaries, domain.CategorySummary{CategoryKey: c.Key, CompletenessScore: score})
	}

	report := s.Synthesize(synthesisInput{Summaries: summaries})

	var totalWeight float64
	for _, c := range domain.Taxonomy() {
		totalWeight += c.Weight
	}
	want := 1.0 / totalWeight // only business_context contributes, weight 1.0
	if math.Abs(report.Summary.AggregateCompleteness-want) > 1e-9 {
		t.Fatalf("aggregate = %v, want %v", report.Summary.AggregateCompleteness, want)
	}
}

func TestSynthesizeCountsConflicts(t *testing.T) {
	s := NewSynthesizer(DefaultParams())
	report := s.Synthesize(synthesisInput{
		Summaries: []domain.CategorySummary{
			{CategoryKey: "budget", Conflicts: []domain.Conflict{{}, {}}},
			{CategoryKey: "timeline", Conflicts: []domain.Conflict{{}}},
		},
	})
	if report.Summary.ConflictCount != 3 {
		t.Fatalf("ConflictCount = %d, want 3", report.Summary.ConflictCount)
	}
}

func TestSynthesizeRecommendedActions(t *testing.T) {
	s := NewSynthesizer(DefaultParams())
	report := s.Synthesize(synthesisInput{
		Gaps: []domain.PrioritizedGap{
			{Gap: domain.Gap{CategoryKey: "budget", MissingQuestion: "What is the total budget available for the project?"}, Priority: domain.PriorityCritical},
			{Gap: domain.Gap{CategoryKey: "budget", MissingQuestion: "What payment model is expected (fixed price, T&M, milestones)?"}, Priority: domain.PriorityCritical},
			{Gap: domain.Gap{CategoryKey: "operations", MissingQuestion: "Who operates the system after go-live?"}, Priority: domain.PriorityHigh},
		},
		Summaries: []domain.CategorySummary{
			{CategoryKey: "timeline", Conflicts: []domain.Conflict{{}}},
		},
	})

	// One action per (tier, category) group plus one for the conflict.
	if len(report.RecommendedActions) != 3 {
		t.Fatalf("actions = %d, want 3: %+v", len(report.RecommendedActions), report.RecommendedActions)
	}
	first := report.RecommendedActions[0]
	if first.Priority != domain.PriorityCritical {
		t.Errorf("first action priority = %s, want critical", first.Priority)
	}
	if !strings.Contains(first.Action, "2 open Budget & Commercial Parameters questions") {
		t.Errorf("first action does not group the budget gaps: %q", first.Action)
	}
	if !strings.Contains(first.Action, "What is the total budget available for the project?") {
		t.Errorf("first action does not name the leading question: %q", first.Action)
	}
	if !strings.Contains(report.RecommendedActions[1].Action, "Operations & Support") {
		t.Errorf("second action should target operations: %q", report.RecommendedActions[1].Action)
	}
	last := report.RecommendedActions[2]
	if last.Priority != domain.PriorityCritical || !strings.Contains(last.Action, "1 conflicting statement") {
		t.Errorf("conflict action = %+v", last)
	}
}

func TestSynthesizeRecommendedActionsEmptyWhenComplete(t *testing.T) {
	s := NewSynthesizer(DefaultParams())
	report := s.Synthesize(synthesisInput{
		Summaries: []domain.CategorySummary{{CategoryKey: "budget", CompletenessScore: 1.0}},
	})
	if len(report.RecommendedActions) != 0 {
		t.Fatalf("actions for a complete run = %+v", report.RecommendedActions)
	}
	if len(report.EngagementPlan) != 0 {
		t.Fatalf("engagement plan for a complete run = %+v", report.EngagementPlan)
	}
}

func TestSynthesizeEngagementPlan(t *testing.T) {
	s := NewSynthesizer(DefaultParams())
	report := s.Synthesize(synthesisInput{
		Summaries: []domain.CategorySummary{
			// Foundational with open questions: needs a session.
			{CategoryKey: "budget", Gaps: []domain.Gap{
				{CategoryKey: "budget", MissingQuestion: "What is the total budget available for the project?"},
			}},
			// Non-foundational with open questions: no session.
			{CategoryKey: "team", Gaps: []domain.Gap{
				{CategoryKey: "team", MissingQuestion: "What roles are expected on the delivery team?"},
			}},
			// Conflicts need a session regardless of foundational status.
			{CategoryKey: "operations", Conflicts: []domain.Conflict{{}, {}}},
		},
	})

	if len(report.EngagementPlan) != 2 {
		t.Fatalf("engagement plan = %+v, want budget gaps + operations conflicts", report.EngagementPlan)
	}
	budget := report.EngagementPlan[0]
	if budget.CategoryKey != "budget" || !strings.Contains(budget.Reason, "1 canonical question unanswered") {
		t.Errorf("budget item = %+v", budget)
	}
	ops := report.EngagementPlan[1]
	if ops.CategoryKey != "operations" || !strings.Contains(ops.Reason, "2 conflicts") {
		t.Errorf("operations item = %+v", ops)
	}
}

func TestSynthesizeWeightOverrides(t *testing.T) {
	params := DefaultParams()
	params.WeightOverrides = map[string]float64{"legal": 1.0}
	s := NewSynthesizer(params)

	summaries := []domain.CategorySummary{
		{CategoryKey: "legal", CompletenessScore: 1.0},
		{CategoryKey: "operations", CompletenessScore: 0.0},
	}
	report := s.Synthesize(synthesisInput{Summaries: summaries})
	want := 1.0 / (1.0 + 0.6) // legal overridden to 1.0, operations keeps 0.6
	if math.Abs(report.Summary.AggregateCompleteness-want) > 1e-9 {
		t.Fatalf("aggregate = %v, want %v", report.Summary.AggregateCompleteness, want)
	}
}
