package usecase

import (
	"fmt"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// Synthesizer assembles the final report. Pure function of its inputs; every
// one of the fifteen categories appears even at completeness zero.
type Synthesizer struct {
	params AnalysisParams
}

func NewSynthesizer(params AnalysisParams) *Synthesizer {
	return &Synthesizer{params: params.normalize()}
}

type synthesisInput struct {
	RunID     string
	RootID    string
	Cancelled bool
	Summaries []domain.CategorySummary
	Gaps      []domain.PrioritizedGap
	Inventory []domain.DocumentRecord
	Failures  []domain.CategoryFailure
	Stats     domain.ProcessingStats
}

func (s *Synthesizer) Synthesize(in synthesisInput) *domain.Report {
	summary := domain.ReportSummary{
		AggregateCompleteness: s.aggregateCompleteness(in.Summaries),
	}
	for _, g := range in.Gaps {
		switch g.Priority {
		case domain.PriorityCritical:
			summary.CriticalGaps++
		case domain.PriorityHigh:
			summary.HighGaps++
		default:
			summary.MediumGaps++
		}
	}
	for _, cs := range in.Summaries {
		summary.ConflictCount += len(cs.Conflicts)
	}

	return &domain.Report{
		RunID:              in.RunID,
		RootID:             in.RootID,
		GeneratedAt:        time.Now().UTC(),
		Cancelled:          in.Cancelled,
		Summary:            summary,
		Categories:         in.Summaries,
		PrioritizedGaps:    in.Gaps,
		RecommendedActions: recommendedActions(in.Gaps, summary.ConflictCount),
		EngagementPlan:     engagementPlan(in.Summaries),
		Inventory:          in.Inventory,
		Failures:           in.Failures,
		Stats:              in.Stats,
	}
}

// aggregateCompleteness is the criticality-weighted mean of category scores.
func (s *Synthesizer) aggregateCompleteness(summaries []domain.CategorySummary) float64 {
	var weighted, total float64
	for _, cs := range summaries {
		category, ok := domain.CategoryByKey(cs.CategoryKey)
		if !ok {
			continue
		}
		w := s.params.categoryWeight(category.Key, category.Weight)
		weighted += cs.CompletenessScore * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// recommendedActions turns the prioritized gaps into concrete next steps, one
// per (tier, category) group in tier order, plus a closing resolution action
// when conflicting statements were found. Input order is already total, so
// the output is deterministic.
func recommendedActions(gaps []domain.PrioritizedGap, conflictCount int) []domain.RecommendedAction {
	var out []domain.RecommendedAction
	for i := 0; i < len(gaps); {
		j := i
		for j < len(gaps) && gaps[j].Priority == gaps[i].Priority && gaps[j].Gap.CategoryKey == gaps[i].Gap.CategoryKey {
			j++
		}
		category, ok := domain.CategoryByKey(gaps[i].Gap.CategoryKey)
		if ok {
			out = append(out, domain.RecommendedAction{
				Priority: gaps[i].Priority,
				Action:   actionText(gaps[i].Priority, category, j-i, gaps[i].Gap.MissingQuestion),
			})
		}
		i = j
	}
	if conflictCount > 0 {
		noun := "statements"
		if conflictCount == 1 {
			noun = "statement"
		}
		out = append(out, domain.RecommendedAction{
			Priority: domain.PriorityCritical,
			Action: fmt.Sprintf(
				"Resolve %d conflicting %s with the document owners; figures in conflict must not drive planning until one version is confirmed.",
				conflictCount, noun,
			),
		})
	}
	return out
}

func actionText(p domain.Priority, category domain.Category, count int, first string) string {
	noun := "questions"
	if count == 1 {
		noun = "question"
	}
	switch p {
	case domain.PriorityCritical:
		return fmt.Sprintf(
			"Close %d open %s %s before committing scope, budget or dates; start with %q.",
			count, category.Title, noun, first,
		)
	case domain.PriorityHigh:
		return fmt.Sprintf(
			"Schedule follow-up discovery on %s to answer %d remaining %s.",
			category.Title, count, noun,
		)
	default:
		return fmt.Sprintf(
			"Confirm %s details during detailed planning (%d open %s).",
			category.Title, count, noun,
		)
	}
}

// engagementPlan names the stakeholder sessions a run calls for: one per
// foundational category with open questions, one per category with
// conflicting statements. Summaries arrive in ordinal order.
func engagementPlan(summaries []domain.CategorySummary) []domain.EngagementItem {
	var out []domain.EngagementItem
	for _, cs := range summaries {
		category, ok := domain.CategoryByKey(cs.CategoryKey)
		if !ok {
			continue
		}
		if category.Foundational && len(cs.Gaps) > 0 {
			noun := "questions"
			if len(cs.Gaps) == 1 {
				noun = "question"
			}
			out = append(out, domain.EngagementItem{
				CategoryKey: cs.CategoryKey,
				Topic:       fmt.Sprintf("Open %s %s", category.Title, noun),
				Reason: fmt.Sprintf(
					"%d canonical %s unanswered in a foundational category; a working session with its owners is needed before the project can be scoped.",
					len(cs.Gaps), noun,
				),
			})
		}
		if len(cs.Conflicts) > 0 {
			noun := "conflicts"
			if len(cs.Conflicts) == 1 {
				noun = "conflict"
			}
			out = append(out, domain.EngagementItem{
				CategoryKey: cs.CategoryKey,
				Topic:       fmt.Sprintf("Conflicting %s statements", category.Title),
				Reason: fmt.Sprintf(
					"%d %s between source documents need an owner decision; both versions are preserved in the category analysis.",
					len(cs.Conflicts), noun,
				),
			})
		}
	}
	return out
}
