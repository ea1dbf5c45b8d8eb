package usecase

import (
	"fmt"
	"sort"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// Prioritizer assigns unresolved gaps to critical/high/medium tiers with a
// deterministic total order: identical summaries and thresholds always yield
// byte-for-byte identical output.
type Prioritizer struct {
	criticalThreshold float64
	highThreshold     float64
}

func NewPrioritizer(params AnalysisParams) *Prioritizer {
	p := params.normalize()
	return &Prioritizer{
		criticalThreshold: p.CriticalThreshold,
		highThreshold:     p.HighThreshold,
	}
}

func (p *Prioritizer) Prioritize(summaries []domain.CategorySummary) []domain.PrioritizedGap {
	var out []domain.PrioritizedGap
	for _, summary := range summaries {
		category, ok := domain.CategoryByKey(summary.CategoryKey)
		if !ok {
			continue
		}
		for _, gap := range summary.Gaps {
			out = append(out, domain.PrioritizedGap{
				Gap:           gap,
				Priority:      p.tier(category, summary.CompletenessScore, gap),
				RiskNarrative: riskNarrative(category, gap),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := tierRank(out[i].Priority), tierRank(out[j].Priority); ri != rj {
			return ri < rj
		}
		ci, _ := domain.CategoryByKey(out[i].Gap.CategoryKey)
		cj, _ := domain.CategoryByKey(out[j].Gap.CategoryKey)
		if ci.Ordinal != cj.Ordinal {
			return ci.Ordinal < cj.Ordinal
		}
		return ci.QuestionOrdinal(out[i].Gap.MissingQuestion) < cj.QuestionOrdinal(out[j].Gap.MissingQuestion)
	})
	return out
}

func (p *Prioritizer) tier(category domain.Category, score float64, gap domain.Gap) domain.Priority {
	if score < p.criticalThreshold {
		return domain.PriorityCritical
	}
	if category.Foundational && category.IsMandatory(gap.MissingQuestion) {
		return domain.PriorityCritical
	}
	if score < p.highThreshold {
		return domain.PriorityHigh
	}
	return domain.PriorityMedium
}

func riskNarrative(category domain.Category, gap domain.Gap) string {
	count := len(gap.ContributingDocumentIDs)
	noun := "documents"
	if count == 1 {
		noun = "document"
	}
	return fmt.Sprintf(
		"%q remains unanswered for %s: %d source %s examined without an answer. Planning decisions depending on it rest on assumption, not evidence.",
		gap.MissingQuestion, category.Title, count, noun,
	)
}

func tierRank(p domain.Priority) int {
	switch p {
	case domain.PriorityCritical:
		return 0
	case domain.PriorityHigh:
		return 1
	default:
		return 2
	}
}
