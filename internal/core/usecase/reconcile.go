package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// Reconciler aggregates per-document findings and gaps into one
// CategorySummary per category: duplicates collapse with source-id union,
// same-question contradictions are surfaced as conflicts (never resolved),
// and the completeness score counts answered canonical questions. Documents
// that failed extraction contributed nothing upstream and cannot lower a
// score here.
type Reconciler struct {
	similarity float64
}

func NewReconciler(params AnalysisParams) *Reconciler {
	return &Reconciler{similarity: params.normalize().DedupSimilarity}
}

// Reconcile always returns all fifteen summaries in ordinal order, even when
// no document contributed to a category.
func (r *Reconciler) Reconcile(results []documentResult) []domain.CategorySummary {
	summaries := make([]domain.CategorySummary, 0, len(domain.Taxonomy()))
	for _, category := range domain.Taxonomy() {
		summaries = append(summaries, r.reconcileCategory(category, results))
	}
	return summaries
}

func (r *Reconciler) reconcileCategory(category domain.Category, results []documentResult) domain.CategorySummary {
	findings := r.mergeFindings(category.Key, results)
	answered := answeredQuestions(category, findings)
	gaps := r.mergeGaps(category, results, answered)
	conflicts := r.detectConflicts(category, findings)

	score := 0.0
	if len(category.Questions) > 0 {
		score = float64(len(answered)) / float64(len(category.Questions))
	}

	return domain.CategorySummary{
		CategoryKey:       category.Key,
		Findings:          findings,
		Gaps:              gaps,
		Conflicts:         conflicts,
		CompletenessScore: score,
	}
}

// mergeFindings collapses near-identical statements (case/whitespace/
// punctuation-insensitive exact match) into one finding retaining all
// contributing source ids.
func (r *Reconciler) mergeFindings(categoryKey string, results []documentResult) []domain.Finding {
	merged := make(map[string]*domain.Finding)
	var order []string

	for _, res := range results {
		for _, f := range res.Findings {
			if f.CategoryKey != categoryKey {
				continue
			}
			key := normalizeStatement(f.Statement)
			if key == "" {
				continue
			}
			existing, ok := merged[key]
			if !ok {
				clone := f
				clone.SourceDocumentIDs = append([]string(nil), f.SourceDocumentIDs...)
				merged[key] = &clone
				order = append(order, key)
				continue
			}
			existing.SourceDocumentIDs = uniqueSorted(append(existing.SourceDocumentIDs, f.SourceDocumentIDs...))
			if f.Confidence > existing.Confidence {
				existing.Confidence = f.Confidence
			}
			if existing.Question == "" {
				existing.Question = f.Question
			}
			if f.ExtractedAt.Before(existing.ExtractedAt) {
				existing.ExtractedAt = f.ExtractedAt
			}
		}
	}

	out := make([]domain.Finding, 0, len(order))
	for _, key := range order {
		f := *merged[key]
		f.SourceDocumentIDs = uniqueSorted(f.SourceDocumentIDs)
		out = append(out, f)
	}

	category, _ := domain.CategoryByKey(categoryKey)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := category.QuestionOrdinal(out[i].Question), category.QuestionOrdinal(out[j].Question)
		if oi != oj {
			return oi < oj
		}
		return normalizeStatement(out[i].Statement) < normalizeStatement(out[j].Statement)
	})
	return out
}

// mergeGaps unions contributing document ids for gaps sharing a missing
// question and drops questions answered by a surviving finding or not
// canonical for the category.
func (r *Reconciler) mergeGaps(category domain.Category, results []documentResult, answered map[string]struct{}) []domain.Gap {
	merged := make(map[string]*domain.Gap)

	for _, res := range results {
		for _, g := range res.Gaps {
			if g.CategoryKey != category.Key {
				continue
			}
			if category.QuestionOrdinal(g.MissingQuestion) == len(category.Questions) {
				continue
			}
			if _, ok := answered[g.MissingQuestion]; ok {
				continue
			}
			existing, ok := merged[g.MissingQuestion]
			if !ok {
				clone := g
				clone.ContributingDocumentIDs = append([]string(nil), g.ContributingDocumentIDs...)
				merged[g.MissingQuestion] = &clone
				continue
			}
			existing.ContributingDocumentIDs = uniqueSorted(append(existing.ContributingDocumentIDs, g.ContributingDocumentIDs...))
		}
	}

	out := make([]domain.Gap, 0, len(merged))
	for _, g := range merged {
		g.ContributingDocumentIDs = uniqueSorted(g.ContributingDocumentIDs)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return category.QuestionOrdinal(out[i].MissingQuestion) < category.QuestionOrdinal(out[j].MissingQuestion)
	})
	return out
}

// detectConflicts flags pairs of findings that address the same canonical
// question with diverging numeric values while the surrounding text stays
// similar above the tunable threshold. Conflicts are surfaced alongside both
// findings; neither side is dropped.
func (r *Reconciler) detectConflicts(category domain.Category, findings []domain.Finding) []domain.Conflict {
	byQuestion := make(map[string][]domain.Finding)
	for _, f := range findings {
		if f.Question == "" || category.QuestionOrdinal(f.Question) == len(category.Questions) {
			continue
		}
		byQuestion[f.Question] = append(byQuestion[f.Question], f)
	}

	var conflicts []domain.Conflict
	for _, q := range category.Questions {
		group := byQuestion[q.Text]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if r.mutuallyExclusive(group[i].Statement, group[j].Statement) {
					conflicts = append(conflicts, domain.Conflict{
						Question: q.Text,
						Left:     group[i],
						Right:    group[j],
					})
				}
			}
		}
	}
	return conflicts
}

func (r *Reconciler) mutuallyExclusive(a, b string) bool {
	numsA, restA := splitTokens(a)
	numsB, restB := splitTokens(b)
	if len(numsA) == 0 || len(numsB) == 0 {
		return false
	}
	if equalSets(numsA, numsB) {
		return false
	}
	return jaccard(restA, restB) >= r.similarity
}

func answeredQuestions(category domain.Category, findings []domain.Finding) map[string]struct{} {
	answered := make(map[string]struct{})
	for _, f := range findings {
		if category.QuestionOrdinal(f.Question) < len(category.Questions) {
			answered[f.Question] = struct{}{}
		}
	}
	return answered
}

// normalizeStatement lowercases, strips punctuation and collapses whitespace.
func normalizeStatement(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// splitTokens partitions a normalized statement into numeric tokens (digits
// only, separators stripped) and the remaining words.
func splitTokens(s string) (nums map[string]struct{}, rest map[string]struct{}) {
	nums = make(map[string]struct{})
	rest = make(map[string]struct{})
	for _, tok := range strings.Fields(normalizeStatement(s)) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, tok)
		if digits != "" {
			nums[digits] = struct{}{}
			continue
		}
		rest[tok] = struct{}{}
	}
	return nums, rest
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func equalSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for tok := range a {
		if _, ok := b[tok]; !ok {
			return false
		}
	}
	return true
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
