package ollama

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// parseExtraction enforces the {findings, gaps} contract. Anything that does
// not decode into exactly that shape, or carries empty required fields, is
// rejected; the caller records it as a malformed extraction for the
// (document, category) pair.
func parseExtraction(raw string, category domain.Category) (domain.CategoryExtraction, error) {
	payload := extractJSONObject(raw)

	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.DisallowUnknownFields()

	var wire struct {
		Findings []struct {
			Question   string  `json:"question"`
			Statement  string  `json:"statement"`
			Confidence float64 `json:"confidence"`
		} `json:"findings"`
		Gaps []struct {
			Question  string `json:"question"`
			Rationale string `json:"rationale"`
		} `json:"gaps"`
	}
	if err := decoder.Decode(&wire); err != nil {
		return domain.CategoryExtraction{}, fmt.Errorf("decode response: %w", err)
	}

	out := domain.CategoryExtraction{
		Findings: make([]domain.ExtractedFinding, 0, len(wire.Findings)),
		Gaps:     make([]domain.ExtractedGap, 0, len(wire.Gaps)),
	}
	for i, f := range wire.Findings {
		if strings.TrimSpace(f.Statement) == "" {
			return domain.CategoryExtraction{}, fmt.Errorf("finding %d: empty statement", i)
		}
		out.Findings = append(out.Findings, domain.ExtractedFinding{
			Question:   strings.TrimSpace(f.Question),
			Statement:  strings.TrimSpace(f.Statement),
			Confidence: clamp01(f.Confidence),
		})
	}
	for i, g := range wire.Gaps {
		question := strings.TrimSpace(g.Question)
		if question == "" {
			return domain.CategoryExtraction{}, fmt.Errorf("gap %d: empty question", i)
		}
		if category.QuestionOrdinal(question) == len(category.Questions) {
			return domain.CategoryExtraction{}, fmt.Errorf("gap %d: question not canonical for %s", i, category.Key)
		}
		out.Gaps = append(out.Gaps, domain.ExtractedGap{
			Question:  question,
			Rationale: strings.TrimSpace(g.Rationale),
		})
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
