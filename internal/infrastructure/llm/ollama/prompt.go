package ollama

import (
	"fmt"
	"strings"

	"github.com/martinHW299/crewai/internal/core/domain"
)

const maxSnippet = 12000

func buildCategoryPrompt(text string, category domain.Category) string {
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	var questions strings.Builder
	for i, q := range category.Questions {
		questions.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Text))
	}

	return fmt.Sprintf(`You are a requirements analyst reviewing one project document against one requirements category.

Category: %s
%s

Canonical questions for this category:
%s
For each question, decide whether THIS document alone answers it.
Return a strict JSON object:
{"findings": [{"question": "<exact question text>", "statement": "<fact stated by the document>", "confidence": <0..1>}],
 "gaps": [{"question": "<exact question text>", "rationale": "<why it is unanswered here>"}]}

Rules:
- Every canonical question appears exactly once, either under findings or under gaps.
- Statements must be facts from the document, not inferences.
- Use the exact question text given above. No markdown, no extra keys.

Document:
%s`, category.Title, category.Description, questions.String(), snippet)
}
