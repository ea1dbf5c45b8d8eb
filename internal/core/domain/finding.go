package domain

import "time"

// Finding is an attributed fact extracted from source documents for one
// category. The classifier emits findings citing a single document; the
// reconciler merges duplicates and unions their source ids.
type Finding struct {
	CategoryKey       string    `json:"category_key"`
	Question          string    `json:"question,omitempty"`
	Statement         string    `json:"statement"`
	SourceDocumentIDs []string  `json:"source_document_ids"`
	Confidence        float64   `json:"confidence,omitempty"`
	ExtractedAt       time.Time `json:"extracted_at"`
}

// Gap is a canonical question left unanswered by one or more documents.
type Gap struct {
	CategoryKey             string   `json:"category_key"`
	MissingQuestion         string   `json:"missing_question"`
	Rationale               string   `json:"rationale"`
	ContributingDocumentIDs []string `json:"contributing_document_ids"`
}

// Conflict is a pair of findings that answer the same canonical question
// with mutually exclusive statements. Conflicts are surfaced, never resolved.
type Conflict struct {
	Question string  `json:"question"`
	Left     Finding `json:"left"`
	Right    Finding `json:"right"`
}

// CategorySummary is the reconciled cross-document view of one category.
type CategorySummary struct {
	CategoryKey       string     `json:"category_key"`
	Findings          []Finding  `json:"findings"`
	Gaps              []Gap      `json:"gaps"`
	Conflicts         []Conflict `json:"conflicts"`
	CompletenessScore float64    `json:"completeness_score"`
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// PrioritizedGap is a reconciled gap assigned to a priority tier.
// Read-only after creation.
type PrioritizedGap struct {
	Gap           Gap      `json:"gap"`
	Priority      Priority `json:"priority"`
	RiskNarrative string   `json:"risk_narrative"`
}

type FailureKind string

const (
	FailureMalformed FailureKind = "malformed_extraction"
	FailureTimeout   FailureKind = "timeout"
	FailureCall      FailureKind = "call_error"
)

// CategoryFailure records a classification call that produced no usable
// contribution for one (document, category) pair. Distinct from a gap: the
// question was never asked of this source, not answered "missing".
type CategoryFailure struct {
	DocumentID  string      `json:"document_id"`
	CategoryKey string      `json:"category_key"`
	Kind        FailureKind `json:"kind"`
	Reason      string      `json:"reason"`
}

// CategoryExtraction is the validated wire shape of one classification call.
type CategoryExtraction struct {
	Findings []ExtractedFinding `json:"findings"`
	Gaps     []ExtractedGap     `json:"gaps"`
}

type ExtractedFinding struct {
	Question   string  `json:"question"`
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
}

type ExtractedGap struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}
