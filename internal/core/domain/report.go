package domain

import "time"

// ProcessingStats summarises the traversal and extraction phase of a run.
type ProcessingStats struct {
	TotalDocuments int      `json:"total_documents"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	NotProcessed   int      `json:"not_processed"`
	ExtractedChars int64    `json:"extracted_chars"`
	FileTypes      []string `json:"file_types"`
}

// ReportSummary is the executive-summary block of a report.
type ReportSummary struct {
	AggregateCompleteness float64 `json:"aggregate_completeness"`
	CriticalGaps          int     `json:"critical_gaps"`
	HighGaps              int     `json:"high_gaps"`
	MediumGaps            int     `json:"medium_gaps"`
	ConflictCount         int     `json:"conflict_count"`
}

// RecommendedAction is one concrete next step derived from the prioritized
// gaps. Deterministic: identical gap tiers always yield identical actions.
type RecommendedAction struct {
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
}

// EngagementItem is one entry of the stakeholder engagement plan: a category
// whose open questions or conflicting statements need a stakeholder session.
type EngagementItem struct {
	CategoryKey string `json:"category_key"`
	Topic       string `json:"topic"`
	Reason      string `json:"reason"`
}

// Report is the complete structured output of one analysis run. Categories
// always holds all fifteen summaries in ordinal order, regardless of how many
// documents succeeded.
type Report struct {
	RunID              string              `json:"run_id"`
	RootID             string              `json:"root_id"`
	GeneratedAt        time.Time           `json:"generated_at"`
	Cancelled          bool                `json:"cancelled"`
	Summary            ReportSummary       `json:"summary"`
	Categories         []CategorySummary   `json:"categories"`
	PrioritizedGaps    []PrioritizedGap    `json:"prioritized_gaps"`
	RecommendedActions []RecommendedAction `json:"recommended_actions"`
	EngagementPlan     []EngagementItem    `json:"engagement_plan"`
	Inventory          []DocumentRecord    `json:"inventory"`
	Failures           []CategoryFailure   `json:"classification_failures"`
	Stats              ProcessingStats     `json:"stats"`
}
