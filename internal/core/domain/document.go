package domain

import "time"

type ProcessingStatus string

const (
	StatusPending      ProcessingStatus = "pending"
	StatusSuccess      ProcessingStatus = "success"
	StatusFailed       ProcessingStatus = "failed"
	StatusNotProcessed ProcessingStatus = "not_processed"
)

// DocumentRecord is the Source Registry's view of one discovered item.
// Identity is immutable after creation; status only moves from pending to a
// terminal state (success, failed, or not_processed on cancellation).
type DocumentRecord struct {
	ID            string           `json:"id"`
	DisplayName   string           `json:"display_name"`
	FileType      string           `json:"file_type"`
	HierarchyPath string           `json:"hierarchy_path"`
	Size          int64            `json:"size"`
	IsContainer   bool             `json:"is_container"`
	Status        ProcessingStatus `json:"status"`
	FailureReason string           `json:"failure_reason,omitempty"`
	DiscoveredAt  time.Time        `json:"discovered_at"`
}

// StoreItem is one entry returned by the hierarchical document store boundary.
type StoreItem struct {
	ID          string
	Name        string
	FileType    string
	Size        int64
	IsContainer bool
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun is the persisted record of one end-to-end pipeline execution.
type AnalysisRun struct {
	ID                    string    `json:"id"`
	RootID                string    `json:"root_id"`
	Status                RunStatus `json:"status"`
	AggregateCompleteness float64   `json:"aggregate_completeness"`
	Error                 string    `json:"error,omitempty"`
	StartedAt             time.Time `json:"started_at"`
	FinishedAt            time.Time `json:"finished_at"`
}
