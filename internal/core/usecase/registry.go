package usecase

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// SourceRegistry tracks every item the traversal discovers and owns the
// DocumentRecord lifecycle. Insertion and status transitions are safe under
// concurrent writers; records only move pending -> success/failed, or
// pending -> not_processed when a run is cancelled.
type SourceRegistry struct {
	mu      sync.Mutex
	order   []string
	records map[string]*domain.DocumentRecord
}

func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{records: make(map[string]*domain.DocumentRecord)}
}

// Register creates a pending record for a discovered item and returns its
// stable id used for provenance citations.
func (r *SourceRegistry) Register(item domain.StoreItem, hierarchyPath string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.order = append(r.order, id)
	r.records[id] = &domain.DocumentRecord{
		ID:            id,
		DisplayName:   item.Name,
		FileType:      item.FileType,
		HierarchyPath: hierarchyPath,
		Size:          item.Size,
		IsContainer:   item.IsContainer,
		Status:        domain.StatusPending,
		DiscoveredAt:  time.Now().UTC(),
	}
	return id
}

func (r *SourceRegistry) MarkSuccess(id string) error {
	return r.transition(id, domain.StatusSuccess, "")
}

func (r *SourceRegistry) MarkFailed(id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = "unspecified failure"
	}
	return r.transition(id, domain.StatusFailed, reason)
}

// MarkRemainingNotProcessed moves every still-pending record to
// not_processed. Used at the cancellation barrier; failed and succeeded
// records are untouched.
func (r *SourceRegistry) MarkRemainingNotProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Status == domain.StatusPending {
			rec.Status = domain.StatusNotProcessed
		}
	}
}

func (r *SourceRegistry) transition(id string, status domain.ProcessingStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "registry transition", fmt.Errorf("unknown record %s", id))
	}
	if rec.Status != domain.StatusPending {
		return domain.WrapError(domain.ErrInvalidInput, "registry transition",
			fmt.Errorf("record %s already terminal (%s)", id, rec.Status))
	}
	rec.Status = status
	rec.FailureReason = reason
	return nil
}

// Snapshot returns all records in discovery order.
func (r *SourceRegistry) Snapshot() []domain.DocumentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.DocumentRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.records[id])
	}
	return out
}

// Stats aggregates the inventory for the run summary. extractedChars is
// accumulated by the caller because the registry never sees document text.
func (r *SourceRegistry) Stats(extractedChars int64) domain.ProcessingStats {
	records := r.Snapshot()

	stats := domain.ProcessingStats{ExtractedChars: extractedChars}
	types := make(map[string]struct{})
	for _, rec := range records {
		if rec.IsContainer {
			continue
		}
		stats.TotalDocuments++
		types[rec.FileType] = struct{}{}
		switch rec.Status {
		case domain.StatusSuccess:
			stats.Succeeded++
		case domain.StatusFailed:
			stats.Failed++
		case domain.StatusNotProcessed:
			stats.NotProcessed++
		}
	}
	stats.FileTypes = make([]string, 0, len(types))
	for t := range types {
		stats.FileTypes = append(stats.FileTypes, t)
	}
	sort.Strings(stats.FileTypes)
	return stats
}
