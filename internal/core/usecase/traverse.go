package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/core/ports"
)

// sourceDocument is one successfully extracted leaf, ready for classification.
type sourceDocument struct {
	RecordID string
	Text     string
}

// Traverser walks the hierarchical document store, registers every discovered
// item and extracts leaf content with a single attempt per document. Item and
// container failures are recorded and never abort the traversal of siblings;
// only an empty root is fatal.
type Traverser struct {
	store     ports.DocumentStore
	extractor ports.TextExtractor
	logger    *slog.Logger
}

func NewTraverser(store ports.DocumentStore, extractor ports.TextExtractor, logger *slog.Logger) *Traverser {
	return &Traverser{store: store, extractor: extractor, logger: logger}
}

// Traverse enumerates rootID recursively. Extracted documents stay pending in
// the registry: classification decides their terminal status. Returns the
// extracted set and the total extracted character count.
func (t *Traverser) Traverse(ctx context.Context, rootID string, registry *SourceRegistry) ([]sourceDocument, int64, error) {
	docs, chars := t.walk(ctx, rootID, "", registry)
	if len(docs) == 0 && registry.Stats(0).TotalDocuments == 0 {
		return nil, 0, domain.WrapError(domain.ErrStorageAccess, "traverse root",
			fmt.Errorf("no documents discoverable under %q", rootID))
	}
	return docs, chars, nil
}

func (t *Traverser) walk(ctx context.Context, containerID, hierarchyPath string, registry *SourceRegistry) ([]sourceDocument, int64) {
	children, err := t.store.ListChildren(ctx, containerID)
	if err != nil {
		// Record the unreachable container itself so the failure is
		// attributed in the inventory, then continue with siblings.
		id := registry.Register(domain.StoreItem{
			ID:          containerID,
			Name:        path.Base(containerID),
			FileType:    "folder",
			IsContainer: true,
		}, hierarchyPath)
		_ = registry.MarkFailed(id, fmt.Sprintf("list children: %v", err))
		t.logger.Warn("container_unreachable", "container", containerID, "error", err)
		return nil, 0
	}

	var (
		docs  []sourceDocument
		chars int64
	)
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return docs, chars
		}
		if child.IsContainer {
			sub, subChars := t.walk(ctx, child.ID, path.Join(hierarchyPath, child.Name), registry)
			docs = append(docs, sub...)
			chars += subChars
			continue
		}

		recordID := registry.Register(child, path.Join(hierarchyPath, child.Name))
		text, err := t.extractLeaf(ctx, child)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// Cancellation is not a document failure; the record stays
				// pending and becomes not_processed at the barrier.
				return docs, chars
			}
			// One attempt per document; transient failures are recorded,
			// not retried here (retry policy lives in the extractor).
			_ = registry.MarkFailed(recordID, err.Error())
			t.logger.Warn("document_extraction_failed", "document", child.Name, "error", err)
			continue
		}
		chars += int64(len(text))
		docs = append(docs, sourceDocument{RecordID: recordID, Text: text})
	}
	return docs, chars
}

func (t *Traverser) extractLeaf(ctx context.Context, item domain.StoreItem) (string, error) {
	content, err := t.store.GetContent(ctx, item.ID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrStorageAccess, "get content", err)
	}

	text, err := t.extractor.Extract(ctx, content, item.FileType)
	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionFailed) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}
	return text, nil
}
