package extractor

import (
	"context"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/core/ports"
	"github.com/martinHW299/crewai/internal/infrastructure/extractor/pdfdoc"
	"github.com/martinHW299/crewai/internal/infrastructure/extractor/plaintext"
	"github.com/martinHW299/crewai/internal/infrastructure/extractor/spreadsheet"
)

// Dispatcher routes content to a per-format extractor by declared type.
// Unknown types fall back to the plain-text extractor, which rejects binary
// content with an ErrExtractionFailed the traversal records per document.
type Dispatcher struct {
	byType   map[string]ports.TextExtractor
	fallback ports.TextExtractor
}

func NewDispatcher() *Dispatcher {
	text := plaintext.New()
	pdf := pdfdoc.New()
	sheet := spreadsheet.New()

	return &Dispatcher{
		byType: map[string]ports.TextExtractor{
			"pdf":  pdf,
			"xlsx": sheet,
			"xlsm": sheet,
			"xls":  sheet,
			"txt":  text,
			"md":   text,
			"csv":  text,
			"json": text,
			"yaml": text,
			"yml":  text,
			"html": text,
			"xml":  text,
		},
		fallback: text,
	}
}

func (d *Dispatcher) Extract(ctx context.Context, content []byte, declaredType string) (string, error) {
	ext, ok := d.byType[declaredType]
	if !ok {
		ext = d.fallback
	}
	text, err := ext.Extract(ctx, content, declaredType)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract "+declaredType, err)
	}
	return text, nil
}
