package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extractor flattens workbook content to text: every sheet, rows joined with
// a column separator, empty rows dropped.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, content []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		b.WriteString(fmt.Sprintf("--- sheet: %s ---\n", sheet))
		for _, row := range rows {
			if rowEmpty(row) {
				continue
			}
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
