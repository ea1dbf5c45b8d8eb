package spreadsheet

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Budget"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"Item", "Cost"},
		{"Licenses", 12000},
		{},
		{"Hosting", 800},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Budget", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExtractWorkbook(t *testing.T) {
	e := New()
	got, err := e.Extract(context.Background(), workbookBytes(t), "xlsx")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !strings.Contains(got, "--- sheet: Budget ---") {
		t.Errorf("missing sheet header: %q", got)
	}
	if !strings.Contains(got, "Licenses | 12000") {
		t.Errorf("missing row content: %q", got)
	}
	// Empty rows are dropped, not rendered as separators.
	if strings.Contains(got, "\n\n") {
		t.Errorf("empty row leaked into output: %q", got)
	}
}

func TestExtractRejectsNonWorkbook(t *testing.T) {
	e := New()
	if _, err := e.Extract(context.Background(), []byte("just plain text"), "xlsx"); err == nil {
		t.Fatalf("expected error for non-workbook content")
	}
}
