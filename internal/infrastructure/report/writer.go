package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// Writer renders one analysis run as a markdown report plus a JSON sidecar
// carrying the machine-readable fields for downstream tooling.
type Writer struct {
	outputDir string
	tmpl      *template.Template
}

func NewWriter(outputDir string) (*Writer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct":       formatPercent,
		"title":     categoryTitle,
		"joinIDs":   joinIDs,
		"timestamp": formatTimestamp,
	}).Parse(markdownTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Writer{outputDir: outputDir, tmpl: tmpl}, nil
}

func (w *Writer) WriteReport(ctx context.Context, report *domain.Report) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := fmt.Sprintf("requirements_analysis_%s", report.RunID)

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, templateData(report)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	mdPath := filepath.Join(w.outputDir, base+".md")
	if err := os.WriteFile(mdPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write markdown report: %w", err)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	jsonPath := filepath.Join(w.outputDir, base+".json")
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write json report: %w", err)
	}

	return []string{mdPath, jsonPath}, nil
}

type reportData struct {
	*domain.Report
	CriticalTier []domain.PrioritizedGap
	HighTier     []domain.PrioritizedGap
	MediumTier   []domain.PrioritizedGap
}

func templateData(report *domain.Report) reportData {
	data := reportData{Report: report}
	for _, g := range report.PrioritizedGaps {
		switch g.Priority {
		case domain.PriorityCritical:
			data.CriticalTier = append(data.CriticalTier, g)
		case domain.PriorityHigh:
			data.HighTier = append(data.HighTier, g)
		default:
			data.MediumTier = append(data.MediumTier, g)
		}
	}
	return data
}

func formatPercent(score float64) string {
	return fmt.Sprintf("%.0f%%", score*100)
}

func categoryTitle(key string) string {
	if c, ok := domain.CategoryByKey(key); ok {
		return c.Title
	}
	return key
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

const markdownTemplate = `# Requirements Analysis Report

- **Run:** {{.RunID}}
- **Root container:** {{.RootID}}
- **Generated:** {{timestamp .GeneratedAt}}
{{- if .Cancelled}}
- **Note:** run was cancelled; results below cover only the documents processed before cancellation.
{{- end}}

## Executive Summary

- Aggregate completeness: **{{pct .Summary.AggregateCompleteness}}**
- Critical gaps: **{{.Summary.CriticalGaps}}**
- High-priority gaps: **{{.Summary.HighGaps}}**
- Medium-priority gaps: **{{.Summary.MediumGaps}}**
- Conflicting statements requiring stakeholder resolution: **{{.Summary.ConflictCount}}**

## Category Analysis
{{range .Categories}}
### {{title .CategoryKey}} ({{pct .CompletenessScore}} complete)
{{if .Findings}}
**Findings**
{{range .Findings}}
- {{.Statement}} _(sources: {{joinIDs .SourceDocumentIDs}})_
{{- end}}
{{else}}
_No findings extracted for this category._
{{end}}
{{- if .Gaps}}
**Open questions**
{{range .Gaps}}
- {{.MissingQuestion}} — {{.Rationale}}
{{- end}}
{{end}}
{{- if .Conflicts}}
**Conflicts** (surfaced, not resolved)
{{range .Conflicts}}
- {{.Question}}
  - {{.Left.Statement}} _(sources: {{joinIDs .Left.SourceDocumentIDs}})_
  - {{.Right.Statement}} _(sources: {{joinIDs .Right.SourceDocumentIDs}})_
{{- end}}
{{end}}
{{- end}}
## Gap Analysis by Priority

### Critical
{{if .CriticalTier}}{{range .CriticalTier}}
- **{{title .Gap.CategoryKey}}** — {{.Gap.MissingQuestion}}
  - {{.RiskNarrative}}
{{- end}}
{{else}}
_No critical gaps._
{{end}}
### High
{{if .HighTier}}{{range .HighTier}}
- **{{title .Gap.CategoryKey}}** — {{.Gap.MissingQuestion}}
  - {{.RiskNarrative}}
{{- end}}
{{else}}
_No high-priority gaps._
{{end}}
### Medium
{{if .MediumTier}}{{range .MediumTier}}
- **{{title .Gap.CategoryKey}}** — {{.Gap.MissingQuestion}}
  - {{.RiskNarrative}}
{{- end}}
{{else}}
_No medium-priority gaps._
{{end}}
## Recommended Actions
{{if .RecommendedActions}}{{range .RecommendedActions}}
- **{{.Priority}}** — {{.Action}}
{{- end}}
{{else}}
_No follow-up actions; every canonical question is answered._
{{end}}
## Stakeholder Engagement Plan
{{if .EngagementPlan}}{{range .EngagementPlan}}
- **{{title .CategoryKey}}** — {{.Topic}}: {{.Reason}}
{{- end}}
{{else}}
_No stakeholder sessions required._
{{end}}
## Document Inventory

| Document | Path | Type | Status | Detail |
|---|---|---|---|---|
{{- range .Inventory}}
| {{.DisplayName}} | {{.HierarchyPath}} | {{.FileType}} | {{.Status}} | {{.FailureReason}} |
{{- end}}
{{if .Failures}}
## Classification Failures

| Document | Category | Kind | Reason |
|---|---|---|---|
{{- range .Failures}}
| {{.DocumentID}} | {{title .CategoryKey}} | {{.Kind}} | {{.Reason}} |
{{- end}}
{{end}}
## Processing Statistics

- Documents discovered: {{.Stats.TotalDocuments}}
- Extracted successfully: {{.Stats.Succeeded}}
- Failed: {{.Stats.Failed}}
- Not processed: {{.Stats.NotProcessed}}
- Characters extracted: {{.Stats.ExtractedChars}}
- File types: {{joinIDs .Stats.FileTypes}}
`
