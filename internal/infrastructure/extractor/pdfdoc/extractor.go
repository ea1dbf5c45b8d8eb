package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of PDF content, page by page. A page that
// fails to decode is skipped with a marker so one corrupt page never loses
// the rest of the document.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, content []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := reader.NumPage()
	extracted := 0
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			b.WriteString(fmt.Sprintf("[page %d unreadable]\n", num))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("no extractable text in %d pdf pages", total)
	}
	return strings.TrimSpace(b.String()), nil
}
