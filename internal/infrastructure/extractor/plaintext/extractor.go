package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Binary sniff: reject content whose prefix carries NUL bytes or is mostly
// invalid UTF-8 instead of emitting mojibake findings downstream.
const sniffLen = 1024

// Extractor handles text-based formats (txt, md, csv, json, source files).
// Content with a broken encoding is salvaged lossily when mostly valid.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, content []byte, declaredType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", nil
	}

	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	if bytes.IndexByte(sniff, 0x00) >= 0 {
		return "", fmt.Errorf("binary content declared as %s", declaredType)
	}

	if utf8.Valid(content) {
		return strings.TrimSpace(string(content)), nil
	}
	if invalidRatio(sniff) > 0.2 {
		return "", fmt.Errorf("undecodable content declared as %s", declaredType)
	}
	salvaged := bytes.ToValidUTF8(content, []byte("�"))
	return strings.TrimSpace(string(salvaged)), nil
}

func invalidRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 0
	}
	invalid := 0
	for i := 0; i < len(sample); {
		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		i += size
	}
	return float64(invalid) / float64(len(sample))
}
