// Package pdftext extracts plain text from PDF files, capped to the
// character budget the processors feed into the AI endpoints, with an LRU
// cache of extracted text keyed by file path.
package pdftext

import (
	"fmt"
	"io"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledongthuc/pdf"
)

// MaxChars is the extraction budget; longer documents are truncated.
const MaxChars = 12000

const defaultCacheSize = 64

// Extractor reads PDFs and caches their extracted text.
type Extractor struct {
	cache    *lru.Cache[string, string]
	maxChars int
}

// New builds an extractor with the default cache size and character budget.
func New() *Extractor {
	// lru.New only errors on a non-positive size.
	cache, _ := lru.New[string, string](defaultCacheSize)
	return &Extractor{cache: cache, maxChars: MaxChars}
}

// Extract returns the plain text of the PDF at path, truncated to the
// budget. Repeated extractions of the same path hit the cache.
func (e *Extractor) Extract(path string) (text string, err error) {
	if cached, ok := e.cache.Get(path); ok {
		return cached, nil
	}

	// The pdf parser panics on some malformed cross-reference tables;
	// surface that as an ordinary error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdftext: parse %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdftext: read %s: %w", path, err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("pdftext: read %s: %w", path, err)
	}

	text = b.String()
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}
	e.cache.Add(path, text)
	return text, nil
}
