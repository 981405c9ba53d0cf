package ingest

import (
	"context"
	"strings"

	"github.com/syllascan/syllascan/internal/model"
)

// TextSource wraps already-extracted plain text, e.g. pasted syllabus
// content. Form feeds mark page boundaries; text without them becomes a
// single page.
type TextSource struct {
	name string
	text string
}

func NewTextSource(name, text string) *TextSource {
	return &TextSource{name: name, text: text}
}

func (s *TextSource) Name() string { return s.name }

func (s *TextSource) Load(_ context.Context) (*Document, error) {
	doc := &Document{}
	for i, chunk := range strings.Split(s.text, "\f") {
		doc.Pages = append(doc.Pages, model.Page{Number: i + 1, Text: chunk})
	}
	return doc, nil
}
