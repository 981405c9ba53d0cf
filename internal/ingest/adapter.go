// Package ingest turns raw inputs (PDF files, plain text) into the
// page-oriented document form the extraction pipeline consumes.
package ingest

import (
	"context"

	"github.com/syllascan/syllascan/internal/model"
)

// Meta holds the document-level metadata that feeds year inference and
// course-title detection. Fields are empty when the source has no
// metadata to offer.
type Meta struct {
	Title        string
	Author       string
	CreationDate string
}

// Document is the source-independent pipeline input: ordered pages of
// text plus whatever metadata the source could recover.
type Document struct {
	Meta  Meta
	Pages []model.Page
}

// Source loads one input into a Document. Implementations must not
// retain the returned document.
type Source interface {
	// Name identifies the input for logs and cache keys, typically a
	// file path or an upload filename.
	Name() string

	Load(ctx context.Context) (*Document, error)
}
