package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/syllascan/syllascan/internal/model"
)

// Minimum horizontal gap, in points, treated as a schedule-column
// boundary rather than an ordinary word space.
const cellGapPoints = 12.0

// Fraction of the font size above which adjacent fragments get a space.
const wordSpaceMultiplier = 0.3

// Y tolerance, in points, for grouping text fragments into one visual row.
const rowTolerance = 2.0

// PDFSource loads a syllabus PDF. Column boundaries inside a visual row
// are rendered as double spaces so downstream row splitting can recover
// schedule-table cells from the flat page text.
type PDFSource struct {
	name string
	data []byte
}

// NewPDFSource wraps in-memory PDF bytes, e.g. an HTTP upload.
func NewPDFSource(name string, data []byte) *PDFSource {
	return &PDFSource{name: name, data: data}
}

// OpenPDF reads a PDF file from disk.
func OpenPDF(path string) (*PDFSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return &PDFSource{name: path, data: data}, nil
}

func (s *PDFSource) Name() string { return s.name }

// Load parses the PDF and reconstructs per-page text in reading order.
// The underlying parser panics on some malformed files, so parsing is
// fenced and surfaces as an error instead.
func (s *PDFSource) Load(ctx context.Context) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("parse pdf %s: %v", s.name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(s.data), int64(len(s.data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", s.name, err)
	}

	doc = &Document{Meta: pdfMeta(reader)}

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text := pageText(page)
		doc.Pages = append(doc.Pages, model.Page{Number: num, Text: text})
	}

	return doc, nil
}

// pdfMeta pulls title, author and creation date from the Info dictionary.
func pdfMeta(reader *pdf.Reader) Meta {
	var m Meta

	trailer := reader.Trailer()
	if trailer.IsNull() {
		return m
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return m
	}

	if v := info.Key("Title"); !v.IsNull() {
		m.Title = strings.TrimSpace(v.Text())
	}
	if v := info.Key("Author"); !v.IsNull() {
		m.Author = strings.TrimSpace(v.Text())
	}
	if v := info.Key("CreationDate"); !v.IsNull() {
		m.CreationDate = strings.TrimSpace(v.Text())
	}
	return m
}

// textRow is one visual line of the page: fragments sharing a Y band.
type textRow struct {
	y     float64
	frags []pdf.Text
}

// pageText flattens one page into line-per-row text. Fragments are
// grouped by Y, ordered top to bottom and left to right, and joined with
// a double space wherever the horizontal gap looks like a column break.
func pageText(page pdf.Page) string {
	texts := page.Content().Text
	if len(texts) == 0 {
		return ""
	}

	var rows []textRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].frags = append(rows[i].frags, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, frags: []pdf.Text{t}})
		}
	}

	// PDF coordinates grow upward; reading order is descending Y.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(joinRow(row.frags))
	}
	return b.String()
}

// joinRow merges a row's fragments left to right, inferring word spaces
// and column boundaries from the gaps between them.
func joinRow(frags []pdf.Text) string {
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var b strings.Builder
	for i, f := range frags {
		if i > 0 {
			prev := frags[i-1]
			gap := f.X - (prev.X + prev.W)
			switch {
			case gap > cellGapPoints:
				b.WriteString("  ")
			case gap > wordSpaceMultiplier*f.FontSize:
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.S)
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
