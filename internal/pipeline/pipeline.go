// Package pipeline orchestrates the full extraction flow: ingest, page
// sweep, date normalization, dedupe, scoring, and the optional LLM
// repair pass.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syllascan/syllascan/internal/cache"
	"github.com/syllascan/syllascan/internal/dates"
	"github.com/syllascan/syllascan/internal/extract"
	"github.com/syllascan/syllascan/internal/ingest"
	"github.com/syllascan/syllascan/internal/llm"
	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/score"
	"github.com/syllascan/syllascan/internal/validate"
)

// Repair excerpts are clamped so a hundred-page document cannot blow the
// prompt budget.
const maxRepairExcerpt = 12000

// Pipeline orchestrates the complete extraction process
type Pipeline struct {
	engine   *extract.Engine
	repairer *llm.Repairer // Optional LLM repairer (disabled when unset)
	cache    cache.Cache   // nil when caching is disabled
	config   *model.Config
}

// Options select per-call behavior.
type Options struct {
	// UseLLMRepair runs the repair pass after heuristic extraction.
	// Ignored when no provider is configured.
	UseLLMRepair bool

	// YearHint overrides the inferred year for day-month-only dates.
	// Zero means infer from document metadata and page text.
	YearHint int
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var repairer *llm.Repairer
	if cfg.LLM.Provider != "" {
		r, err := llm.NewRepairer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			repairer = r
		}
	}

	var c cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		engine:   extract.NewEngine(cfg.Extract),
		repairer: repairer,
		cache:    c,
		config:   cfg,
	}
}

// RepairEnabled reports whether an LLM provider is configured and usable.
func (p *Pipeline) RepairEnabled() bool {
	return p.repairer.IsEnabled()
}

// ExtractFile extracts assignments from a syllabus file on disk. PDF
// input is detected by extension; anything else is treated as plain text.
func (p *Pipeline) ExtractFile(ctx context.Context, path string, opts Options) (*model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var src ingest.Source
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		src = ingest.NewPDFSource(filepath.Base(path), data)
	} else {
		src = ingest.NewTextSource(filepath.Base(path), string(data))
	}

	return p.ExtractSource(ctx, src, cache.KeyForBytes(data), opts)
}

// ExtractSource loads one input and extracts its assignments. cacheKey
// may be empty to bypass the cache; distinct repair settings get distinct
// entries so a cached heuristic result never masquerades as a repaired one.
func (p *Pipeline) ExtractSource(ctx context.Context, src ingest.Source, cacheKey string, opts Options) (*model.Result, error) {
	useRepair := opts.UseLLMRepair && p.RepairEnabled()

	if p.cache != nil && cacheKey != "" {
		if useRepair {
			cacheKey += ":llm"
		}
		if opts.YearHint != 0 {
			cacheKey += fmt.Sprintf(":y%d", opts.YearHint)
		}
		if data, found := p.cache.Get(cacheKey); found {
			var cached model.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			// Corrupt entry; drop it and re-extract
			_ = p.cache.Delete(cacheKey)
		}
	}

	doc, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	result := p.ExtractDocument(ctx, doc, opts)

	if p.cache != nil && cacheKey != "" {
		if data, err := json.Marshal(result); err == nil {
			_ = p.cache.Set(cacheKey, data, 0)
		}
	}

	return result, nil
}

// ExtractDocument runs the extraction passes over an already-loaded
// document. It never fails: a document with no recognizable content
// yields an empty item list.
func (p *Pipeline) ExtractDocument(ctx context.Context, doc *ingest.Document, opts Options) *model.Result {
	pageTexts := make([]string, 0, len(doc.Pages))
	for _, pg := range doc.Pages {
		pageTexts = append(pageTexts, pg.Text)
	}

	yearHint := opts.YearHint
	if yearHint == 0 {
		yearHint = dates.InferYear(doc.Meta.CreationDate, pageTexts)
	}
	term := dates.FindTerm(pageTexts)

	var items []model.Assignment
	for _, pg := range doc.Pages {
		for _, c := range p.engine.ScanPage(pg) {
			iso := ""
			if c.RawDate != "" {
				// Normalization failure leaves the raw text in place for
				// manual resolution; the item is never dropped.
				iso = dates.Normalize(c.RawDate, yearHint)
			}
			items = append(items, model.Assignment{
				Title:      c.Title,
				DueDateRaw: c.RawDate,
				DueDateISO: iso,
				Page:       c.Page,
				Source:     c.Origin,
			})
		}
	}

	items = extract.DedupeAndSort(items)

	courseTitle := ""
	if len(doc.Pages) > 0 {
		courseTitle = DetectCourseTitle(doc.Pages[0].Text)
	}
	if courseTitle == "" {
		courseTitle = strings.TrimSpace(doc.Meta.Title)
	}

	result := &model.Result{
		CourseTitle: courseTitle,
		Term:        term,
		YearHint:    yearHint,
		TotalPages:  len(doc.Pages),
		Items:       items,
	}

	if opts.UseLLMRepair && p.RepairEnabled() {
		p.repair(ctx, result, pageTexts, courseTitle, yearHint)
	}

	result.Summary = score.Summarize(result.Items)

	return result
}

// repair runs the LLM pass. Failures degrade to the heuristic items and
// are reported on the result, never as an error.
func (p *Pipeline) repair(ctx context.Context, result *model.Result, pageTexts []string, courseTitle string, yearHint int) {
	excerpt := strings.Join(pageTexts, "\n\f\n")
	if len(excerpt) > maxRepairExcerpt {
		excerpt = excerpt[:maxRepairExcerpt]
	}

	repaired, err := p.repairer.Repair(ctx, llm.RepairRequest{
		Items:       result.Items,
		Excerpt:     excerpt,
		CourseTitle: courseTitle,
		YearHint:    yearHint,
	})
	if err != nil {
		result.LLMError = err.Error()
		return
	}

	cleaned := make([]model.Assignment, 0, len(repaired))
	for _, it := range repaired {
		cleaned = append(cleaned, validate.CleanItem(it))
	}
	result.Items = extract.DedupeAndSort(cleaned)
	result.LLMUsed = true
}
