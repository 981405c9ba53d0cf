package extract

import (
	"regexp"
	"unicode/utf8"

	"github.com/syllascan/syllascan/internal/dates"
	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/segment"
)

// Generic due-date policy phrasing ("assignments are due on Thursdays").
// Such sentences are flagged, never given synthetic dates.
var policyRE = regexp.MustCompile(`(?i)\b(?:due\s+on|due\s+by|are\s+due|will\s+be\s+due)\b`)

// Engine is the date-association engine: a single-pass sweep over a page's
// ordered lines and rows that decides which date belongs to which
// assignment candidate. One Engine is safe for concurrent use; all scan
// state lives in per-call values and never leaks across pages or documents.
type Engine struct {
	keywords *KeywordMatcher
	lookback int
	maxTitle int
}

// NewEngine builds an engine from extraction configuration, falling back
// to defaults for zero values.
func NewEngine(cfg model.ExtractConfig) *Engine {
	vocab := cfg.Keywords
	if len(vocab) == 0 {
		vocab = model.DefaultKeywords
	}
	lookback := cfg.LookbackWindow
	if lookback <= 0 {
		lookback = 3
	}
	maxTitle := cfg.MaxTitleLen
	if maxTitle <= 0 {
		maxTitle = 300
	}
	return &Engine{
		keywords: NewKeywordMatcher(vocab),
		lookback: lookback,
		maxTitle: maxTitle,
	}
}

// pageState is the context carried forward across one page's lines and
// rows: the most recent month mention and the most recent dated line.
// Syllabi often name a month once and list day-only entries beneath it;
// without the carry only the first entry would resolve.
type pageState struct {
	month        string
	lastToken    model.DateToken
	lastDatedIdx int
}

// ScanPage sweeps one page and returns every assignment candidate found.
// Candidates without a resolvable date are retained as undated, never
// dropped; a page of garbage text yields an empty slice, not an error.
func (e *Engine) ScanPage(pg model.Page) []model.Candidate {
	lines := segment.Lines(pg.Text)
	st := &pageState{lastDatedIdx: -1}

	var out []model.Candidate

	for i, ln := range lines {
		tok, hasTok := dates.FindToken(ln)
		if hasTok {
			st.lastToken = tok
			st.lastDatedIdx = i
			if tok.Month != "" {
				st.month = tok.Month
			}
		} else if m, ok := dates.FindMonth(ln); ok {
			// A month header with no day still updates the carry
			st.month = m
		}

		cells := segment.SplitRow(ln)
		if len(cells) > 1 {
			// Schedule-style line: resolve per cell, not per line, so a
			// date cell and an assignment cell pair up correctly.
			out = append(out, e.scanRow(cells, i, pg.Number, st)...)
			continue
		}

		if !e.keywords.Match(ln) {
			continue
		}

		title := e.title(ln)
		switch {
		case hasTok:
			out = append(out, model.Candidate{Title: title, RawDate: tok.Raw, Page: pg.Number, Origin: model.OriginSameLine})
		case bareDayWithMonth(ln, st.month) != "":
			out = append(out, model.Candidate{Title: title, RawDate: bareDayWithMonth(ln, st.month), Page: pg.Number, Origin: model.OriginCarriedContext})
		case policyRE.MatchString(ln):
			// Generic policy sentence with no date of its own. It must
			// not adopt a nearby line's date; the policy pass flags it.
		case st.lastDatedIdx >= 0 && i-st.lastDatedIdx <= e.lookback:
			out = append(out, model.Candidate{Title: title, RawDate: st.lastToken.Raw, Page: pg.Number, Origin: model.OriginNearbyLine})
		default:
			out = append(out, model.Candidate{Title: title, Page: pg.Number, Origin: model.OriginUndated})
		}
	}

	// Pre-extracted table rows share the page's carried context but have no
	// line-order proximity semantics: a date cell may follow or precede the
	// assignment cell, so resolution is scoped to the row.
	for _, row := range pg.Tables {
		out = append(out, e.scanRow(row, -1, pg.Number, st)...)
	}

	out = append(out, e.scanPolicy(lines, pg.Number)...)

	return out
}

// bareDayWithMonth qualifies a bare day mention with the carried month,
// or returns "" when either half is missing.
func bareDayWithMonth(text, month string) string {
	if month == "" {
		return ""
	}
	day, ok := dates.FindDay(text)
	if !ok {
		return ""
	}
	return month + " " + day
}

// cellDate is a date found in one row cell during the first pass
type cellDate struct {
	raw      string
	day      string
	hasMonth bool
}

// scanRow resolves assignment cells within a single row. lineIdx is the
// row's position in the page's line order for inline schedule rows, or -1
// for pre-extracted table rows, which have no usable proximity to lines.
func (e *Engine) scanRow(cells []string, lineIdx, page int, st *pageState) []model.Candidate {
	// First pass: row month and per-cell dates.
	rowMonth := ""
	monthFromCarry := false
	found := make(map[int]cellDate)
	order := make([]int, 0, len(cells))

	for idx, cell := range cells {
		if cell == "" {
			continue
		}
		if m, ok := dates.FindMonth(cell); ok {
			rowMonth = m
			st.month = m
		}
		if tok, ok := dates.FindToken(cell); ok {
			// A month-less token ("9/4") already names its own month
			// digit; it must keep its raw text, not degrade to a bare day.
			found[idx] = cellDate{raw: tok.Raw, hasMonth: tok.Month != ""}
			order = append(order, idx)
		} else if day, ok := dates.FindDay(cell); ok {
			found[idx] = cellDate{raw: day, day: day}
			order = append(order, idx)
		}
	}

	if rowMonth == "" && st.month != "" {
		rowMonth = st.month
		monthFromCarry = true
	}

	// Second pass: resolve each assignment-like cell.
	var out []model.Candidate
	for idx, cell := range cells {
		if cell == "" || !e.keywords.Match(cell) {
			continue
		}
		title := e.title(cell)

		if d, ok := found[idx]; ok {
			out = append(out, e.rowCandidate(title, d, rowMonth, monthFromCarry, page))
			continue
		}

		if d, ok := pickRowDate(found, order, idx); ok {
			out = append(out, e.rowCandidate(title, d, rowMonth, monthFromCarry, page))
			continue
		}

		if lineIdx >= 0 && st.lastDatedIdx >= 0 && lineIdx-st.lastDatedIdx <= e.lookback && lineIdx > st.lastDatedIdx {
			out = append(out, model.Candidate{Title: title, RawDate: st.lastToken.Raw, Page: page, Origin: model.OriginTableRowNearby})
			continue
		}

		out = append(out, model.Candidate{Title: title, Page: page, Origin: model.OriginUndated})
	}

	return out
}

// rowCandidate turns a located cell date into a candidate, borrowing the
// row month to qualify bare days. A bare day with no month anywhere keeps
// its raw text; normalization will leave such items undated rather than
// inventing a month.
func (e *Engine) rowCandidate(title string, d cellDate, rowMonth string, monthFromCarry bool, page int) model.Candidate {
	switch {
	case d.hasMonth:
		return model.Candidate{Title: title, RawDate: d.raw, Page: page, Origin: model.OriginTableRow}
	case rowMonth != "" && d.day != "":
		origin := model.OriginTableRow
		if monthFromCarry {
			origin = model.OriginCarriedContext
		}
		return model.Candidate{Title: title, RawDate: rowMonth + " " + d.day, Page: page, Origin: origin}
	default:
		return model.Candidate{Title: title, RawDate: d.raw, Page: page, Origin: model.OriginTableRow}
	}
}

// pickRowDate chooses a date from the row's other cells: the first
// month-bearing date in cell order wins, else the first bare day. When
// several cells qualify the choice is first-match in cell order.
func pickRowDate(found map[int]cellDate, order []int, selfIdx int) (cellDate, bool) {
	for _, idx := range order {
		if idx == selfIdx {
			continue
		}
		if found[idx].hasMonth {
			return found[idx], true
		}
	}
	for _, idx := range order {
		if idx == selfIdx {
			continue
		}
		return found[idx], true
	}
	return cellDate{}, false
}

// scanPolicy flags generic due-date policy sentences as undated
// informational candidates. Lines that carry a concrete date token were
// already captured by the main sweep and are skipped here.
func (e *Engine) scanPolicy(lines []string, page int) []model.Candidate {
	var out []model.Candidate
	for _, ln := range lines {
		if !policyRE.MatchString(ln) || !e.keywords.Match(ln) {
			continue
		}
		if _, hasTok := dates.FindToken(ln); hasTok {
			continue
		}
		out = append(out, model.Candidate{Title: e.title(ln), Page: page, Origin: model.OriginPolicyLine})
	}
	return out
}

func (e *Engine) title(text string) string {
	t := segment.Normalize(text)
	if len(t) > e.maxTitle {
		cut := e.maxTitle
		for cut > 0 && !utf8.RuneStart(t[cut]) {
			cut--
		}
		t = t[:cut]
	}
	return t
}
