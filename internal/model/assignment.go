package model

// Assignment is the final exported unit of extraction.
// Fields map directly to the JSON shape consumed by the review UI.
type Assignment struct {
	Title      string `json:"title"`        // Assignment name (e.g., "Homework 1 due")
	DueDateRaw string `json:"due_date_raw"` // Original date text from the page (e.g., "Sep 15")
	DueDateISO string `json:"due_date_iso"` // Normalized date (YYYY-MM-DD), empty if unresolved
	Page       int    `json:"page"`         // 1-based page number where the item was found
	Source     string `json:"source"`       // Provenance tag (origin of the date association)
}

// Origin values label how a candidate's date was resolved. They flow
// into Assignment.Source unchanged.
const (
	OriginSameLine       = "same-line"        // Date token on the same line as the keyword
	OriginNearbyLine     = "nearby-line"      // Date adopted from a preceding line within the lookback window
	OriginTableRow       = "table-row"        // Date resolved within the same table row
	OriginTableRowNearby = "table-row-nearby" // Inline schedule row adopting a nearby line's date
	OriginCarriedContext = "carried-context"  // Bare day qualified by the page's carried month context
	OriginPolicyLine     = "policy-line"      // Generic due-date policy sentence, intentionally undated
	OriginUndated        = "undated"          // No textual date evidence found
	OriginManual         = "manual"           // Added by the user during review
	OriginLLMRepair      = "llm-repair"       // Produced or corrected by the repair model
)

// Candidate is a provisional assignment-date pairing produced by the
// association engine, before normalization and deduplication.
type Candidate struct {
	Title   string `json:"title"`
	RawDate string `json:"raw_date"` // May be empty; such candidates are retained, not dropped
	Page    int    `json:"page"`
	Origin  string `json:"origin"`
}

// DateKind classifies a recognized date token
type DateKind string

const (
	KindMonthDay        DateKind = "month-day"         // "Sep 4", "September 4th"
	KindMonthDayYear    DateKind = "month-day-year"    // "September 4, 2025"
	KindNumericMD       DateKind = "numeric-md"        // "9/4"
	KindNumericMDY      DateKind = "numeric-mdy"       // "9/4/2025"
	KindWeekdayMonthDay DateKind = "weekday-month-day" // "Monday, December 15"
)

// DateToken is a substring of raw text identified as a date.
// Produced fresh per scan, never mutated.
type DateToken struct {
	Raw   string   // The matched text with weekday and ordinal suffix already stripped
	Kind  DateKind // Which pattern class matched
	Month string   // Canonical month name if the token carries one ("September"), else ""
}

// Page is one page of source text plus any pre-extracted table rows.
type Page struct {
	Number int        `json:"number"`
	Text   string     `json:"text"`
	Tables [][]string `json:"tables,omitempty"` // Each entry is one row of cell strings
}
