package model

// Result is the complete outcome of extracting one document
type Result struct {
	CourseTitle string       `json:"course_title,omitempty"` // Detected course name, if any
	Term        string       `json:"term,omitempty"`         // e.g., "Fall 2025", when explicit term text was found
	YearHint    int          `json:"year_hint,omitempty"`    // Resolved year applied to day-month-only dates (0 = none)
	TotalPages  int          `json:"total_pages"`
	Items       []Assignment `json:"items"`
	Summary     Summary      `json:"summary"`
	LLMUsed     bool         `json:"llm_used"`
	LLMError    string       `json:"llm_error,omitempty"` // Repair failure reason; heuristic items are still returned
}

// Summary is a diagnostic breakdown of extraction quality.
// It never affects the items themselves.
type Summary struct {
	Total      int            `json:"total"`
	Dated      int            `json:"dated"`   // Items with a resolved ISO date
	Undated    int            `json:"undated"` // Items needing manual date entry
	Coverage   float64        `json:"coverage"`
	Confidence string         `json:"confidence"` // "low", "medium", "high"
	BySource   map[string]int `json:"by_source,omitempty"`
}
