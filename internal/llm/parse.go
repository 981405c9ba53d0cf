package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/syllascan/syllascan/internal/model"
)

// Clamps applied to every model-produced field; a runaway response must
// not blow up storage or the UI.
const (
	maxTitleLen = 300
	maxRawLen   = 100
	maxISOLen   = 20
)

type repairPayload struct {
	Items []repairItem `json:"items"`
}

type repairItem struct {
	Title      string `json:"title"`
	DueDateRaw string `json:"due_date_raw"`
	DueDateISO string `json:"due_date_iso"`
}

// ParseRepairText extracts the item list from a model response. Models
// wrap JSON in code fences or prose often enough that lenient extraction
// is the norm, not the exception.
func ParseRepairText(text string) ([]model.Assignment, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload repairPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal repair response: %w", err)
	}

	items := make([]model.Assignment, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, model.Assignment{
			Title:      clamp(strings.TrimSpace(it.Title), maxTitleLen),
			DueDateRaw: clamp(strings.TrimSpace(it.DueDateRaw), maxRawLen),
			DueDateISO: clamp(strings.TrimSpace(it.DueDateISO), maxISOLen),
			Source:     model.OriginLLMRepair,
		})
	}
	return items, nil
}

// extractJSON returns the first top-level JSON object in text, stripping
// a ```json code fence when present.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.Index(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func clamp(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
