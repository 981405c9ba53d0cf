package extract

import (
	"sort"
	"strings"

	"github.com/syllascan/syllascan/internal/model"
)

// Sentinel placing undated items after every real date when ordering
const farFuture = "9999-12-31"

// DedupeAndSort collapses duplicate assignments and orders the final list.
// The key is the case-insensitive title plus the resolved ISO date (raw
// date text when normalization failed); the first occurrence wins and
// keeps its page and provenance. Order: dated items first by date, then
// page, then folded title.
func DedupeAndSort(items []model.Assignment) []model.Assignment {
	seen := make(map[string]struct{}, len(items))
	out := make([]model.Assignment, 0, len(items))

	for _, it := range items {
		date := it.DueDateISO
		if date == "" {
			date = it.DueDateRaw
		}
		key := strings.ToLower(strings.TrimSpace(it.Title)) + "\x00" + strings.ToLower(date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		ad, bd := a.DueDateISO, b.DueDateISO
		if ad == "" {
			ad = farFuture
		}
		if bd == "" {
			bd = farFuture
		}
		if ad != bd {
			return ad < bd
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})

	return out
}
