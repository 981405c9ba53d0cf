// Package score derives the diagnostic summary attached to every
// extraction result: date coverage, per-source breakdown, and a coarse
// confidence level. The summary never alters the items themselves.
package score

import (
	"github.com/syllascan/syllascan/internal/model"
)

// Summarize calculates coverage and confidence for a final item list.
func Summarize(items []model.Assignment) model.Summary {
	sum := model.Summary{Total: len(items)}
	if len(items) == 0 {
		sum.Confidence = "low"
		return sum
	}

	bySource := make(map[string]int)
	for _, it := range items {
		if it.DueDateISO != "" {
			sum.Dated++
		} else {
			sum.Undated++
		}
		if it.Source != "" {
			bySource[it.Source]++
		}
	}
	sum.BySource = bySource
	sum.Coverage = float64(sum.Dated) / float64(sum.Total)
	sum.Confidence = determineConfidence(sum.Coverage, sum.Total)

	return sum
}

// determineConfidence maps coverage and volume to a confidence level.
// A handful of items can look fully covered by luck, so small result
// sets never rate high.
func determineConfidence(coverage float64, total int) string {
	if total < 3 {
		return "low"
	}
	if coverage >= 0.8 {
		return "high"
	}
	if coverage >= 0.5 {
		return "medium"
	}
	return "low"
}
