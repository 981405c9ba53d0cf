// Package validate implements the review-and-confirm workflow: cleaning
// extracted items, validating user edits, and applying manual additions,
// updates and removals before anything is persisted.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/syllascan/syllascan/internal/model"
)

// DefaultTitle replaces an empty title so no item is saved nameless
const DefaultTitle = "Untitled Assignment"

var isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidISODate reports whether s is a real calendar date in YYYY-MM-DD
// form. Empty is acceptable: undated items stay undated.
func ValidISODate(s string) bool {
	if s == "" {
		return true
	}
	if !isoDateRE.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// CleanItem normalizes one item: trims every string field, clears a
// malformed ISO date while keeping the raw text, and fills in a default
// title.
func CleanItem(it model.Assignment) model.Assignment {
	it.Title = strings.TrimSpace(it.Title)
	it.DueDateRaw = strings.TrimSpace(it.DueDateRaw)
	it.DueDateISO = strings.TrimSpace(it.DueDateISO)
	it.Source = strings.TrimSpace(it.Source)

	if it.DueDateISO != "" && !ValidISODate(it.DueDateISO) {
		it.DueDateISO = ""
	}
	if it.Title == "" {
		it.Title = DefaultTitle
	}
	return it
}

// Review is the payload shown to the user before saving.
type Review struct {
	Status       string             `json:"status"`
	TotalItems   int                `json:"total_items"`
	DatedItems   int                `json:"dated_items"`
	UndatedItems int                `json:"undated_items"`
	Items        []model.Assignment `json:"items"`
	Message      string             `json:"message"`
}

// PrepareReview cleans extracted items and splits the counts so the
// caller can present "5 dated, 3 need dates" style summaries.
func PrepareReview(items []model.Assignment) Review {
	cleaned := make([]model.Assignment, 0, len(items))
	dated := 0
	for _, it := range items {
		c := CleanItem(it)
		if c.DueDateISO != "" {
			dated++
		}
		cleaned = append(cleaned, c)
	}

	return Review{
		Status:       "needs_confirmation",
		TotalItems:   len(cleaned),
		DatedItems:   dated,
		UndatedItems: len(cleaned) - dated,
		Items:        cleaned,
		Message:      "Please review and confirm the extracted assignments. You can edit any field before saving.",
	}
}

// Outcome is the final confirmation result, ready to persist.
type Outcome struct {
	Status     string             `json:"status"`
	Items      []model.Assignment `json:"items"`
	TotalItems int                `json:"total_items"`
	Message    string             `json:"message"`
}

// Confirm validates and cleans the user's edited list against the
// originally extracted one. An empty edited list is an error; otherwise
// every item is cleaned and the outcome notes whether edits were made.
func Confirm(original, edited []model.Assignment) (Outcome, error) {
	if len(edited) == 0 {
		return Outcome{}, fmt.Errorf("no items provided for confirmation")
	}

	final := make([]model.Assignment, 0, len(edited))
	for _, it := range edited {
		final = append(final, CleanItem(it))
	}

	changed := len(final) != len(original)
	if !changed {
		for i := range final {
			if final[i] != original[i] {
				changed = true
				break
			}
		}
	}

	msg := "Assignments confirmed and saved successfully."
	if changed {
		msg += fmt.Sprintf(" %d items processed with user edits.", len(final))
	}

	return Outcome{
		Status:     "confirmed",
		Items:      final,
		TotalItems: len(final),
		Message:    msg,
	}, nil
}

// AddManual appends a user-created item, cleaned and marked as manual so
// its provenance is distinguishable from extracted items.
func AddManual(items []model.Assignment, newItem model.Assignment) []model.Assignment {
	c := CleanItem(newItem)
	c.Source = model.OriginManual
	out := make([]model.Assignment, len(items), len(items)+1)
	copy(out, items)
	return append(out, c)
}

// RemoveItem returns a new list without the item at index.
func RemoveItem(items []model.Assignment, index int) ([]model.Assignment, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("invalid item index %d", index)
	}
	out := make([]model.Assignment, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out, nil
}

// Patch carries a partial edit; nil fields are left untouched.
type Patch struct {
	Title      *string `json:"title,omitempty"`
	DueDateRaw *string `json:"due_date_raw,omitempty"`
	DueDateISO *string `json:"due_date_iso,omitempty"`
	Page       *int    `json:"page,omitempty"`
	Source     *string `json:"source,omitempty"`
}

// UpdateItem applies a partial edit to the item at index and recleans it.
func UpdateItem(items []model.Assignment, index int, patch Patch) ([]model.Assignment, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("invalid item index %d", index)
	}

	it := items[index]
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.DueDateRaw != nil {
		it.DueDateRaw = *patch.DueDateRaw
	}
	if patch.DueDateISO != nil {
		it.DueDateISO = *patch.DueDateISO
	}
	if patch.Page != nil {
		it.Page = *patch.Page
	}
	if patch.Source != nil {
		it.Source = *patch.Source
	}

	out := make([]model.Assignment, len(items))
	copy(out, items)
	out[index] = CleanItem(it)
	return out, nil
}
