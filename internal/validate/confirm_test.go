package validate

import (
	"strings"
	"testing"

	"github.com/syllascan/syllascan/internal/model"
)

func TestValidISODate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-09-15", true},
		{"", true},
		{"09/15/2025", false},
		{"2025-9-15", false},
		{"2025-99-99", false},
		{"2025-02-30", false},
		{"2024-02-29", true},
	}
	for _, tt := range tests {
		if got := ValidISODate(tt.in); got != tt.want {
			t.Errorf("ValidISODate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCleanItem(t *testing.T) {
	it := CleanItem(model.Assignment{
		Title:      "  Homework 1  ",
		DueDateRaw: " Sep 15 ",
		DueDateISO: "2025-99-99",
		Source:     " same-line ",
	})
	if it.Title != "Homework 1" {
		t.Errorf("title = %q", it.Title)
	}
	if it.DueDateISO != "" {
		t.Errorf("invalid iso date should be cleared, got %q", it.DueDateISO)
	}
	if it.DueDateRaw != "Sep 15" {
		t.Errorf("raw date must survive iso clearing, got %q", it.DueDateRaw)
	}

	if got := CleanItem(model.Assignment{Title: "   "}); got.Title != DefaultTitle {
		t.Errorf("empty title = %q, want %q", got.Title, DefaultTitle)
	}
}

func TestPrepareReview(t *testing.T) {
	rev := PrepareReview([]model.Assignment{
		{Title: "Homework 1", DueDateISO: "2025-09-15"},
		{Title: "Essay", DueDateISO: "not-a-date"},
		{Title: ""},
	})

	if rev.Status != "needs_confirmation" {
		t.Errorf("status = %q", rev.Status)
	}
	if rev.TotalItems != 3 || rev.DatedItems != 1 || rev.UndatedItems != 2 {
		t.Errorf("counts = %d/%d/%d", rev.TotalItems, rev.DatedItems, rev.UndatedItems)
	}
	if rev.Items[2].Title != DefaultTitle {
		t.Errorf("item 3 title = %q", rev.Items[2].Title)
	}
}

func TestConfirm(t *testing.T) {
	original := []model.Assignment{{Title: "Homework 1", DueDateISO: "2025-09-15"}}

	t.Run("no edits", func(t *testing.T) {
		out, err := Confirm(original, original)
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if out.Status != "confirmed" || out.TotalItems != 1 {
			t.Errorf("outcome = %+v", out)
		}
		if strings.Contains(out.Message, "user edits") {
			t.Errorf("unchanged list should not report edits: %q", out.Message)
		}
	})

	t.Run("with edits", func(t *testing.T) {
		edited := []model.Assignment{{Title: "Homework One", DueDateISO: "2025-09-16"}}
		out, err := Confirm(original, edited)
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if !strings.Contains(out.Message, "user edits") {
			t.Errorf("edited list should report edits: %q", out.Message)
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		if _, err := Confirm(original, nil); err == nil {
			t.Fatal("expected error for empty edited list")
		}
	})
}

func TestAddManual(t *testing.T) {
	items := []model.Assignment{{Title: "Homework 1"}}
	got := AddManual(items, model.Assignment{Title: " Office hours quiz ", Source: "table-row"})

	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[1].Source != model.OriginManual {
		t.Errorf("manual additions must be marked manual, got %q", got[1].Source)
	}
	if got[1].Title != "Office hours quiz" {
		t.Errorf("title = %q", got[1].Title)
	}
	if len(items) != 1 {
		t.Errorf("input slice must not be mutated")
	}
}

func TestRemoveItem(t *testing.T) {
	items := []model.Assignment{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	got, err := RemoveItem(items, 1)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("got %+v", got)
	}

	if _, err := RemoveItem(items, 3); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := RemoveItem(items, -1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestUpdateItem(t *testing.T) {
	items := []model.Assignment{{Title: "Homework 1", DueDateISO: "2025-09-15", Page: 2}}

	newTitle := "Homework 1 (revised)"
	badISO := "15/09/2025"
	got, err := UpdateItem(items, 0, Patch{Title: &newTitle, DueDateISO: &badISO})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if got[0].Title != newTitle {
		t.Errorf("title = %q", got[0].Title)
	}
	if got[0].DueDateISO != "" {
		t.Errorf("invalid iso should be cleared on update, got %q", got[0].DueDateISO)
	}
	if got[0].Page != 2 {
		t.Errorf("untouched field changed: page = %d", got[0].Page)
	}
	if items[0].Title != "Homework 1" {
		t.Errorf("input slice must not be mutated")
	}

	if _, err := UpdateItem(items, 5, Patch{}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}
