package dates

import (
	"testing"

	"github.com/syllascan/syllascan/internal/model"
)

func TestFindToken_Priority(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantRaw   string
		wantKind  model.DateKind
		wantMonth string
	}{
		{
			name:      "weekday prefixed",
			line:      "Final exam given on Monday, December 15 in class",
			wantRaw:   "December 15",
			wantKind:  model.KindWeekdayMonthDay,
			wantMonth: "December",
		},
		{
			name:      "month day with ordinal",
			line:      "Homework due Sep 4th at midnight",
			wantRaw:   "Sep 4",
			wantKind:  model.KindMonthDay,
			wantMonth: "September",
		},
		{
			name:      "irregular Sept abbreviation",
			line:      "Sept 12 Quiz 1",
			wantRaw:   "Sept 12",
			wantKind:  model.KindMonthDay,
			wantMonth: "September",
		},
		{
			name:      "month day with year",
			line:      "Paper due September 4, 2025",
			wantRaw:   "September 4, 2025",
			wantKind:  model.KindMonthDayYear,
			wantMonth: "September",
		},
		{
			name:      "dotted abbreviation",
			line:      "Week 2 (Jan. 27) sketches",
			wantRaw:   "Jan 27",
			wantKind:  model.KindMonthDay,
			wantMonth: "January",
		},
		{
			name:     "numeric month day",
			line:     "Quiz on 9/4 in section",
			wantRaw:  "9/4",
			wantKind: model.KindNumericMD,
		},
		{
			name:     "numeric with year",
			line:     "due 9/4/2025",
			wantRaw:  "9/4/2025",
			wantKind: model.KindNumericMDY,
		},
		{
			name:      "uppercase",
			line:      "DECEMBER 17TH FINAL",
			wantRaw:   "DECEMBER 17",
			wantKind:  model.KindMonthDay,
			wantMonth: "December",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := FindToken(tt.line)
			if !ok {
				t.Fatalf("FindToken(%q) found nothing", tt.line)
			}
			if tok.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", tok.Raw, tt.wantRaw)
			}
			if tok.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tok.Kind, tt.wantKind)
			}
			if tok.Month != tt.wantMonth {
				t.Errorf("Month = %q, want %q", tok.Month, tt.wantMonth)
			}
		})
	}
}

func TestFindToken_FirstMatchWins(t *testing.T) {
	tok, ok := FindToken("Problem Set 1 due Sep 11, Problem Set 2 due Sep 18")
	if !ok {
		t.Fatal("Expected a token")
	}
	if tok.Raw != "Sep 11" {
		t.Errorf("Expected first date, got %q", tok.Raw)
	}
}

func TestFindToken_NoDate(t *testing.T) {
	for _, line := range []string{
		"Office hours by appointment",
		"",
		"Chapter 15 covers integration", // bare number mid-line is not a date
	} {
		if tok, ok := FindToken(line); ok {
			t.Errorf("FindToken(%q) = %+v, want none", line, tok)
		}
	}
}

func TestFindMonth(t *testing.T) {
	got, ok := FindMonth("October")
	if !ok || got != "October" {
		t.Errorf("FindMonth(October) = %q, %v", got, ok)
	}

	got, ok = FindMonth("schedule for sept onwards")
	if !ok || got != "September" {
		t.Errorf("FindMonth(sept) = %q, %v", got, ok)
	}

	if _, ok := FindMonth("no months here"); ok {
		t.Error("Expected no month")
	}
}

func TestFindDay(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"15  Midterm Exam", "15", true}, // leading bare day
		{"due on the 2nd", "2", true},    // ordinal anywhere
		{"Chapter 15 review", "", false}, // bare number mid-text
		{"99th percentile", "", false},   // out of range
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FindDay(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FindDay(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
