package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	weekdayStripRE = regexp.MustCompile(`(?i)\b(?:mon|tues?|wed(?:nes)?|thu(?:rs?)?|fri|sat(?:ur)?|sun)(?:day)?\b`)
	ordinalStripRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	explicitYearRE = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	spaceRE        = regexp.MustCompile(`\s+`)
)

// Layouts tried against text that carries an explicit year. Month names are
// canonicalized to full form first, so the "January" token always fits.
var yearLayouts = []string{
	"January 2 2006",
	"2 January 2006",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"1/2 2006", // numeric token with the hint year appended
	"1-2 2006",
	"January 2006",
}

// Layouts for year-less text; the reference year is applied afterwards.
var bareLayouts = []string{
	"January 2",
	"2 January",
	"1/2",
	"1-2",
	"January",
}

// referenceYearFunc supplies the year used when neither the text nor the
// caller provides one. Injectable for tests.
var referenceYearFunc = func() int { return time.Now().Year() }

// Normalize converts recognized date text plus a year hint into an ISO
// calendar date (YYYY-MM-DD). Weekday names and ordinal suffixes are
// stripped first; a hint year is appended when the text has none. Returns
// "" for anything that does not resolve to a real calendar date; callers
// must treat that as "needs manual entry", never as an error.
func Normalize(raw string, yearHint int) string {
	text := scrub(raw)
	if text == "" {
		return ""
	}

	if !explicitYearRE.MatchString(text) && yearHint > 0 {
		text = fmt.Sprintf("%s %d", text, yearHint)
	}

	t, ok := parseCalendar(text)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// scrub removes weekday names, ordinal suffixes, dots and commas, and
// canonicalizes month spellings so a small fixed layout set suffices.
func scrub(raw string) string {
	text := weekdayStripRE.ReplaceAllString(raw, "")
	text = ordinalStripRE.ReplaceAllString(text, "$1")
	text = monthOnlyRE.ReplaceAllStringFunc(text, func(m string) string {
		if full := CanonicalMonth(m); full != "" {
			return full
		}
		return m
	})
	text = strings.NewReplacer(".", "", ",", " ").Replace(text)
	text = spaceRE.ReplaceAllString(text, " ")
	return strings.Trim(text, " :;-")
}

func parseCalendar(text string) (time.Time, bool) {
	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	// Year-less text resolves against the academic reference year,
	// preferring the first day of the month when no day is given.
	for _, layout := range bareLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(referenceYearFunc(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
