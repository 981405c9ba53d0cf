// Package dates recognizes date-like substrings in syllabus text and
// normalizes them into calendar dates.
package dates

import (
	"regexp"
	"strings"

	"github.com/syllascan/syllascan/internal/model"
)

// Month name alternation shared by every pattern. Accepts abbreviated,
// full, and the irregular "Sept" form.
const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	// "September 4", "Sep. 4th", "DECEMBER 17TH", optionally ", 2025"
	monthDayRE = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\b[.\s]*(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*((?:19|20)\d{2}))?`)

	// "Monday, December 15": weekday is noise and gets stripped
	weekdayMonthDayRE = regexp.MustCompile(`(?i)\b(?:mon|tues?|wed(?:nes)?|thu(?:rs?)?|fri|sat(?:ur)?|sun)(?:day)?\b[,.]?\s+(` + monthAlt + `)\b[.\s]*(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*((?:19|20)\d{2}))?`)

	// "9/4", "09-15", "9/4/2025"
	numericRE = regexp.MustCompile(`\b(1[0-2]|0?[1-9])[/-](3[01]|[12]?\d)(?:[/-](\d{2,4}))?\b`)

	monthOnlyRE = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\b`)

	// "15th" anywhere, or a bare leading day number ("15  Midterm Exam")
	ordinalDayRE     = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	leadingBareDayRE = regexp.MustCompile(`^(\d{1,2})\b`)
)

// canonicalMonths maps every accepted spelling prefix to the full name
var canonicalMonths = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// CanonicalMonth resolves any accepted month spelling to its full name.
// Returns "" when the text is not a month name.
func CanonicalMonth(name string) string {
	low := strings.ToLower(strings.TrimRight(name, "."))
	if len(low) < 3 {
		return ""
	}
	full, ok := canonicalMonths[low[:3]]
	if !ok {
		return ""
	}
	// Reject things like "mayhem": the spelling must be a prefix of the
	// full name, or the irregular "sept".
	if low != "sept" && !strings.HasPrefix(strings.ToLower(full), low) {
		return ""
	}
	return full
}

// FindToken returns the most likely date token in a line, or false when the
// line carries none. Pattern classes are tried in fixed priority order and
// the first left-to-right match of the winning class is returned; callers
// needing every date in a row must invoke this per cell, not per line.
func FindToken(line string) (model.DateToken, bool) {
	if m := weekdayMonthDayRE.FindStringSubmatch(line); m != nil {
		return buildMonthToken(m[1], m[2], m[3], model.KindWeekdayMonthDay), true
	}
	if m := monthDayRE.FindStringSubmatch(line); m != nil {
		kind := model.KindMonthDay
		if m[3] != "" {
			kind = model.KindMonthDayYear
		}
		return buildMonthToken(m[1], m[2], m[3], kind), true
	}
	if m := numericRE.FindStringSubmatch(line); m != nil {
		raw := m[1] + "/" + m[2]
		kind := model.DateKind(model.KindNumericMD)
		if m[3] != "" {
			raw += "/" + m[3]
			kind = model.KindNumericMDY
		}
		return model.DateToken{Raw: raw, Kind: kind}, true
	}
	return model.DateToken{}, false
}

func buildMonthToken(mon, day, year string, kind model.DateKind) model.DateToken {
	full := CanonicalMonth(mon)
	raw := mon + " " + day
	if year != "" {
		raw += ", " + year
	}
	return model.DateToken{Raw: raw, Kind: kind, Month: full}
}

// FindMonth returns the canonical name of the first month mention in text.
// Month headers standing alone ("October") feed the carried-forward context.
func FindMonth(text string) (string, bool) {
	m := monthOnlyRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	full := CanonicalMonth(m[1])
	return full, full != ""
}

// FindDay returns a bare day-of-month mention: an ordinal form anywhere
// ("ratified the 15th") or a bare number at the start of the text
// ("15  Midterm Exam"). The leading-only rule for suffix-less numbers keeps
// "Chapter 15" from reading as a date.
func FindDay(text string) (string, bool) {
	if m := ordinalDayRE.FindStringSubmatch(text); m != nil {
		if validDay(m[1]) {
			return m[1], true
		}
	}
	if m := leadingBareDayRE.FindStringSubmatch(text); m != nil {
		if validDay(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

func validDay(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n >= 1 && n <= 31
}
