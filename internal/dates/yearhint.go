package dates

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	termYearRE = regexp.MustCompile(`(?i)\b(spring|summer|fall|autumn|winter)\s+((?:19|20)\d{2})\b`)
	anyYearRE  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// PDF metadata dates look like "D:20250825215201Z"
	pdfDateRE = regexp.MustCompile(`^D:((?:19|20)\d{2})`)
)

// InferYear resolves the document's year hint from metadata and page text:
// the PDF creation date, explicit "Fall/Spring YYYY" term text, and any
// 4-digit year literal all contribute candidates. The most frequent
// candidate wins; ties break to the maximum. Returns 0 when the document
// offers no year at all.
func InferYear(metaCreated string, pageTexts []string) int {
	var candidates []int

	if y := yearFromMetaDate(metaCreated); y != 0 {
		candidates = append(candidates, y)
	}

	for _, text := range pageTexts {
		for _, m := range anyYearRE.FindAllString(text, -1) {
			if y, err := strconv.Atoi(m); err == nil {
				candidates = append(candidates, y)
			}
		}
	}

	return pickYear(candidates)
}

// FindTerm returns explicit term text like "Fall 2025" in title case,
// or "" when the document names no term.
func FindTerm(pageTexts []string) string {
	for _, text := range pageTexts {
		if m := termYearRE.FindStringSubmatch(text); m != nil {
			season := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
			return season + " " + m[2]
		}
	}
	return ""
}

func yearFromMetaDate(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if m := pdfDateRE.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y
	}
	if m := anyYearRE.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}

func pickYear(candidates []int) int {
	if len(candidates) == 0 {
		return 0
	}

	counts := make(map[int]int)
	for _, y := range candidates {
		counts[y]++
	}

	best, bestCount := 0, 0
	for y, c := range counts {
		if c > bestCount || (c == bestCount && y > best) {
			best, bestCount = y, c
		}
	}
	return best
}
