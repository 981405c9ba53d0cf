// Package segment splits raw page text into scan-ready lines and
// table-like rows into cells.
package segment

import (
	"regexp"
	"strings"
)

var (
	// Joins "word-\nnext" into "wordnext" so keyword matches spanning a
	// line wrap are not missed. Applied once, before line splitting.
	hyphenJoinRE = regexp.MustCompile(`(\w)-\n(\w)`)

	spaceRunRE = regexp.MustCompile(`[ \t]+`)
	cellGapRE  = regexp.MustCompile(`\s{2,}`)
)

// Lines splits page text into cleaned, non-empty lines. Hyphenation repair
// happens here exactly once; callers must not re-split. Runs of 2+ spaces
// survive as exactly two spaces: they are the cell boundaries SplitRow
// looks for in fixed-width schedule rows.
func Lines(pageText string) []string {
	if pageText == "" {
		return nil
	}

	text := hyphenJoinRE.ReplaceAllString(pageText, "$1$2")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = cleanLine(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func cleanLine(s string) string {
	s = replaceTypography(s)
	s = cellGapRE.ReplaceAllString(s, "\x00")
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\x00", "  ")
	return strings.TrimSpace(s)
}

func replaceTypography(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	return s
}

// Normalize collapses all whitespace runs to single spaces and trims.
// Used for titles and cell text, where column gaps no longer matter.
func Normalize(s string) string {
	s = replaceTypography(s)
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SplitRow splits a schedule-style line into cells. Vertical bars win when
// present; otherwise runs of 2+ spaces (fixed-width table rendering).
// A line that yields a single non-empty segment is not a row: the whole
// line comes back as one cell.
func SplitRow(line string) []string {
	if strings.Contains(line, "|") {
		var cells []string
		for _, p := range strings.Split(line, "|") {
			p = strings.TrimSpace(p)
			if p != "" {
				cells = append(cells, p)
			}
		}
		if len(cells) > 0 {
			return cells
		}
		return []string{strings.TrimSpace(line)}
	}

	var cells []string
	for _, p := range cellGapRE.Split(line, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	if len(cells) > 1 {
		return cells
	}
	return []string{strings.TrimSpace(line)}
}
