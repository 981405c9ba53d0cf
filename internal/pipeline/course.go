package pipeline

import (
	"regexp"

	"github.com/syllascan/syllascan/internal/segment"
)

// Course titles live near the top of the first page; scanning further
// only picks up schedule noise.
const courseScanLines = 40

var courseNameREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*course\s*name\s*:\s*(.+)$`),
	regexp.MustCompile(`(?i)^\s*course\s*code\s*:\s*(.+)$`),
	regexp.MustCompile(`(?i)^\s*course\s*syllabus\s*(.*)$`),
	// e.g. "MATH-315-2: Numerical Analysis"
	regexp.MustCompile(`^\s*([A-Z]{2,}\s*\d{2,}[A-Z\-]*\s*[:\-]?\s*.+)$`),
}

var courseCodeRE = regexp.MustCompile(`^[A-Z]{2,}[- ]?\d{2,}[A-Z0-9\-]*\b`)

// DetectCourseTitle scans the top of the first page for an explicit
// course header, then falls back to any line opening with a course code.
// Returns "" when nothing plausible is found.
func DetectCourseTitle(firstPageText string) string {
	lines := segment.Lines(firstPageText)
	if len(lines) > courseScanLines {
		lines = lines[:courseScanLines]
	}

	for _, ln := range lines {
		for _, re := range courseNameREs {
			m := re.FindStringSubmatch(ln)
			if m == nil {
				continue
			}
			if name := segment.Normalize(m[1]); name != "" {
				return name
			}
		}
	}

	for _, ln := range lines {
		if courseCodeRE.MatchString(ln) {
			return segment.Normalize(ln)
		}
	}
	return ""
}
