package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/syllascan/syllascan/internal/model"
)

// Renderer writes extraction results as JSON or a human summary
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing summaries to out (stdout when nil)
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the result as indented JSON to path, or to the
// renderer's writer when path is empty or "-".
func (r *Renderer) RenderJSON(result *model.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = r.out.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// RenderSummary prints a short human-readable digest of the result.
func (r *Renderer) RenderSummary(result *model.Result) {
	if result.CourseTitle != "" {
		fmt.Fprintf(r.out, "Course:     %s\n", result.CourseTitle)
	}
	if result.Term != "" {
		fmt.Fprintf(r.out, "Term:       %s\n", result.Term)
	}
	if result.YearHint != 0 {
		fmt.Fprintf(r.out, "Year hint:  %d\n", result.YearHint)
	}
	fmt.Fprintf(r.out, "Pages:      %d\n", result.TotalPages)
	fmt.Fprintf(r.out, "Items:      %d (%d dated, %d undated)\n",
		result.Summary.Total, result.Summary.Dated, result.Summary.Undated)
	fmt.Fprintf(r.out, "Confidence: %s\n", result.Summary.Confidence)

	if result.LLMUsed {
		fmt.Fprintln(r.out, "LLM repair: applied")
	} else if result.LLMError != "" {
		fmt.Fprintf(r.out, "LLM repair: failed (%s); heuristic items returned\n", result.LLMError)
	}

	for _, it := range result.Items {
		date := it.DueDateISO
		if date == "" {
			if it.DueDateRaw != "" {
				date = fmt.Sprintf("(%s)", it.DueDateRaw)
			} else {
				date = "undated"
			}
		}
		fmt.Fprintf(r.out, "  %-10s  p.%-3d %s\n", date, it.Page, it.Title)
	}
}
