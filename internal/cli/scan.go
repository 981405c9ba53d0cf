package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/pipeline"
)

var (
	outJSON     string
	timeout     time.Duration
	noCache     bool
	yearHint    int
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract assignments and due dates from a single syllabus",
	Long: `Scan reads one syllabus (PDF or plain text) and extracts:
- Assignment-like items found by the keyword vocabulary
- Due dates from the same line, nearby lines, and schedule table rows
- A course title, term, and year hint for resolving partial dates
- A per-item provenance tag and an overall confidence summary

Example:
  syllascan scan syllabus.pdf
  syllascan scan syllabus.pdf --json assignments.json
  syllascan scan syllabus.txt --year 2026
  syllascan scan syllabus.pdf --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (\"-\" for stdout)")

	// Extraction flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh extraction)")
	scanCmd.Flags().IntVar(&yearHint, "year", 0, "override the inferred year for dates without one")

	// LLM flags
	scanCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM repair pass")
	scanCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// applyLLMFlags wires the provider selection and environment API keys
// into the configuration. Shared by scan and batch.
func applyLLMFlags(cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", file)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := loadConfig()
	if noCache {
		cfg.Cache.Enabled = false
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	result, err := p.ExtractFile(ctx, file, pipeline.Options{
		UseLLMRepair: llmEnabled,
		YearHint:     yearHint,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Scanned %d pages\n", result.TotalPages)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d items (%d dated, %d undated)\n",
			result.Summary.Total, result.Summary.Dated, result.Summary.Undated)
		if result.LLMUsed {
			fmt.Fprintf(os.Stderr, "✓ Repaired items using %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		} else if result.LLMError != "" {
			fmt.Fprintf(os.Stderr, "✗ LLM repair failed: %s\n", result.LLMError)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(nil)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if outJSON != "-" && verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
		return nil
	}

	renderer.RenderSummary(result)
	return nil
}
