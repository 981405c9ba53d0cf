package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/syllascan/syllascan/internal/pipeline"
	"github.com/syllascan/syllascan/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	repairRPM    float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract assignments from multiple syllabi in parallel",
	Long: `Batch processes multiple syllabus files concurrently:
- Read file paths from the input file (one per line, # for comments)
- Process files in parallel with a configurable worker count
- Optionally rate-limit LLM repair calls across all workers
- Write one JSON result per input file

Example:
  syllascan batch syllabi.txt
  syllascan batch syllabi.txt --concurrency 10 --output-dir ./results
  syllascan batch syllabi.txt --llm --llm-provider ollama --repair-rpm 30`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./syllascan-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&repairRPM, "repair-rpm", 0, "cap LLM repair calls per minute (0 = config value)")

	// Shared extraction flags
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh extraction)")
	batchCmd.Flags().IntVar(&yearHint, "year", 0, "override the inferred year for dates without one")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM repair pass")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Syllascan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg := loadConfig()
	if noCache {
		cfg.Cache.Enabled = false
	}
	if repairRPM > 0 {
		cfg.LLM.RequestsPerMinute = repairRPM
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		if cfg.LLM.RequestsPerMinute > 0 {
			fmt.Fprintf(os.Stderr, "  Repair rate:  %.0f/min\n", cfg.LLM.RequestsPerMinute)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	// Create batch processor
	processor := worker.NewBatchProcessor(p, concurrency, cfg.LLM.RequestsPerMinute, 1)

	// Process files
	fmt.Fprintf(os.Stderr, "⚙️  Reading paths from file...\n")
	results, err := processor.ProcessListFile(ctx, file, pipeline.Options{
		UseLLMRepair: llmEnabled,
		YearHint:     yearHint,
	})
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing files with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer(nil)
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, resultFilename(result.Path))
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %d items (%d dated, confidence %s)\n",
			result.Path, result.Result.Summary.Total, result.Result.Summary.Dated,
			result.Result.Summary.Confidence)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// resultFilename maps an input path to a safe output name, replacing the
// extension with .json.
func resultFilename(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "result"
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	base = replacer.Replace(base)

	// Limit length
	if len(base) > 100 {
		base = base[:100]
	}

	return base + ".json"
}
