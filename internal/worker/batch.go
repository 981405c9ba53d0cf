package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/pipeline"
)

// llmLimiterKey throttles all repair calls as one bucket; the batch
// processor has a single provider per run.
const llmLimiterKey = "llm"

// Extractor defines the interface for extracting one syllabus file
type Extractor interface {
	ExtractFile(ctx context.Context, path string, opts pipeline.Options) (*model.Result, error)
}

// ExtractJob represents a single-file extraction job
type ExtractJob struct {
	Path      string
	Extractor Extractor
	Opts      pipeline.Options
	Limiter   *Limiter
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	// Throttle only when the job will actually hit the provider.
	if j.Limiter != nil && j.Opts.UseLLMRepair {
		if err := j.Limiter.Wait(ctx, llmLimiterKey); err != nil {
			return &ExtractResult{
				Path:  j.Path,
				Error: err,
			}
		}
	}

	result, err := j.Extractor.ExtractFile(ctx, j.Path, j.Opts)
	if err != nil {
		return &ExtractResult{
			Path:   j.Path,
			Result: nil,
			Error:  err,
		}
	}
	return &ExtractResult{
		Path:   j.Path,
		Result: result,
		Error:  nil,
	}
}

// ExtractResult represents the result of an extraction job
type ExtractResult struct {
	Path   string
	Result *model.Result
	Error  error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple syllabus files concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. repairPerMinute caps
// LLM repair calls across all workers; zero disables throttling.
func NewBatchProcessor(extractor Extractor, concurrency int, repairPerMinute float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if repairPerMinute > 0 {
		limiter = NewLimiter(repairPerMinute/60.0, burst)
	}

	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessPaths processes multiple files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string, opts pipeline.Options) []*ExtractResult {
	if len(paths) == 0 {
		return []*ExtractResult{}
	}

	// Create worker pool
	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit jobs
	for _, path := range paths {
		job := &ExtractJob{
			Path:      path,
			Extractor: b.extractor,
			Opts:      opts,
			Limiter:   b.limiter,
		}
		pool.Submit(job)
	}

	// Wait for all jobs to complete
	results := pool.Wait()

	// Convert to ExtractResults
	extractResults := make([]*ExtractResult, len(results))
	for i, result := range results {
		extractResults[i] = result.(*ExtractResult)
	}

	return extractResults
}

// ProcessListFile reads file paths from a list file and processes them
// concurrently
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string, opts pipeline.Options) ([]*ExtractResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths, opts), nil
}

// ReadPathsFromFile reads file paths from a file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
