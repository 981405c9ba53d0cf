package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/pipeline"
)

// MockExtractor implements Extractor interface
type MockExtractor struct {
	ShouldError bool
}

func (m *MockExtractor) ExtractFile(ctx context.Context, path string, opts pipeline.Options) (*model.Result, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("extract error")
	}
	return &model.Result{
		CourseTitle: "Test Course",
		Items: []model.Assignment{
			{Title: "Homework 1", DueDateISO: "2025-09-04", Source: model.OriginSameLine},
		},
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	extractor := &MockExtractor{}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	paths := []string{"a.pdf", "b.pdf", "c.txt"}
	ctx := context.Background()

	results := processor.ProcessPaths(ctx, paths, pipeline.Options{})

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil {
				t.Error("expected result for successful extraction")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	extractor := &MockExtractor{ShouldError: true}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	paths := []string{"bad.pdf"}
	ctx := context.Background()

	results := processor.ProcessPaths(ctx, paths, pipeline.Options{})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	extractor := &MockExtractor{}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	results := processor.ProcessPaths(context.Background(), []string{}, pipeline.Options{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_RepairThrottled(t *testing.T) {
	extractor := &MockExtractor{}
	// 6000 per minute = 100 per second; burst 1 keeps the limiter engaged
	// without stalling the test.
	processor := NewBatchProcessor(extractor, 2, 6000, 1)

	if processor.limiter == nil {
		t.Fatal("expected limiter for nonzero repair rate")
	}

	paths := []string{"a.pdf", "b.pdf", "c.pdf"}
	results := processor.ProcessPaths(context.Background(), paths, pipeline.Options{UseLLMRepair: true})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
	}
}

func TestReadPathsFromFile(t *testing.T) {
	content := `syllabi/math315.pdf
# comment
syllabi/cs101.pdf

syllabi/hist210.txt   `

	tmpfile, err := os.CreateTemp("", "paths")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{"syllabi/math315.pdf", "syllabi/cs101.pdf", "syllabi/hist210.txt"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}

	for i, path := range paths {
		if path != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, path)
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestExtractResult_GetError(t *testing.T) {
	r1 := &ExtractResult{Path: "a.pdf", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("extract failed")
	r2 := &ExtractResult{Path: "a.pdf", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessListFile(t *testing.T) {
	content := "a.pdf\nb.pdf\n# comment\n\nc.txt\n"

	tmpfile, err := os.CreateTemp("", "batch_paths")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	extractor := &MockExtractor{}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	results, err := processor.ProcessListFile(context.Background(), tmpfile.Name(), pipeline.Options{})
	if err != nil {
		t.Fatalf("ProcessListFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessListFile_NonExistent(t *testing.T) {
	extractor := &MockExtractor{}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	_, err := processor.ProcessListFile(context.Background(), "no_such_file.txt", pipeline.Options{})
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessListFile_Empty(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "empty_paths")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	extractor := &MockExtractor{}
	processor := NewBatchProcessor(extractor, 2, 0, 0)

	results, err := processor.ProcessListFile(context.Background(), tmpfile.Name(), pipeline.Options{})
	if err != nil {
		t.Fatalf("ProcessListFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}

func TestReadPathsFromFile_Deduplication(t *testing.T) {
	content := `syllabi/math315.pdf
syllabi/math315.pdf`

	tmpfile, err := os.CreateTemp("", "paths_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	if len(paths) != 1 {
		t.Errorf("expected 1 path after deduplication, got %d", len(paths))
	}
}
