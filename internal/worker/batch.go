package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cadgauge/takeoff/internal/model"
)

// Recognizer runs the recognition pipeline over one entity file
type Recognizer interface {
	RecognizeFile(ctx context.Context, path string) (*model.RecognitionResult, error)
}

// FileJob recognizes one drawing's entity file
type FileJob struct {
	Path       string
	Recognizer Recognizer
}

// Execute executes the recognition job
func (j *FileJob) Execute(ctx context.Context) Result {
	result, err := j.Recognizer.RecognizeFile(ctx, j.Path)
	return &FileResult{
		Path:   j.Path,
		Result: result,
		Err:    err,
	}
}

// FileResult is the outcome of one file's recognition run
type FileResult struct {
	Path   string
	Result *model.RecognitionResult
	Err    error
}

// GetError returns the error from the file result
func (r *FileResult) GetError() error {
	return r.Err
}

// BatchProcessor recognizes many entity files concurrently
type BatchProcessor struct {
	recognizer  Recognizer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(recognizer Recognizer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		recognizer:  recognizer,
		concurrency: concurrency,
	}
}

// ProcessPaths recognizes the given entity files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{
			Path:       path,
			Recognizer: b.recognizer,
		})
	}

	results := pool.Wait()

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		fileResults[i] = result.(*FileResult)
	}

	return fileResults
}

// ProcessListFile reads entity-file paths from a list file and recognizes
// them concurrently.
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read file list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a list file (one per line),
// skipping blanks, comments, and duplicates.
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

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

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
