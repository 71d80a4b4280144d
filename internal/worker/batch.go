package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pvoronin/quotecheck/internal/input"
	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/pvoronin/quotecheck/internal/pipeline"
)

// Runner is the pipeline surface the batch processor needs
type Runner interface {
	Run(ctx context.Context, fullText string, events chan<- pipeline.Event) (*pipeline.Result, error)
}

// VerifyJob verifies one manuscript end to end
type VerifyJob struct {
	Path     string
	Runner   Runner
	Provider string
	Model    string
}

// VerifyResult is the outcome of verifying one manuscript. Report may be
// non-nil even when Err is set: an aborted run still carries its partial
// result set.
type VerifyResult struct {
	Path   string
	Report *model.Report
	Err    error
}

// GetError returns the error from the verification result
func (r *VerifyResult) GetError() error {
	return r.Err
}

// Execute reads the manuscript and runs the verification pipeline over it.
// Chunks within the manuscript stay strictly sequential; only whole
// documents run in parallel.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	text, err := input.ReadManuscript(j.Path)
	if err != nil {
		return &VerifyResult{Path: j.Path, Err: err}
	}

	res, runErr := j.Runner.Run(ctx, text, nil)
	if res == nil {
		return &VerifyResult{Path: j.Path, Err: runErr}
	}

	return &VerifyResult{
		Path:   j.Path,
		Report: res.Report(j.Path, j.Provider, j.Model, runErr),
		Err:    runErr,
	}
}

// BatchProcessor verifies multiple manuscripts concurrently
type BatchProcessor struct {
	runner   Runner
	provider string
	model    string
	workers  int
}

// NewBatchProcessor creates a batch processor that shares one pipeline
// (and therefore one rate limiter) across all documents
func NewBatchProcessor(runner Runner, provider, mdl string, workers int) *BatchProcessor {
	return &BatchProcessor{
		runner:   runner,
		provider: provider,
		model:    mdl,
		workers:  workers,
	}
}

// ProcessPaths verifies the given manuscripts with bounded parallelism
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*VerifyResult {
	jobs := make([]Job, 0, len(paths))
	for _, path := range paths {
		jobs = append(jobs, &VerifyJob{
			Path:     path,
			Runner:   b.runner,
			Provider: b.provider,
			Model:    b.model,
		})
	}

	results := RunAll(ctx, b.workers, jobs)

	out := make([]*VerifyResult, len(results))
	for i, r := range results {
		out[i] = r.(*VerifyResult)
	}
	return out
}

// ProcessManifest reads manuscript paths from a manifest file and verifies them
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*VerifyResult, error) {
	paths, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadManifest reads manuscript paths from a file (one per line). Blank
// lines and # comments are skipped; duplicate paths are processed once.
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
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
