// Package pipeline drives the chunked verification run: segmentation,
// context annotation, strictly sequential oracle calls, progress reporting
// and partial-failure isolation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/pvoronin/quotecheck/internal/oracle"
	"github.com/pvoronin/quotecheck/internal/report"
	"github.com/pvoronin/quotecheck/internal/segment"
	"golang.org/x/time/rate"
)

// Event is emitted after every completed chunk: the progress snapshot, the
// items that chunk appended, and the stats recomputed over the whole
// result set so far. Observers only ever see these snapshots; they never
// touch the running result set.
type Event struct {
	Progress model.Progress
	Items    []model.VerificationItem
	Stats    model.AnalysisStats
}

// Result is the accumulated outcome of a run. When the run aborts partway
// it carries the partial result set produced before the failing chunk.
type Result struct {
	Items      []model.VerificationItem
	Stats      model.AnalysisStats
	ChunksDone int
	ChunkCount int
}

// ConfigError reports input problems detected before any chunk is
// dispatched. The run never starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "cannot start verification: " + e.Reason
}

// ChunkError reports a run that stopped partway through. Results
// accumulated before the failing chunk remain available on the Result
// returned alongside it.
type ChunkError struct {
	Chunk int // zero-based index of the chunk that failed or was never started
	Total int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("verification stopped at chunk %d of %d: %v", e.Chunk+1, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Pipeline orchestrates the complete verification run for one manuscript.
// The rate limiter lives here so a batch sharing one Pipeline across
// documents also shares a single global bound on external API load.
type Pipeline struct {
	provider oracle.Provider
	limiter  *rate.Limiter
	maxChunk int
}

// New creates a pipeline around the given oracle provider
func New(provider oracle.Provider, cfg *model.Config) *Pipeline {
	maxChunk := cfg.Chunk.MaxSize
	if maxChunk <= 0 {
		maxChunk = model.DefaultConfig().Chunk.MaxSize
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		burst := cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), burst)
	}

	return &Pipeline{
		provider: provider,
		limiter:  limiter,
		maxChunk: maxChunk,
	}
}

// Run verifies fullText chunk by chunk, strictly sequentially: each oracle
// call must resolve before the next chunk is dispatched, which bounds
// external API load and keeps result-append order equal to document order.
// After every completed chunk one Event is sent on events when it is
// non-nil; the caller owns the channel and closes it after Run returns.
//
// An oracle failure aborts the run: the partial Result is returned
// alongside a *ChunkError and items from prior chunks are never rolled
// back. Cancellation is cooperative, observed at chunk boundaries only, so
// an in-flight oracle call always finishes or fails on its own.
func (p *Pipeline) Run(ctx context.Context, fullText string, events chan<- Event) (*Result, error) {
	if p.provider == nil {
		return nil, &ConfigError{Reason: "no oracle provider configured"}
	}
	if strings.TrimSpace(fullText) == "" {
		return nil, &ConfigError{Reason: "document is empty"}
	}

	chunks := segment.Split(fullText, p.maxChunk)
	res := &Result{ChunkCount: len(chunks)}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return res, &ChunkError{Chunk: i, Total: res.ChunkCount, Err: err}
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return res, &ChunkError{Chunk: i, Total: res.ChunkCount, Err: err}
			}
		}

		annotated := segment.Annotate(fullText, i, chunk)

		items, err := p.provider.Verify(ctx, annotated)
		if err != nil {
			return res, &ChunkError{Chunk: i, Total: res.ChunkCount, Err: err}
		}

		// Sole mutation point of the result set: append in oracle order,
		// recompute stats from scratch, then advance progress.
		res.Items = append(res.Items, items...)
		res.Stats = report.Aggregate(res.Items)
		res.ChunksDone = i + 1

		if events != nil {
			events <- Event{
				Progress: model.Progress{Current: res.ChunksDone, Total: res.ChunkCount},
				Items:    items,
				Stats:    res.Stats,
			}
		}
	}

	return res, nil
}

// Report assembles the report envelope for a completed or aborted run
func (r *Result) Report(source, providerName, modelName string, runErr error) *model.Report {
	rep := &model.Report{
		Source:     source,
		VerifiedAt: time.Now().UTC(),
		Provider:   providerName,
		Model:      modelName,
		ChunkCount: r.ChunkCount,
		ChunksDone: r.ChunksDone,
		Items:      r.Items,
		Stats:      r.Stats,
	}
	if runErr != nil {
		rep.Incomplete = true
		rep.RunError = runErr.Error()
	}
	return rep
}
