package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/pvoronin/quotecheck/internal/pipeline"
	"github.com/pvoronin/quotecheck/internal/report"
	"github.com/pvoronin/quotecheck/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchWorkers  int
	batchOutDir   string
	batchProvider string
	batchModel    string
	batchTimeout  int
	batchNoCache  bool
	batchRate     float64
	batchMaxChunk int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Verify multiple manuscripts from a manifest file",
	Long: `Batch reads manuscript paths from a manifest file (one per line,
# comments and blank lines skipped) and verifies them concurrently.

Documents run in parallel up to the worker limit, but chunks within each
document stay strictly sequential, and all documents share one rate
limiter so total oracle load stays bounded. Each manuscript gets its own
CSV and JSON report in the output directory; a document that fails
partway still gets a report covering the chunks it completed.

Example:
  quotecheck batch manuscripts.txt
  quotecheck batch manuscripts.txt --workers 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent documents")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "./quotecheck-reports", "directory for per-document reports")

	// Oracle flags
	batchCmd.Flags().StringVar(&batchProvider, "provider", "openai", "oracle provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "oracle model name (provider default when empty)")
	batchCmd.Flags().IntVar(&batchTimeout, "timeout", 120, "per-chunk oracle timeout in seconds")

	// Pipeline flags
	batchCmd.Flags().IntVar(&batchMaxChunk, "max-chunk", 12000, "maximum chunk size in bytes")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0.5, "oracle requests per second shared across all documents (0 disables pacing)")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the oracle response cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Oracle.Provider = batchProvider
	cfg.Oracle.Model = batchModel
	cfg.Oracle.Timeout = batchTimeout
	cfg.Chunk.MaxSize = batchMaxChunk
	cfg.Cache.Enabled = !batchNoCache
	cfg.RateLimit.RequestsPerSecond = batchRate
	cfg.Batch.Workers = batchWorkers
	cfg.Batch.OutputDir = batchOutDir

	if err := resolveCredentials(&cfg.Oracle); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Batch.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	// One pipeline for the whole batch: all documents share its rate limiter
	p := pipeline.New(prov, cfg)
	bp := worker.NewBatchProcessor(p, prov.Name(), displayModel(cfg.Oracle), cfg.Batch.Workers)

	results, err := bp.ProcessManifest(ctx, manifestPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verified %d documents\n", len(results))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %d citations\n", r.Path, r.Report.Stats.Total)
		}

		// Partial reports are still worth writing
		if r.Report == nil {
			continue
		}
		if err := writeBatchReport(cfg.Batch.OutputDir, r); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}

	fmt.Printf("✓ %d reports written to %s\n", len(results), cfg.Batch.OutputDir)
	return nil
}

// writeBatchReport writes CSV and JSON reports for one document into dir,
// named after the manuscript file
func writeBatchReport(dir string, r *worker.VerifyResult) error {
	base := filepath.Base(r.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if err := report.WriteCSV(filepath.Join(dir, stem+".csv"), r.Report.Items); err != nil {
		return err
	}
	return report.WriteJSON(filepath.Join(dir, stem+".json"), r.Report)
}
