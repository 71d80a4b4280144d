package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pvoronin/quotecheck/internal/cache"
	"github.com/pvoronin/quotecheck/internal/input"
	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/pvoronin/quotecheck/internal/oracle"
	"github.com/pvoronin/quotecheck/internal/pipeline"
	"github.com/pvoronin/quotecheck/internal/report"
	"github.com/spf13/cobra"
)

var (
	outCSV      string
	outJSON     string
	maxChunk    int
	provider    string
	oracleModel string
	timeoutSecs int
	noCache     bool
	rateRPS     float64
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <manuscript>",
	Short: "Verify every citation in a manuscript against its claimed source",
	Long: `Verify splits a manuscript into paragraph-aligned chunks, sends each
chunk to the verification oracle strictly one at a time, and accumulates
the findings into a CSV report.

Each finding carries the location, the exact quoted text, the claimed
source, a verdict (ACCURATE, PARAPHRASED, MISATTRIBUTED, UNVERIFIABLE)
and the oracle's notes. If a chunk fails partway through, everything
verified before the failure is still written out.

Example:
  quotecheck verify manuscript.txt
  quotecheck verify manuscript.txt --csv findings.csv --json findings.json
  quotecheck verify book.html --provider anthropic --rate 0.25`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outCSV, "csv", "report.csv", "output CSV path")
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")

	// Oracle flags
	verifyCmd.Flags().StringVar(&provider, "provider", "openai", "oracle provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&oracleModel, "model", "", "oracle model name (provider default when empty)")
	verifyCmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "per-chunk oracle timeout in seconds")

	// Pipeline flags
	verifyCmd.Flags().IntVar(&maxChunk, "max-chunk", 12000, "maximum chunk size in bytes")
	verifyCmd.Flags().Float64Var(&rateRPS, "rate", 0.5, "oracle requests per second (0 disables pacing)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the oracle response cache")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Ctrl-C stops at the next chunk boundary; the in-flight call finishes.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Oracle.Provider = provider
	cfg.Oracle.Model = oracleModel
	cfg.Oracle.Timeout = timeoutSecs
	cfg.Chunk.MaxSize = maxChunk
	cfg.Cache.Enabled = !noCache
	cfg.RateLimit.RequestsPerSecond = rateRPS
	cfg.Output.Verbose = verbose

	if err := resolveCredentials(&cfg.Oracle); err != nil {
		return err
	}

	text, err := input.ReadManuscript(path)
	if err != nil {
		return fmt.Errorf("read manuscript: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s (%d bytes)\n", path, len(text))
		fmt.Fprintf(os.Stderr, "Oracle: %s/%s\n", cfg.Oracle.Provider, displayModel(cfg.Oracle))
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(prov, cfg)

	events := make(chan pipeline.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			fmt.Fprintf(os.Stderr, "chunk %d/%d verified, %d citations so far\n",
				ev.Progress.Current, ev.Progress.Total, ev.Stats.Total)
		}
	}()

	res, runErr := p.Run(ctx, text, events)
	close(events)
	<-done

	// A run that never started produced nothing worth writing
	var cfgErr *pipeline.ConfigError
	if errors.As(runErr, &cfgErr) {
		return runErr
	}

	rep := res.Report(path, prov.Name(), displayModel(cfg.Oracle), runErr)

	if err := writeOutputs(rep); err != nil {
		return err
	}

	report.RenderSummary(os.Stdout, rep)

	if runErr != nil {
		return fmt.Errorf("partial results written: %w", runErr)
	}
	return nil
}

// resolveCredentials fills APIKey/BaseURL from the environment. A missing
// key for a hosted provider is a configuration error caught before any
// chunk is dispatched.
func resolveCredentials(oc *model.OracleConfig) error {
	switch oc.Provider {
	case "openai":
		oc.APIKey = os.Getenv("OPENAI_API_KEY")
		if oc.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		oc.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if oc.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			oc.BaseURL = baseURL
		}
	}
	return nil
}

// buildProvider creates the oracle provider, wrapped in the response cache
// unless caching is disabled
func buildProvider(cfg *model.Config) (oracle.Provider, error) {
	prov, err := oracle.NewProvider(oracle.ConfigFromModel(cfg.Oracle))
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = home + "/.quotecheck/cache"
			}
		}
		store := cache.NewLayeredCache(dir, cfg.Cache.TTL)
		prov = oracle.NewCachedProvider(prov, store, displayModel(cfg.Oracle))
	}

	return prov, nil
}

// displayModel names the effective model for reports and cache keys
func displayModel(oc model.OracleConfig) string {
	if oc.Model != "" {
		return oc.Model
	}
	return "default"
}

func writeOutputs(rep *model.Report) error {
	if outCSV != "" {
		if err := report.WriteCSV(outCSV, rep.Items); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ CSV report: %s\n", outCSV)
		}
	}
	if outJSON != "" {
		if err := report.WriteJSON(outJSON, rep); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
		}
	}
	return nil
}
