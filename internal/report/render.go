package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pvoronin/quotecheck/internal/model"
)

// WriteCSV writes the CSV export for items to path
func WriteCSV(path string, items []model.VerificationItem) error {
	if err := os.WriteFile(path, []byte(ToCSV(items)), 0644); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the full report as indented JSON to path
func WriteJSON(path string, rep *model.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints the human-readable outcome of one run
func RenderSummary(w io.Writer, rep *model.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Verification Report: %s\n", rep.Source)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Chunks processed:  %d/%d\n", rep.ChunksDone, rep.ChunkCount)
	fmt.Fprintf(w, "  Citations found:   %d\n", rep.Stats.Total)
	fmt.Fprintf(w, "    Accurate:        %d\n", rep.Stats.Accurate)
	fmt.Fprintf(w, "    Paraphrased:     %d\n", rep.Stats.Paraphrased)
	fmt.Fprintf(w, "    Misattributed:   %d\n", rep.Stats.Misattributed)
	fmt.Fprintf(w, "    Unverifiable:    %d\n", rep.Stats.Unverifiable)
	if rep.Incomplete {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  ⚠ Stopped partway: %s\n", rep.RunError)
		fmt.Fprintln(w, "    Results above cover the chunks completed before the failure.")
	}
	fmt.Fprintln(w)
}
