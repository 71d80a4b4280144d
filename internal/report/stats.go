// Package report derives statistics from accumulated verification items and
// serializes them for export.
package report

import "github.com/pvoronin/quotecheck/internal/model"

// Aggregate recomputes summary statistics from the full item set. Always a
// complete linear scan; counters are never patched incrementally so they
// cannot drift from the source of truth.
func Aggregate(items []model.VerificationItem) model.AnalysisStats {
	stats := model.AnalysisStats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case model.StatusAccurate:
			stats.Accurate++
		case model.StatusParaphrased:
			stats.Paraphrased++
		case model.StatusMisattributed:
			stats.Misattributed++
		case model.StatusUnverifiable:
			stats.Unverifiable++
		}
	}
	return stats
}
