package report

import (
	"strings"

	"github.com/pvoronin/quotecheck/internal/model"
)

// csvColumns is the fixed export column order
var csvColumns = []string{"location", "quote_text", "claimed_source", "status", "notes"}

// ToCSV serializes items losslessly: every field double-quoted, embedded
// quotes doubled, newlines inside fields passed through raw. encoding/csv
// quotes conditionally, so this format is written by hand. An empty item
// set yields no output at all, not even a header row.
func ToCSV(items []model.VerificationItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow(&b, csvColumns...)
	for _, item := range items {
		b.WriteByte('\n')
		writeRow(&b, item.Location, item.QuoteText, item.ClaimedSource, string(item.Status), item.Notes)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
