package segment

import (
	"fmt"
	"regexp"

	"github.com/pvoronin/quotecheck/internal/model"
)

// pageMarkerPattern matches the bracketed page tags (e.g. [P12]) that the
// upstream document extractor emits at page boundaries.
var pageMarkerPattern = regexp.MustCompile(`\[P\d+\]`)

// Annotate returns the text to actually send to the oracle for one chunk.
// The first chunk passes through unchanged. Any later chunk is prefixed
// with a continuation hint naming the last page marker preceding its start
// offset, so the oracle can still report page-accurate locations after a
// split. Text containing no markers at all passes through unchanged.
func Annotate(fullText string, chunkIndex int, chunk model.Chunk) string {
	if chunkIndex == 0 {
		return chunk.Text
	}

	markers := pageMarkerPattern.FindAllString(fullText[:chunk.StartIndex], -1)
	if len(markers) == 0 {
		return chunk.Text
	}

	return fmt.Sprintf("(Context: Continued from %s)\n%s", markers[len(markers)-1], chunk.Text)
}
