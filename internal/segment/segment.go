// Package segment splits manuscripts into bounded, paragraph-aligned chunks
// and stitches positional context across chunk boundaries.
package segment

import (
	"strings"

	"github.com/pvoronin/quotecheck/internal/model"
)

// Split divides text into ordered, size-bounded chunks. When the hard cut
// would fall mid-paragraph, the cut moves back to the nearest line break,
// but only if one exists within the last 10% of the chunk window; texts with
// no line breaks near the window fall back to hard cuts. Chunks are
// contiguous and non-overlapping: concatenated in order they reconstruct
// text exactly. Pure function of (text, maxSize).
func Split(text string, maxSize int) []model.Chunk {
	if len(text) == 0 || maxSize <= 0 {
		return nil
	}

	var chunks []model.Chunk
	cursor := 0
	for cursor < len(text) {
		end := cursor + maxSize
		if end >= len(text) {
			end = len(text)
		} else {
			threshold := cursor + maxSize*9/10
			if i := strings.LastIndexByte(text[cursor:end], '\n'); i >= 0 {
				abs := cursor + i
				if abs >= threshold {
					// The newline stays with the chunk it terminates, so the
					// next chunk starts at a paragraph head.
					end = abs + 1
				}
			}
		}
		chunks = append(chunks, model.Chunk{Text: text[cursor:end], StartIndex: cursor})
		cursor = end
	}

	return chunks
}
