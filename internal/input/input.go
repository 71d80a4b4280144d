// Package input loads manuscripts in the forms the upstream extractor
// produces: plain text with optional [P<n>] page markers, or HTML that is
// reduced to visible text here.
package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadManuscript loads the manuscript at path. Plain-text files are read
// verbatim; HTML is reduced to visible text with the document title as a
// single synthetic header line. Text with no page markers is handled
// downstream as marker-less.
func ReadManuscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read manuscript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
		return string(data), nil
	case ".html", ".htm":
		return ExtractHTML(string(data))
	default:
		return "", fmt.Errorf("unsupported manuscript format %q (expected .txt, .md or .html)", filepath.Ext(path))
	}
}
