package input

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements whose end becomes a line break, so the segmenter
// still sees paragraph structure in extracted text
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ExtractHTML reduces an HTML document to plain text. The document title
// becomes a single synthetic header line, since HTML sources carry no page
// markers.
func ExtractHTML(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var title string
	var buf strings.Builder
	atLineStart := true

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if !atLineStart {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
				atLineStart = false
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] && !atLineStart {
			buf.WriteString("\n")
			atLineStart = true
		}
	}
	walk(doc)

	text := strings.TrimSpace(buf.String())
	if title != "" {
		text = "[" + title + "]\n" + text
	}
	return text, nil
}
