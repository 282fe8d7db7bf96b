// Package extract implements the Extractor interface.
// It turns an entry's HTML fragment into the ordered list of paragraph lines:
//  1. Every <p> element is selected in document order
//  2. Its text nodes are joined with spaces and whitespace is collapsed
//  3. Lines that are empty after trimming are dropped
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// paragraphSelector matches the paragraph-level nodes authoring tools emit.
var paragraphSelector = cascadia.MustCompile("p")

// LineExtractor pulls paragraph text lines out of HTML fragments.
type LineExtractor struct{}

// New creates a LineExtractor.
func New() *LineExtractor {
	return &LineExtractor{}
}

// Lines returns the trimmed, non-empty text of every paragraph in html.
// Parsing is best effort; input the parser rejects yields no lines.
func (e *LineExtractor) Lines(fragment string) []string {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var lines []string
	doc.FindMatcher(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		if line := paragraphText(s.Nodes[0]); line != "" {
			lines = append(lines, line)
		}
	})
	return lines
}

// paragraphText joins the text nodes below n with single spaces. Invalid
// UTF-8 runs become a single U+FFFD.
func paragraphText(n *html.Node) string {
	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.ToValidUTF8(strings.Join(words, " "), "\uFFFD")
}
