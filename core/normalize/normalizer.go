// Package normalize implements the Normalizer interface.
// It re-renders a chronology entry's loosely formatted HTML into a
// normalized fragment: headings, list items and prose paragraphs, each
// wrapped in its own <p>, with quoted text italicised.
//
// A Normalizer holds no mutable state, so one value can serve many
// goroutines at once.
package normalize

import (
	"strings"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/core/extract"
)

// EntryNormalizer runs the extract → classify → assemble pass.
type EntryNormalizer struct {
	style     core.Style
	extractor core.Extractor
}

// Option configures an EntryNormalizer.
type Option func(*EntryNormalizer)

// WithExtractor replaces the default paragraph extractor.
func WithExtractor(e core.Extractor) Option {
	return func(n *EntryNormalizer) {
		n.extractor = e
	}
}

// New creates an EntryNormalizer with the given presentation style.
func New(style core.Style, opts ...Option) *EntryNormalizer {
	n := &EntryNormalizer{
		style:     style,
		extractor: extract.New(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts an HTML fragment into the normalized fragment.
// Empty or unparseable input yields "".
func (n *EntryNormalizer) Normalize(html string) string {
	return NormalizeLines(n.extractor.Lines(html), n.style)
}

// NormalizeLines assembles already extracted lines. Each prose line looks
// one line ahead to decide whether its paragraph continues.
func NormalizeLines(lines []string, style core.Style) string {
	lines = compact(lines)
	a := newAssembler(style)

	for i, line := range lines {
		c := Classify(line)
		switch c.Kind {
		case Heading:
			a.heading(c.Label)
			a.seed(c.Remainder)
		case HeadingOnly:
			a.heading(c.Label)
		case ListItem:
			a.listItem(c.Text)
		default:
			var next string
			hasNext := i+1 < len(lines)
			if hasNext {
				next = lines[i+1]
			}
			a.prose(c.Text, next, hasNext)
		}
	}

	return a.String()
}

// compact trims lines and drops the blank ones.
func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Normalize is shorthand for New(style).Normalize(html).
func Normalize(html string, style core.Style) string {
	return New(style).Normalize(html)
}
