// Package normalize — line classifier.
// Decides whether a paragraph line is a heading, a list item or prose.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the classification of a single line.
type Kind int

const (
	// Prose accumulates into the current paragraph.
	Prose Kind = iota
	// Heading is a "Label: remainder" line.
	Heading
	// HeadingOnly is a label with nothing after it.
	HeadingOnly
	// ListItem is an enumerated line such as "1. Rest" or "2) Fluids".
	ListItem
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Prose:
		return "prose"
	case Heading:
		return "heading"
	case HeadingOnly:
		return "heading-only"
	case ListItem:
		return "list-item"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying one line.
// Label is set for Heading and HeadingOnly, Remainder for Heading only,
// Text for ListItem and Prose.
type Classification struct {
	Kind      Kind
	Label     string
	Remainder string
	Text      string
}

var (
	shoutRegex    = regexp.MustCompile(`^[A-Z\s-]+:?$`)
	listItemRegex = regexp.MustCompile(`^\d+[.)]\s`)
)

// Classify assigns a line its classification. Rules are tried in order and
// the first match wins; anything unmatched is prose.
func Classify(line string) Classification {
	line = strings.TrimSpace(line)

	if label, rest, ok := SplitHeading(line); ok && rest != "" {
		return Classification{Kind: Heading, Label: label, Remainder: rest}
	}
	if strings.HasSuffix(line, ":") {
		return Classification{Kind: HeadingOnly, Label: line}
	}
	if shoutRegex.MatchString(line) {
		return Classification{Kind: HeadingOnly, Label: line}
	}
	if listItemRegex.MatchString(line) {
		return Classification{Kind: ListItem, Text: line}
	}
	return Classification{Kind: Prose, Text: line}
}

// SplitHeading splits line on its first heading-safe colon, one with no
// digit directly before or after it, so "16:30" and "1:2" never split.
// The label keeps the colon. ok is false when there is no such colon.
func SplitHeading(line string) (label, rest string, ok bool) {
	i := HeadingColon(line)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i+1]), strings.TrimSpace(line[i+1:]), true
}

// HeadingColon returns the byte index of the first heading-safe colon, or -1.
func HeadingColon(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i > 0 && isDigit(line[i-1]) {
			continue
		}
		if i+1 < len(line) && isDigit(line[i+1]) {
			continue
		}
		return i
	}
	return -1
}

// StartsUpper reports whether the first character of s is an uppercase letter.
func StartsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// EndsSentence reports whether s ends in terminal punctuation.
func EndsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
