// Package normalize — block assembler.
// Merges classified lines into headings, list items and prose paragraphs
// and serializes each one as a styled <p> element.
package normalize

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/chronoform/core"
)

// Separator is the block separator placed before every heading block.
const Separator = "<br>"

const paragraphOpen = `<p style="margin: 2px 0;">`

var (
	quoteRegex = regexp.MustCompile(`"([^"]+)"`)

	// textEscaper re-escapes markup characters in extracted text. Quotes
	// are left alone so the emphasis rule can still see them.
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// assembler accumulates output blocks for one normalization call.
type assembler struct {
	style  core.Style
	buf    []string
	blocks []string
}

func newAssembler(style core.Style) *assembler {
	return &assembler{style: style}
}

// heading flushes pending prose and emits label as a heading block.
func (a *assembler) heading(label string) {
	a.flush()
	if len(a.blocks) > 0 {
		a.blocks = append(a.blocks, Separator)
	}
	a.blocks = append(a.blocks, formatParagraph(label, a.style.BoldHeadings))
}

// listItem flushes pending prose and emits text as its own plain block.
func (a *assembler) listItem(text string) {
	a.flush()
	a.blocks = append(a.blocks, formatParagraph(text, false))
}

// seed starts the prose buffer with a heading's remainder.
func (a *assembler) seed(text string) {
	a.buf = append(a.buf[:0], text)
}

// prose appends text to the open paragraph and closes it when lookahead
// says the paragraph ends here.
func (a *assembler) prose(text, next string, hasNext bool) {
	a.buf = append(a.buf, text)
	if EndsSentence(text) || !hasNext || StartsUpper(next) {
		a.flush()
	}
}

// flush emits the buffered prose, if any, as a paragraph block.
func (a *assembler) flush() {
	text := strings.TrimSpace(strings.Join(a.buf, " "))
	a.buf = a.buf[:0]
	if text == "" {
		return
	}
	a.blocks = append(a.blocks, formatParagraph(text, false))
}

func (a *assembler) String() string {
	a.flush()
	return strings.Join(a.blocks, "\n")
}

// formatParagraph wraps text in a tightly spaced <p>, italicising quoted spans.
func formatParagraph(text string, bold bool) string {
	text = Emphasize(textEscaper.Replace(text))
	if bold {
		text = "<strong>" + text + "</strong>"
	}
	return paragraphOpen + text + "</p>"
}

// Emphasize wraps every double-quoted span in <em>, keeping the quotes.
func Emphasize(text string) string {
	return quoteRegex.ReplaceAllString(text, `<em>"$1"</em>`)
}
