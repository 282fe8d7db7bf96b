// Package render — Markdown renderer.
// Converts every entryFinal cell to Markdown with html-to-markdown so the
// comparison can be read in a terminal or diffed as text.
package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/chronoform/core"
)

// MarkdownRenderer writes a comparison as a Markdown document.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns one section per entry id with a sub-section per column.
func (r *MarkdownRenderer) Render(cmp core.Comparison) ([]byte, error) {
	title := cmp.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)

	for _, row := range cmp.Rows {
		fmt.Fprintf(&b, "\n## Entry ID: %d\n", row.ID)
		for i, cell := range row.Cells {
			md, err := cellMarkdown(cell)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", row.ID, err)
			}
			fmt.Fprintf(&b, "\n### %s\n\n", columnLabel(cmp.Columns, i))
			if md == "" {
				b.WriteString("_(empty)_\n")
				continue
			}
			b.WriteString(md)
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// cellMarkdown converts one entryFinal fragment into Markdown.
func cellMarkdown(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func columnLabel(columns []string, i int) string {
	if i < len(columns) && columns[i] != "" {
		return columns[i]
	}
	return fmt.Sprintf("Column %d", i+1)
}
