// Package render — PDF renderer.
// Prints the comparison with gofpdf: one section per entry id, one
// sub-section per column. Cells go through Markdown first so headings,
// bold labels and list items keep their shape on paper.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/chronoform/core"
)

var (
	numberedItemRegex = regexp.MustCompile(`^\d+[.)]\s`)
	boldLineRegex     = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	italicRegex       = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex   = regexp.MustCompile("`([^`]+)`")
	linkRegex         = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// PDFRenderer renders a comparison as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the comparison into PDF bytes.
func (r *PDFRenderer) Render(cmp core.Comparison) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := cmp.Title
	if title == "" {
		title = DefaultTitle
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(4)

	for _, row := range cmp.Rows {
		renderHeading(pdf, tr(fmt.Sprintf("Entry ID: %d", row.ID)), 2)

		for i, cell := range row.Cells {
			renderHeading(pdf, tr(columnLabel(cmp.Columns, i)), 4)

			md, err := cellMarkdown(cell)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", row.ID, err)
			}
			if md == "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.SetTextColor(100, 100, 100)
				pdf.MultiCell(0, 5, "(empty)", "", "L", false)
				pdf.SetTextColor(0, 0, 0)
				continue
			}
			renderMarkdown(pdf, md, tr)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderMarkdown writes a cell's Markdown line by line.
func renderMarkdown(pdf *gofpdf.Fpdf, md string, tr func(string) string) {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		// Skip empty lines (add spacing instead).
		if trimmed == "" {
			pdf.Ln(2)
			continue
		}

		// Bold heading labels.
		if m := boldLineRegex.FindStringSubmatch(trimmed); m != nil {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(m[1])), "", "L", false)
			continue
		}

		// Bullet and numbered list items.
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("- "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)
			continue
		}
		if numberedItemRegex.MatchString(trimmed) {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
			continue
		}

		// Regular paragraph text.
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
	}
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	// Italic markers, but not inside words like don't.
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(text)
}
