// Package render provides the comparison report renderers.
// This file builds the Comparison every renderer consumes.
package render

import (
	"fmt"
	"sort"

	"github.com/gaurav-prasanna/chronoform/core"
)

// DefaultTitle is the heading used when a Comparison has no title.
const DefaultTitle = "Comparison of EntryFinal Values"

// Dataset is one column of a comparison: a label and its entries.
type Dataset struct {
	Label   string
	Entries []core.Entry
}

// NewComparison lines up entryFinal per entry id across datasets. Ids are
// sorted ascending; an id missing from a dataset gets an empty cell.
func NewComparison(datasets ...Dataset) (core.Comparison, error) {
	cmp := core.Comparison{Title: DefaultTitle}
	finals := make([]map[int64]string, len(datasets))
	ids := make(map[int64]bool)

	for i, ds := range datasets {
		cmp.Columns = append(cmp.Columns, ds.Label)
		finals[i] = make(map[int64]string, len(ds.Entries))
		for _, e := range ds.Entries {
			if _, dup := finals[i][e.ID]; dup {
				return core.Comparison{}, fmt.Errorf("dataset %q has entry id %d more than once", ds.Label, e.ID)
			}
			finals[i][e.ID] = e.Final()
			ids[e.ID] = true
		}
	}

	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })

	for _, id := range sorted {
		row := core.ComparisonRow{ID: id, Cells: make([]string, len(datasets))}
		for i := range datasets {
			row.Cells[i] = finals[i][id]
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp, nil
}

// New returns the renderer for format: "html", "markdown", "json" or "pdf".
func New(format string) (core.Renderer, error) {
	switch format {
	case "", "html":
		return NewHTMLRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
