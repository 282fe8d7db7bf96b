// Package render — JSON renderer.
// Emits the comparison as {id → {column → entryFinal}} plus summary counts
// so other tooling can consume a run's before/after values.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/chronoform/core"
)

// comparisonJSON is the JSON document written for a comparison.
type comparisonJSON struct {
	Title   string                       `json:"title"`
	Columns []string                     `json:"columns"`
	Entries map[string]map[string]string `json:"entries"`
	Summary comparisonSummary            `json:"summary"`
}

type comparisonSummary struct {
	Entries int `json:"entries"`
	// Changed counts entries whose cells are not all identical.
	Changed int `json:"changed"`
}

// JSONRenderer produces a structured JSON comparison.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the comparison into indented JSON.
func (r *JSONRenderer) Render(cmp core.Comparison) ([]byte, error) {
	doc := comparisonJSON{
		Title:   cmp.Title,
		Columns: cmp.Columns,
		Entries: make(map[string]map[string]string, len(cmp.Rows)),
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}

	for _, row := range cmp.Rows {
		cells := make(map[string]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[columnLabel(cmp.Columns, i)] = cell
		}
		doc.Entries[strconv.FormatInt(row.ID, 10)] = cells
		if changed(row.Cells) {
			doc.Summary.Changed++
		}
	}
	doc.Summary.Entries = len(cmp.Rows)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func changed(cells []string) bool {
	for _, c := range cells[min(1, len(cells)):] {
		if c != cells[0] {
			return true
		}
	}
	return false
}
