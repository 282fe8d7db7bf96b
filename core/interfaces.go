// Package core defines the pipeline types and interfaces for chronoform.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Style holds the presentation options applied when blocks are serialized.
type Style struct {
	BoldHeadings bool `json:"bold_headings"`
}

// BookItem is a document in a book; entries reference it by BookItemID.
type BookItem struct {
	ID           int64  `json:"id"`
	Description  string `json:"description"`
	DocumentType string `json:"documentType"`
}

// Comparison holds the entryFinal values of several datasets side by side.
type Comparison struct {
	Title   string
	Columns []string
	Rows    []ComparisonRow
}

// ComparisonRow is one entry id with one cell per column.
type ComparisonRow struct {
	ID    int64
	Cells []string
}

// Source retrieves chronology data for a book.
type Source interface {
	FetchChronology(ctx context.Context, bookID string) ([]Entry, error)
	FetchBookItems(ctx context.Context, bookID string) ([]BookItem, error)
}

// Sink accepts a modified chronology for write-back.
type Sink interface {
	PutChronology(ctx context.Context, bookID string, entries []Entry) error
}

// Extractor pulls the ordered paragraph lines out of an HTML fragment.
type Extractor interface {
	Lines(html string) []string
}

// Normalizer re-renders an entry's HTML into the normalized fragment.
type Normalizer interface {
	Normalize(html string) string
}

// Renderer converts a comparison into a final report format.
type Renderer interface {
	Render(cmp Comparison) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
