// Package output handles file naming, writing and reading for pipeline
// artifacts. JSON exports live under <dir>/json_exports, reports directly
// under <dir>.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Export names shared by the pipeline stages.
const (
	ChronologyRaw       = "chronology_raw"
	BookItems           = "bookitems"
	Chronology          = "chronology"
	ChronologyWriteback = "chronology_writeback"

	ComparisonReport = "entry_comparison"
)

const exportsDir = "json_exports"

// Writer writes pipeline artifacts to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to ./outputs.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		outputDir = "outputs"
	}

	if err := os.MkdirAll(filepath.Join(outputDir, exportsDir), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// ExportPath returns the path of the named JSON export.
func (w *Writer) ExportPath(name string) string {
	return filepath.Join(w.OutputDir, exportsDir, name+".json")
}

// WriteJSON writes v as indented JSON to the named export. The exports
// directory is recreated if an archive run removed it.
func (w *Writer) WriteJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := w.ExportPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// ReadJSON decodes the named export into v.
func (w *Writer) ReadJSON(name string, v any) error {
	path := w.ExportPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// WriteReport writes a rendered report as <dir>/<name><ext>.
func (w *Writer) WriteReport(name string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, name+ext)
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}
