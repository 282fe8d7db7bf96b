// Package queue — workbook access.
// The job list is an .xlsx sheet with BookID, Status and Processed columns.
package queue

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Column headers the workbook is expected to carry.
const (
	IDColumn        = "BookID"
	StatusColumn    = "Status"
	ProcessedColumn = "Processed"
)

// Status values written back to the sheet.
const (
	StatusDone  = "Done"
	StatusError = "Error"
)

// Row is one data row of the sheet.
type Row struct {
	// Number is the 1-based sheet row.
	Number int
	BookID string
	Status string
}

// Workbook is an open job workbook.
type Workbook struct {
	path  string
	file  *excelize.File
	sheet string

	// 1-based column indexes.
	idCol, statusCol, processedCol int
}

// OpenWorkbook opens the workbook at path and locates the job columns on
// its active sheet. Missing Status/Processed columns are appended.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}

	wb := &Workbook{path: path, file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}
	if err := wb.locateColumns(); err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

func (wb *Workbook) locateColumns() error {
	rows, err := wb.file.GetRows(wb.sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", wb.sheet, err)
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case IDColumn:
			wb.idCol = i + 1
		case StatusColumn:
			wb.statusCol = i + 1
		case ProcessedColumn:
			wb.processedCol = i + 1
		}
	}
	if wb.idCol == 0 {
		return fmt.Errorf("sheet %s has no %s column", wb.sheet, IDColumn)
	}

	next := len(header) + 1
	if wb.statusCol == 0 {
		wb.statusCol = next
		next++
		if err := wb.set(1, wb.statusCol, StatusColumn); err != nil {
			return err
		}
	}
	if wb.processedCol == 0 {
		wb.processedCol = next
		if err := wb.set(1, wb.processedCol, ProcessedColumn); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns every data row below the header.
func (wb *Workbook) Rows() ([]Row, error) {
	rows, err := wb.file.GetRows(wb.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", wb.sheet, err)
	}

	var out []Row
	for i := 1; i < len(rows); i++ {
		out = append(out, Row{
			Number: i + 1,
			BookID: NormalizeBookID(cellAt(rows[i], wb.idCol)),
			Status: strings.TrimSpace(cellAt(rows[i], wb.statusCol)),
		})
	}
	return out, nil
}

// SetResult records a job's status and processing time on its row.
func (wb *Workbook) SetResult(row int, status, processed string) error {
	if err := wb.set(row, wb.statusCol, status); err != nil {
		return err
	}
	return wb.set(row, wb.processedCol, processed)
}

// Format styles the sheet: dark header, highlighted Processed header,
// green rows for done and red rows for errors, fitted column widths,
// frozen header row and no grid lines.
func (wb *Workbook) Format() error {
	f, sheet := wb.file, wb.sheet

	showGrid := false
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &showGrid}); err != nil {
		return fmt.Errorf("setting sheet view: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000000"}},
		Font: &excelize.Font{Bold: true, Color: "FFFF00"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	processedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFFFF"}},
		Font: &excelize.Font{Bold: true, Color: "FFA500"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	doneStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
	})
	if err != nil {
		return fmt.Errorf("creating row style: %w", err)
	}
	errorStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return fmt.Errorf("creating row style: %w", err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	lastCol := max(wb.idCol, wb.statusCol, wb.processedCol)

	for col := 1; col <= lastCol; col++ {
		style := headerStyle
		if col == wb.processedCol {
			style = processedStyle
		}
		if err := wb.style(1, col, 1, col, style); err != nil {
			return err
		}
	}

	// Row highlighting covers every column left of Processed.
	fillTo := max(wb.processedCol-1, 1)
	for i := 1; i < len(rows); i++ {
		var style int
		switch strings.ToLower(strings.TrimSpace(cellAt(rows[i], wb.statusCol))) {
		case "done":
			style = doneStyle
		case "error":
			style = errorStyle
		default:
			continue
		}
		if err := wb.style(i+1, 1, i+1, fillTo, style); err != nil {
			return err
		}
	}

	for col := 1; col <= lastCol; col++ {
		width := 0
		for _, r := range rows {
			width = max(width, utf8.RuneCountInString(cellAt(r, col)))
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("setting width of column %s: %w", name, err)
		}
	}
	return nil
}

// Save writes the workbook back to its file.
func (wb *Workbook) Save() error {
	if err := wb.file.SaveAs(wb.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", wb.path, err)
	}
	return nil
}

// Close releases the workbook.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

func (wb *Workbook) set(row, col int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellValue(wb.sheet, cell, value); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	return nil
}

func (wb *Workbook) style(fromRow, fromCol, toRow, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellStyle(wb.sheet, from, to, style); err != nil {
		return fmt.Errorf("styling %s:%s: %w", from, to, err)
	}
	return nil
}

func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}

// NormalizeBookID turns a BookID cell into its digit string. Numeric cells
// may come back as "11452" or "11452.0"; anything that is not a whole
// number is returned trimmed so the caller can reject it.
func NormalizeBookID(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return ""
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil && v >= 0 && v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return cell
}

// IsBookID reports whether id is a non-empty run of ASCII digits.
func IsBookID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
