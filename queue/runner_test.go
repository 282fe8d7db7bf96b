package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// writeWorkbook saves a workbook whose first row is header and whose
// following rows are rows.
func writeWorkbook(t *testing.T, header []any, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "book_id_queue.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellValue(t *testing.T, path, cell string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

type recorder struct {
	books []string
}

func (r *recorder) run(_ context.Context, bookID string) error {
	r.books = append(r.books, bookID)
	if bookID == "500" {
		return errors.New("server error")
	}
	return nil
}

func newTestRunner(t *testing.T, path string, run RunFunc) *Runner {
	r := NewRunner(path, filepath.Join(t.TempDir(), "last_run.txt"), run)
	r.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return r
}

func TestRunner_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("Should run pending books and mark their rows", func(t *testing.T) {
		path := writeWorkbook(t, []any{"BookID", "Notes"},
			[]any{11452, "first"},
			[]any{"abc", "not a book"},
			[]any{11452, "listed twice"},
			[]any{500, "fails"},
			[]any{77, "old", "Done"},
			[]any{"11453.0", "float id"},
		)
		rec := &recorder{}
		r := newTestRunner(t, path, rec.run)

		summary, err := r.Process(ctx)
		require.NoError(t, err)

		assert.Equal(t, Summary{Processed: 2, Failed: 1, Skipped: 2}, summary)
		assert.Equal(t, []string{"11452", "500", "11453"}, rec.books)

		assert.Equal(t, "Status", cellValue(t, path, "C1"))
		assert.Equal(t, "Processed", cellValue(t, path, "D1"))
		assert.Equal(t, StatusDone, cellValue(t, path, "C2"))
		assert.Equal(t, "", cellValue(t, path, "C3"))
		assert.Equal(t, StatusDone, cellValue(t, path, "C4"))
		assert.Equal(t, StatusError, cellValue(t, path, "C5"))
		assert.Equal(t, "Done", cellValue(t, path, "C6"))
		assert.Equal(t, StatusDone, cellValue(t, path, "C7"))
		assert.Equal(t, "2024-03-05 14:07:09", cellValue(t, path, "D2"))
		assert.Equal(t, "2024-03-05 14:07:09", cellValue(t, path, "D4"))
		assert.Equal(t, "", cellValue(t, path, "D6"))
	})

	t.Run("Should do nothing when the workbook is unchanged", func(t *testing.T) {
		path := writeWorkbook(t, []any{"BookID"}, []any{42})
		rec := &recorder{}
		r := newTestRunner(t, path, rec.run)

		_, err := r.Process(ctx)
		require.NoError(t, err)
		summary, err := r.Process(ctx)
		require.NoError(t, err)

		assert.True(t, summary.Unchanged)
		assert.Equal(t, []string{"42"}, rec.books)
	})

	t.Run("Should retry rows marked as errors on the next change", func(t *testing.T) {
		path := writeWorkbook(t, []any{"BookID", "Status"}, []any{500, "Error"}, []any{9, "done"})
		rec := &recorder{}

		summary, err := newTestRunner(t, path, rec.run).Process(ctx)
		require.NoError(t, err)
		assert.Equal(t, Summary{Failed: 1, Skipped: 1}, summary)
		assert.Equal(t, []string{"500"}, rec.books)
	})

	t.Run("Should leave a workbook with nothing pending untouched", func(t *testing.T) {
		path := writeWorkbook(t, []any{"BookID", "Status"}, []any{9, "Done"})
		rec := &recorder{}

		summary, err := newTestRunner(t, path, rec.run).Process(ctx)
		require.NoError(t, err)
		assert.Equal(t, Summary{Skipped: 1}, summary)
		assert.Empty(t, rec.books)
		assert.Equal(t, "", cellValue(t, path, "C1"))
	})

	t.Run("Should fail without a BookID column", func(t *testing.T) {
		path := writeWorkbook(t, []any{"Book"}, []any{42})
		_, err := newTestRunner(t, path, (&recorder{}).run).Process(ctx)
		assert.ErrorContains(t, err, "no BookID column")
	})

	t.Run("Should skip a missing workbook without error", func(t *testing.T) {
		dir := t.TempDir()
		rec := &recorder{}
		r := NewRunner(filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "last_run.txt"), rec.run)

		summary, err := r.Process(ctx)
		require.NoError(t, err)
		assert.Equal(t, Summary{}, summary)
		assert.Empty(t, rec.books)
		assert.NoFileExists(t, filepath.Join(dir, "last_run.txt"))
	})
}
