// Package queue — workbook-driven batch runner.
// Every pending book in the workbook is run through the pipeline and its
// row is marked Done or Error with a timestamp.
package queue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// TimestampLayout is the format of the Processed column.
const TimestampLayout = "2006-01-02 15:04:05"

// RunFunc processes one book.
type RunFunc func(ctx context.Context, bookID string) error

// Summary describes what one queue pass did.
type Summary struct {
	Unchanged bool
	Processed int
	Failed    int
	Skipped   int
}

// Runner drains the workbook queue.
type Runner struct {
	Workbook string
	State    State
	Run      RunFunc

	now func() time.Time
}

// NewRunner creates a Runner for the workbook at path.
func NewRunner(workbook, stateFile string, run RunFunc) *Runner {
	return &Runner{
		Workbook: workbook,
		State:    State{Path: stateFile},
		Run:      run,
		now:      time.Now,
	}
}

// Process runs every pending row once. Nothing is done when the workbook
// is missing or has not been modified since the previous pass.
func (r *Runner) Process(ctx context.Context) (Summary, error) {
	log := logger.FromContext(ctx)

	info, err := os.Stat(r.Workbook)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Workbook not found", "path", r.Workbook)
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("checking workbook: %w", err)
	}

	changed, err := r.State.Changed(info.ModTime())
	if err != nil {
		return Summary{}, err
	}
	if !changed {
		log.Info("Workbook unchanged since last run")
		return Summary{Unchanged: true}, nil
	}

	summary, err := r.drain(ctx)
	if err != nil {
		return summary, err
	}

	// Record the mtime after our own save so the next pass is a no-op.
	if info, err = os.Stat(r.Workbook); err != nil {
		return summary, fmt.Errorf("checking workbook: %w", err)
	}
	if err := r.State.Record(info.ModTime()); err != nil {
		return summary, err
	}
	log.Info("All pending books processed",
		"processed", summary.Processed, "failed", summary.Failed, "skipped", summary.Skipped)
	return summary, nil
}

func (r *Runner) drain(ctx context.Context) (Summary, error) {
	log := logger.FromContext(ctx)
	var summary Summary

	wb, err := OpenWorkbook(r.Workbook)
	if err != nil {
		return summary, err
	}
	defer wb.Close()

	rows, err := wb.Rows()
	if err != nil {
		return summary, err
	}
	log.Info("Loaded workbook", "rows", len(rows))

	q := NewQueue()
	duplicates := make(map[string][]int)
	for _, row := range rows {
		if strings.EqualFold(row.Status, "done") || !IsBookID(row.BookID) {
			log.Debug("Skipping row", "row", row.Number, "book_id", row.BookID, "status", row.Status)
			summary.Skipped++
			continue
		}
		if !q.Add(Job{Row: row.Number, BookID: row.BookID}) {
			duplicates[row.BookID] = append(duplicates[row.BookID], row.Number)
		}
	}

	for q.HasNext() {
		if err := ctx.Err(); err != nil {
			break
		}
		job := q.Next()
		log.Info("Processing book", "row", job.Row, "book_id", job.BookID)

		status := StatusDone
		if err := r.Run(ctx, job.BookID); err != nil {
			log.Error("Book failed", "book_id", job.BookID, "err", err)
			status = StatusError
			summary.Failed++
		} else {
			summary.Processed++
		}

		stamp := r.now().Format(TimestampLayout)
		for _, row := range append([]int{job.Row}, duplicates[job.BookID]...) {
			if err := wb.SetResult(row, status, stamp); err != nil {
				return summary, err
			}
		}
		log.Info("Status updated", "book_id", job.BookID, "status", status)
	}

	if q.Len() == 0 {
		log.Info("No updates made to workbook")
		return summary, nil
	}

	if err := wb.Format(); err != nil {
		return summary, err
	}
	if err := wb.Save(); err != nil {
		return summary, err
	}
	log.Info("Workbook updated", "path", r.Workbook)
	return summary, ctx.Err()
}
