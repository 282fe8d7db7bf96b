// Package pipeline runs the per-book stages in order:
// fetch → change → present → write back → archive.
//
// Each stage reads what the previous one exported, so any stage can also
// be run on its own.
package pipeline

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/core/archive"
	"github.com/gaurav-prasanna/chronoform/core/fetch"
	"github.com/gaurav-prasanna/chronoform/core/filter"
	"github.com/gaurav-prasanna/chronoform/core/normalize"
	"github.com/gaurav-prasanna/chronoform/core/output"
	"github.com/gaurav-prasanna/chronoform/core/render"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// Remote is the API the fetch and write-back stages talk to.
type Remote interface {
	core.Source
	core.Sink
	Login(ctx context.Context) error
}

// Runner holds the collaborators shared by all stages.
type Runner struct {
	Remote     Remote
	Writer     *output.Writer
	Normalizer core.Normalizer
	Filter     *filter.Filter
	Renderer   core.Renderer
	Archiver   *archive.Archiver
	Workers    int
}

// Stage names accepted by RunStage.
const (
	StageFetch     = "fetch"
	StageChange    = "change"
	StagePresent   = "present"
	StageWriteBack = "writeback"
	StageArchive   = "archive"
)

// Stages lists every stage in execution order.
var Stages = []string{StageFetch, StageChange, StagePresent, StageWriteBack, StageArchive}

// Run executes all stages for bookID, stopping at the first failure.
func (r *Runner) Run(ctx context.Context, bookID string) error {
	for _, stage := range Stages {
		if err := r.RunStage(ctx, stage, bookID); err != nil {
			return err
		}
	}
	return nil
}

// RunStage executes a single named stage.
func (r *Runner) RunStage(ctx context.Context, stage, bookID string) error {
	log := logger.FromContext(ctx).With("book_id", bookID)
	ctx = logger.ContextWithLogger(ctx, log)

	log.Info("Running stage", "stage", stage)

	var err error
	switch stage {
	case StageFetch:
		err = r.Fetch(ctx, bookID)
	case StageChange:
		err = r.Change(ctx)
	case StagePresent:
		_, err = r.Present(ctx)
	case StageWriteBack:
		err = r.WriteBack(ctx, bookID)
	case StageArchive:
		_, err = r.Archive(ctx, bookID)
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}

	log.Info("Stage completed", "stage", stage)
	return nil
}

// Fetch logs in, downloads the chronology and its book items, and exports
// the raw and enriched chronology.
func (r *Runner) Fetch(ctx context.Context, bookID string) error {
	if r.Remote == nil {
		return fmt.Errorf("no remote configured")
	}
	if err := r.Remote.Login(ctx); err != nil {
		return err
	}

	entries, err := r.Remote.FetchChronology(ctx, bookID)
	if err != nil {
		return err
	}
	if _, err := r.Writer.WriteJSON(output.ChronologyRaw, entries); err != nil {
		return err
	}

	items, err := r.Remote.FetchBookItems(ctx, bookID)
	if err != nil {
		return err
	}
	if _, err := r.Writer.WriteJSON(output.BookItems, items); err != nil {
		return err
	}

	fetch.Enrich(entries, items)
	path, err := r.Writer.WriteJSON(output.Chronology, entries)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Enriched chronology saved", "path", path, "entries", len(entries))
	return nil
}

// Change normalizes the enriched chronology and exports the write-back copy.
func (r *Runner) Change(ctx context.Context) error {
	var entries []core.Entry
	if err := r.Writer.ReadJSON(output.Chronology, &entries); err != nil {
		return err
	}

	stats, err := normalize.Process(ctx, r.Normalizer, entries, r.Filter, r.Workers)
	if err != nil {
		return err
	}

	path, err := r.Writer.WriteJSON(output.ChronologyWriteback, entries)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Cleaned file written", "path", path,
		"processed", stats.Processed, "skipped", stats.Skipped)
	return nil
}

// Present renders the original and write-back entryFinal values side by side.
func (r *Runner) Present(ctx context.Context) (string, error) {
	var original, writeback []core.Entry
	if err := r.Writer.ReadJSON(output.Chronology, &original); err != nil {
		return "", err
	}
	if err := r.Writer.ReadJSON(output.ChronologyWriteback, &writeback); err != nil {
		return "", err
	}

	cmp, err := render.NewComparison(
		render.Dataset{Label: "Original", Entries: original},
		render.Dataset{Label: "Writeback", Entries: writeback},
	)
	if err != nil {
		return "", err
	}

	renderer := r.Renderer
	if renderer == nil {
		renderer = render.NewHTMLRenderer()
	}
	data, err := renderer.Render(cmp)
	if err != nil {
		return "", err
	}

	path, err := r.Writer.WriteReport(output.ComparisonReport, data, renderer.Extension())
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("Comparison report generated", "path", path, "entries", len(cmp.Rows))
	return path, nil
}

// WriteBack uploads the write-back chronology minus excluded ids.
func (r *Runner) WriteBack(ctx context.Context, bookID string) error {
	if r.Remote == nil {
		return fmt.Errorf("no remote configured")
	}

	var entries []core.Entry
	if err := r.Writer.ReadJSON(output.ChronologyWriteback, &entries); err != nil {
		return err
	}
	entries = r.Filter.ForWriteBack(ctx, entries)
	if len(entries) == 0 {
		logger.FromContext(ctx).Warn("No data to upload")
		return nil
	}

	if err := r.Remote.Login(ctx); err != nil {
		return err
	}
	return r.Remote.PutChronology(ctx, bookID, entries)
}

// Archive zips the output directory into the processed directory.
func (r *Runner) Archive(ctx context.Context, bookID string) (string, error) {
	if r.Archiver == nil {
		return "", fmt.Errorf("no archiver configured")
	}
	return r.Archiver.Archive(ctx, bookID)
}
