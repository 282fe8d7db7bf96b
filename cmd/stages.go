// Package cmd — pipeline stage commands.
// Each stage of the per-book pipeline is its own command; run chains them:
// fetch → change → present → writeback → archive.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/core/archive"
	"github.com/gaurav-prasanna/chronoform/core/fetch"
	"github.com/gaurav-prasanna/chronoform/core/filter"
	"github.com/gaurav-prasanna/chronoform/core/normalize"
	"github.com/gaurav-prasanna/chronoform/core/output"
	"github.com/gaurav-prasanna/chronoform/core/render"
	"github.com/gaurav-prasanna/chronoform/internal/config"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
	"github.com/gaurav-prasanna/chronoform/pipeline"
)

var (
	flagBookID string
	flagFormat string
)

// stageInfo describes one stage command.
type stageInfo struct {
	name   string
	short  string
	remote bool
	book   bool
}

var stageCommands = []stageInfo{
	{pipeline.StageFetch, "Download and enrich a book's chronology", true, true},
	{pipeline.StageChange, "Normalize the fetched chronology entries", false, false},
	{pipeline.StagePresent, "Render the before/after comparison report", false, false},
	{pipeline.StageWriteBack, "Upload the normalized chronology", true, true},
	{pipeline.StageArchive, "Zip the output directory and clear it", false, true},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every stage for one book",
	Long: `Run executes fetch, change, present, writeback and archive for a book.

Examples:
  chronoform run --book-id 11452
  BOOK_ID=11452 chronoform run --format pdf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := bookID()
		if err != nil {
			return err
		}
		runner, err := newRunner(cfg, flagFormat, true)
		if err != nil {
			return err
		}
		return runner.Run(commandContext(cmd), id)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBookID, "book-id", "", "Book id to process (default: $BOOK_ID)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "html", "Comparison report format (html, markdown, json, pdf)")

	rootCmd.AddCommand(runCmd)
	for _, info := range stageCommands {
		rootCmd.AddCommand(newStageCmd(info))
	}
}

func newStageCmd(info stageInfo) *cobra.Command {
	return &cobra.Command{
		Use:   info.name,
		Short: info.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var id string
			if info.book {
				var err error
				if id, err = bookID(); err != nil {
					return err
				}
			}
			runner, err := newRunner(cfg, flagFormat, info.remote)
			if err != nil {
				return err
			}
			return runner.RunStage(commandContext(cmd), info.name, id)
		},
	}
}

// bookID resolves the book id from --book-id or BOOK_ID.
func bookID() (string, error) {
	if flagBookID != "" {
		return flagBookID, nil
	}
	return cfg.RequireBookID()
}

// newRunner wires the pipeline from config. The remote client is only
// built (and its settings validated) when the stage needs it.
func newRunner(c *config.Config, format string, remote bool) (*pipeline.Runner, error) {
	writer, err := output.New(c.Paths.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}

	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}

	runner := &pipeline.Runner{
		Writer:     writer,
		Normalizer: normalize.New(core.Style{BoldHeadings: c.Format.BoldHeadings}),
		Filter:     filter.New(c.Filter.ExcludedDocumentTypes, c.Filter.SkipHandwritten, c.Filter.ExcludedIDs),
		Renderer:   renderer,
		Archiver:   archive.New(c.Paths.OutputDir, c.Paths.ProcessedDir),
		Workers:    c.Format.Workers,
	}

	if remote {
		if err := c.ValidateRemote(); err != nil {
			return nil, err
		}
		client, err := fetch.New(fetch.Options{
			BaseURL:  c.Remote.BaseURL,
			User:     c.Remote.User,
			Password: c.Remote.Password,
			Timeout:  c.Remote.Timeout,
			Retries:  c.Remote.Retries,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing API client: %w", err)
		}
		runner.Remote = client
	}
	return runner, nil
}

// commandContext returns cmd's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.ContextWithLogger(ctx, logger.GetDefault())
}
