// Package cmd — queue command.
// Drains the BookID workbook: every pending row runs the full pipeline and
// is marked Done or Error. Output is also appended to a run log that is
// trimmed to its last lines after each pass.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/chronoform/internal/logger"
	"github.com/gaurav-prasanna/chronoform/queue"
)

const processName = "CTP Clinical Entries Formatter"

var flagQueueFile string

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Process every pending book listed in the queue workbook",
	Long: `Queue reads the BookID workbook, runs the pipeline for every row whose
Status is not Done, and records the outcome in the Status and Processed
columns. Nothing happens when the workbook is unchanged since the last pass.

Examples:
  chronoform queue
  chronoform queue --file ./inputs/book_id_queue.xlsx`,
	Args: cobra.NoArgs,
	RunE: runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)

	queueCmd.Flags().StringVar(&flagQueueFile, "file", "", "Queue workbook (default: $QUEUE_FILE)")
}

func runQueue(cmd *cobra.Command, _ []string) error {
	workbook := cfg.Paths.QueueFile
	if flagQueueFile != "" {
		workbook = flagQueueFile
	}

	logPath := filepath.Join(cfg.Paths.LogDir, "run_log.txt")
	runLog, err := logger.OpenRunLog(logPath)
	if err != nil {
		return err
	}
	defer func() {
		logger.SetupLogger(flagLogLevel, flagLogJSON, nil)
		runLog.Close()
		if trimmed, err := logger.TrimFile(logPath, logger.DefaultMaxLines); err != nil {
			logger.Warn("Trimming run log failed", "err", err)
		} else if trimmed {
			logger.Info("Trimmed run log", "max_lines", logger.DefaultMaxLines)
		}
	}()
	logger.SetupLogger(flagLogLevel, flagLogJSON, runLog)

	runner, err := newRunner(cfg, flagFormat, true)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	log := logger.FromContext(ctx)
	rule := strings.Repeat("=", 70)
	log.Info(rule)
	log.Info("Run started", "process", processName, "base_url", cfg.Remote.BaseURL)
	log.Info(rule)

	q := queue.NewRunner(workbook, cfg.Paths.StateFile, runner.Run)
	summary, err := q.Process(ctx)
	if err != nil {
		return fmt.Errorf("processing queue: %w", err)
	}

	log.Info("Run completed", "at", time.Now().Format(queue.TimestampLayout),
		"processed", summary.Processed, "failed", summary.Failed, "unchanged", summary.Unchanged)
	return nil
}
