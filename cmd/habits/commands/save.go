// ABOUTME: Save command records today's habits and diary
// ABOUTME: Retries storage failures with exponential backoff
package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/models"
	"github.com/harper/habit-journal/internal/util"
)

// retryDelay is the base backoff between save attempts
var retryDelay = 500 * time.Millisecond

// NewSaveCmd creates the save command
func NewSaveCmd() *cobra.Command {
	var retries int

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record today's checklist and diary",
		Long: `Record today's checklist and diary into the journal.

Saving the same day again overwrites the earlier record. If storage
is unavailable the day stays in the draft and the save can be retried.

Examples:
  habits save
  habits save --retries 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, retries)
		},
	}

	cmd.Flags().IntVar(&retries, "retries", 0, "Retry failed writes this many times")

	return cmd
}

func runSave(cmd *cobra.Command, retries int) error {
	if err := validateNonNegativeInt(retries, "--retries"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var rec models.DayRecord
	err = util.Retry(util.RetryPolicy{
		Attempts:  retries + 1,
		BaseDelay: retryDelay,
		Retryable: func(err error) bool {
			var storageErr *journal.StorageError
			if errors.As(err, &storageErr) {
				a.logger.Warn("save failed, retrying", "err", err)
				return true
			}
			return false
		},
	}, func() error {
		var saveErr error
		_, rec, saveErr = a.engine.SaveToday()
		return saveErr
	})
	if err != nil {
		return fmt.Errorf("saving day: %w", err)
	}

	stats := a.engine.Stats()
	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"date":     rec.DayKey,
			"progress": models.NewProgress(rec.Habits),
			"complete": rec.IsComplete(),
			"stats":    stats,
		})
	}

	progress := models.NewProgress(rec.Habits)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s: %d/%d habits (%d%%)\n",
		rec.DayKey, progress.Completed, progress.Total, progress.Percent)
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Streak: %d  Best: %d  Average: %d%%\n",
			stats.CurrentStreak, stats.BestStreak, stats.AverageProgress)
	}
	return nil
}
