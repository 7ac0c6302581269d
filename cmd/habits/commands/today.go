// ABOUTME: Today command shows the current day's checklist
// ABOUTME: Runs the day boundary check and prints progress and streaks
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTodayCmd creates the today command
func NewTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's checklist and progress",
		Long: `Show today's habit checklist, diary and progress.

If the last activity was on an earlier date, the checklist starts
empty for the new day. Unsaved edits for today are shown as they are.

Examples:
  habits today
  habits today --format json`,
		Args: cobra.NoArgs,
		RunE: runToday,
	}

	return cmd
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session := a.engine.StartSession()
	view := newTodayView(session, a.engine.Catalog())
	stats := a.engine.Stats()

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"today":     view,
			"stats":     stats,
			"has_draft": a.engine.HasDraft(),
		})
	}

	out := cmd.OutOrStdout()
	printSession(out, view)
	if !quiet {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "Streak: %d  Best: %d  Completed days: %d  Average: %d%%\n",
			stats.CurrentStreak, stats.BestStreak, stats.CompletedDays, stats.AverageProgress)
		if a.engine.HasDraft() {
			_, _ = fmt.Fprintln(out, "Unsaved changes; run 'habits save' to record the day")
		}
	}
	return nil
}
