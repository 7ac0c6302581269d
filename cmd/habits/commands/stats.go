// ABOUTME: Stats command shows derived journal statistics
// ABOUTME: Streaks, averages, best habit and per-habit completion rates
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks and completion statistics",
		Long: `Show statistics computed from recorded days.

A day counts toward a streak only when every habit was done.
The current streak ends at the latest recorded day.

Examples:
  habits stats
  habits stats --format json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.engine.Stats()
	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Recorded days:\t%d\n", stats.RecordedDays)
	fmt.Fprintf(w, "Completed days:\t%d\n", stats.CompletedDays)
	fmt.Fprintf(w, "Current streak:\t%d\n", stats.CurrentStreak)
	fmt.Fprintf(w, "Best streak:\t%d\n", stats.BestStreak)
	fmt.Fprintf(w, "Average progress:\t%d%%\n", stats.AverageProgress)
	fmt.Fprintf(w, "Best habit:\t%s\n", a.engine.Catalog().Label(stats.BestHabit))
	w.Flush()

	if len(stats.HabitRates) > 0 && !quiet {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "HABIT\tCOMPLETION\n")
		fmt.Fprintf(w, "-----\t----------\n")
		for _, r := range stats.HabitRates {
			fmt.Fprintf(w, "%s\t%s %d%%\n", r.Label, progressBar(r.Percent, 10), r.Percent)
		}
		w.Flush()
	}
	return nil
}
