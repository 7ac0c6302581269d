// ABOUTME: History command lists recorded days
// ABOUTME: Newest first with completion counts and diary excerpts
package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/models"
)

// historyEntry is the JSON shape of one recorded day
type historyEntry struct {
	Date     string       `json:"date"`
	Complete bool         `json:"complete"`
	Percent  int          `json:"percent"`
	Habits   []habitState `json:"habits"`
	Diary    string       `json:"diary,omitempty"`
	SavedAt  string       `json:"saved_at,omitempty"`
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded days",
		Long: `List recorded days, newest first.

Examples:
  habits history
  habits history --limit 7
  habits history --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many days (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	if err := validateNonNegativeInt(limit, "--limit"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	catalog := a.engine.Catalog()
	records := a.engine.History()
	entries := make([]historyEntry, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) >= limit {
			break
		}
		rec := records[i]
		entry := historyEntry{
			Date:     rec.DayKey,
			Complete: rec.IsComplete(),
			Percent:  models.NewProgress(rec.Habits).Percent,
			Habits:   habitStates(catalog, rec.Habits),
			Diary:    rec.Diary,
		}
		if !rec.Timestamp.IsZero() {
			entry.SavedAt = rec.Timestamp.Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No days recorded yet")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tDONE\tPROGRESS\tDIARY\n")
	fmt.Fprintf(w, "----\t----\t--------\t-----\n")
	for _, e := range entries {
		done := 0
		for _, h := range e.Habits {
			if h.Done {
				done++
			}
		}
		mark := ""
		if e.Complete {
			mark = " ✓"
		}
		fmt.Fprintf(w, "%s\t%d/%d%s\t%d%%\t%s\n",
			e.Date, done, len(e.Habits), mark, e.Percent, truncate(firstLine(e.Diary), 40))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d of %d day(s)\n", len(entries), len(records))
	}
	return nil
}
