// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Renders sessions, progress and JSON consistently across commands
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/models"
)

// habitState is one habit row in command output
type habitState struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// todayView is the JSON shape of a session
type todayView struct {
	Date          string          `json:"date"`
	DayNumber     int             `json:"day_number"`
	ChallengeDays int             `json:"challenge_days"`
	NewDay        bool            `json:"new_day"`
	Habits        []habitState    `json:"habits"`
	Diary         string          `json:"diary"`
	Progress      models.Progress `json:"progress"`
	Saved         bool            `json:"saved"`
}

func newTodayView(s *journal.Session, catalog *models.Catalog) todayView {
	return todayView{
		Date:          s.DayKey,
		DayNumber:     s.DayNumber,
		ChallengeDays: s.ChallengeDays,
		NewDay:        s.Boundary == journal.NewDay,
		Habits:        habitStates(catalog, s.Habits()),
		Diary:         s.Diary(),
		Progress:      s.Progress(),
		Saved:         s.Phase() == journal.PhaseSaved,
	}
}

func habitStates(catalog *models.Catalog, states []bool) []habitState {
	out := make([]habitState, 0, catalog.Len())
	for i, h := range catalog.Habits() {
		out = append(out, habitState{ID: h.ID, Label: h.Label, Done: i < len(states) && states[i]})
	}
	return out
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s\n", jsonData)
	return nil
}

// printSession renders the checklist for a session
func printSession(w io.Writer, view todayView) {
	header := fmt.Sprintf("Day %d of %d (%s)", view.DayNumber, view.ChallengeDays, view.Date)
	if view.NewDay {
		header += " - new day"
	}
	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range view.Habits {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", checkbox(h.Done), h.Label, h.ID)
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Progress: %s %d/%d (%d%%)\n",
		progressBar(view.Progress.Percent, 20), view.Progress.Completed, view.Progress.Total, view.Progress.Percent)
	if view.Diary != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Diary:")
		for _, line := range strings.Split(view.Diary, "\n") {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// progressBar draws a fixed-width bar for a 0-100 percentage
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// firstLine returns the first line of s
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// validateNonNegativeInt returns error if n is negative
func validateNonNegativeInt(n int, name string) error {
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return nil
}
