// ABOUTME: Export functionality for the habit journal
// ABOUTME: Supports YAML, JSON and Markdown export formats
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/habit-journal/internal/models"
)

// Supported formats
const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Data is the complete exportable journal
type Data struct {
	Version    string       `yaml:"version" json:"version"`
	ExportedAt string       `yaml:"exported_at" json:"exported_at"`
	Tool       string       `yaml:"tool" json:"tool"`
	StartDate  string       `yaml:"start_date" json:"start_date"`
	Revision   string       `yaml:"revision,omitempty" json:"revision,omitempty"`
	Habits     []Habit      `yaml:"habits" json:"habits"`
	Stats      models.Stats `yaml:"stats" json:"stats"`
	Days       []Day        `yaml:"days" json:"days"`
}

// Habit is a catalog entry for export
type Habit struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Day is a recorded day for export, habits keyed by ID
type Day struct {
	Date      string          `yaml:"date" json:"date"`
	Completed int             `yaml:"completed" json:"completed"`
	Percent   int             `yaml:"percent" json:"percent"`
	Habits    map[string]bool `yaml:"habits" json:"habits"`
	Diary     string          `yaml:"diary,omitempty" json:"diary,omitempty"`
	SavedAt   string          `yaml:"saved_at,omitempty" json:"saved_at,omitempty"`
}

// Build assembles export data from a journal snapshot
func Build(j *models.Journal, catalog *models.Catalog, stats models.Stats, now time.Time) *Data {
	data := &Data{
		Version:    "1.0",
		ExportedAt: now.Format(time.RFC3339),
		Tool:       "habits",
		StartDate:  j.StartDate,
		Revision:   j.Revision,
		Stats:      stats,
		Days:       []Day{},
	}

	for _, h := range catalog.Habits() {
		data.Habits = append(data.Habits, Habit{ID: h.ID, Label: h.Label})
	}

	for _, rec := range j.Records() {
		day := Day{
			Date:      rec.DayKey,
			Completed: rec.CompletedCount(),
			Percent:   models.NewProgress(rec.Habits).Percent,
			Habits:    make(map[string]bool, catalog.Len()),
			Diary:     rec.Diary,
		}
		if !rec.Timestamp.IsZero() {
			day.SavedAt = rec.Timestamp.Format(time.RFC3339)
		}
		for i, id := range catalog.IDs() {
			day.Habits[id] = i < len(rec.Habits) && rec.Habits[i]
		}
		data.Days = append(data.Days, day)
	}

	return data
}

// Write encodes data in the named format
func Write(w io.Writer, data *Data, format string, catalog *models.Catalog) error {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return WriteYAML(w, data)
	case FormatJSON:
		return WriteJSON(w, data)
	case FormatMarkdown, "md":
		return WriteMarkdown(w, data, catalog)
	default:
		return fmt.Errorf("unsupported export format %q (use yaml, json or markdown)", format)
	}
}

// WriteYAML encodes data as YAML
func WriteYAML(w io.Writer, data *Data) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes data as indented JSON
func WriteJSON(w io.Writer, data *Data) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders a human-readable journal
func WriteMarkdown(w io.Writer, data *Data, catalog *models.Catalog) error {
	_, _ = fmt.Fprintf(w, "# Habit Journal Export - %s\n\n", data.ExportedAt[:10])
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)
	_, _ = fmt.Fprintf(w, "Challenge started: %s\n\n", data.StartDate)
	if data.Revision != "" {
		_, _ = fmt.Fprintf(w, "Revision: %s\n\n", data.Revision)
	}

	// Write stats
	_, _ = fmt.Fprintln(w, "## Stats")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "- **Completed days:** %d\n", data.Stats.CompletedDays)
	_, _ = fmt.Fprintf(w, "- **Current streak:** %d\n", data.Stats.CurrentStreak)
	_, _ = fmt.Fprintf(w, "- **Best streak:** %d\n", data.Stats.BestStreak)
	_, _ = fmt.Fprintf(w, "- **Average progress:** %d%%\n", data.Stats.AverageProgress)
	_, _ = fmt.Fprintf(w, "- **Best habit:** %s\n", catalog.Label(data.Stats.BestHabit))
	_, _ = fmt.Fprintln(w)

	if len(data.Stats.HabitRates) > 0 {
		_, _ = fmt.Fprintln(w, "| Habit | Completion |")
		_, _ = fmt.Fprintln(w, "|-------|------------|")
		for _, r := range data.Stats.HabitRates {
			_, _ = fmt.Fprintf(w, "| %s | %d%% |\n", r.Label, r.Percent)
		}
		_, _ = fmt.Fprintln(w)
	}

	// Write days
	if len(data.Days) > 0 {
		_, _ = fmt.Fprintln(w, "## Days")
		_, _ = fmt.Fprintln(w)
		for _, day := range data.Days {
			_, _ = fmt.Fprintf(w, "### %s (%d/%d, %d%%)\n\n", day.Date, day.Completed, len(data.Habits), day.Percent)
			for _, h := range data.Habits {
				mark := " "
				if day.Habits[h.ID] {
					mark = "x"
				}
				_, _ = fmt.Fprintf(w, "- [%s] %s\n", mark, h.Label)
			}
			_, _ = fmt.Fprintln(w)
			if day.Diary != "" {
				_, _ = fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(day.Diary, "\n", "\n> "))
			}
		}
	}

	return nil
}
