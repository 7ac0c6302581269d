// ABOUTME: Derived statistics computed from the journal history
// ABOUTME: Never persisted; always recomputed from recorded days
package models

// HabitRate is the completion percentage of one habit across recorded days
type HabitRate struct {
	HabitID string `json:"habit_id" yaml:"habit_id"`
	Label   string `json:"label" yaml:"label"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Stats holds the derived journal statistics
type Stats struct {
	RecordedDays    int         `json:"recorded_days" yaml:"recorded_days"`
	CompletedDays   int         `json:"completed_days" yaml:"completed_days"`
	CurrentStreak   int         `json:"current_streak" yaml:"current_streak"`
	BestStreak      int         `json:"best_streak" yaml:"best_streak"`
	AverageProgress int         `json:"average_progress" yaml:"average_progress"`
	BestHabit       string      `json:"best_habit" yaml:"best_habit"`
	HabitRates      []HabitRate `json:"habit_rates" yaml:"habit_rates"`
}
