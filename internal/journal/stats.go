// ABOUTME: Pure statistics over the recorded journal history
// ABOUTME: Completed days, streaks, average progress and best habit
package journal

import (
	"github.com/harper/habit-journal/internal/models"
)

// ComputeStats derives statistics from j.Days only. Drafts never count.
func ComputeStats(j *models.Journal, catalog *models.Catalog) models.Stats {
	stats := models.Stats{
		BestHabit:  models.NoHabit,
		HabitRates: make([]models.HabitRate, catalog.Len()),
	}
	for i, h := range catalog.Habits() {
		stats.HabitRates[i] = models.HabitRate{HabitID: h.ID, Label: h.Label}
	}

	if j == nil || len(j.Days) == 0 {
		return stats
	}

	keys := j.SortedKeys()
	stats.RecordedDays = len(keys)

	habitCounts := make([]int, catalog.Len())
	var percentSum float64
	for _, k := range keys {
		rec := j.Days[k]
		if rec.IsComplete() {
			stats.CompletedDays++
		}
		done := 0
		for i := range habitCounts {
			if i < len(rec.Habits) && rec.Habits[i] {
				habitCounts[i]++
				done++
			}
		}
		if catalog.Len() > 0 {
			percentSum += float64(done) / float64(catalog.Len()) * 100
		}
	}

	stats.CurrentStreak = currentStreak(j, keys)
	stats.BestStreak = bestStreak(j, keys)
	stats.AverageProgress = models.RoundPercent(percentSum / float64(len(keys)))

	best := -1
	for i, n := range habitCounts {
		stats.HabitRates[i].Percent = models.RoundPercent(float64(n) / float64(len(keys)) * 100)
		// strict comparison keeps the earliest habit on ties
		if best < 0 || n > habitCounts[best] {
			best = i
		}
	}
	if best >= 0 {
		stats.BestHabit = catalog.At(best).ID
	}

	return stats
}

// currentStreak walks back from the most recent record while days are
// fully complete. Only recorded days are visited, so a day with no record
// does not end the run.
func currentStreak(j *models.Journal, keys []string) int {
	streak := 0
	for i := len(keys) - 1; i >= 0; i-- {
		if !j.Days[keys[i]].IsComplete() {
			break
		}
		streak++
	}
	return streak
}

// bestStreak is the longest run of consecutive fully complete records
func bestStreak(j *models.Journal, keys []string) int {
	best, run := 0, 0
	for _, k := range keys {
		if !j.Days[k].IsComplete() {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}
