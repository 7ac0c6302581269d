// ABOUTME: DayRecord stores one calendar day's habit outcome and diary
// ABOUTME: Also defines the in-progress Draft and Progress snapshot helpers
package models

import (
	"math"
	"time"
)

// DayRecord is the saved outcome for one calendar day
type DayRecord struct {
	DayKey    string    `json:"-" yaml:"day"`
	Habits    []bool    `json:"habits" yaml:"habits"`
	Diary     string    `json:"diary" yaml:"diary,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// CompletedCount returns how many habits were done
func (r DayRecord) CompletedCount() int {
	return countTrue(r.Habits)
}

// IsComplete reports whether every habit was done
func (r DayRecord) IsComplete() bool {
	return len(r.Habits) > 0 && r.CompletedCount() == len(r.Habits)
}

// Clone returns a deep copy of the record
func (r DayRecord) Clone() DayRecord {
	r.Habits = append([]bool(nil), r.Habits...)
	return r
}

// Draft is today's unsaved checkbox snapshot and diary text
type Draft struct {
	DayKey    string    `json:"day"`
	Habits    []bool    `json:"habits"`
	Diary     string    `json:"diary"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress summarizes a checkbox snapshot for display
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// NewProgress computes progress for a checkbox snapshot
func NewProgress(habits []bool) Progress {
	p := Progress{Completed: countTrue(habits), Total: len(habits)}
	if p.Total > 0 {
		p.Percent = RoundPercent(float64(p.Completed) / float64(p.Total) * 100)
	}
	return p
}

// RoundPercent rounds half away from zero
func RoundPercent(v float64) int {
	return int(math.Round(v))
}

func countTrue(values []bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
