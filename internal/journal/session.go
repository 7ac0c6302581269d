// ABOUTME: Session is the editable checkbox snapshot for the current day
// ABOUTME: Tracks the session phase from boundary resolution through save
package journal

import (
	"github.com/harper/habit-journal/internal/models"
)

// Phase is where a session is in its lifecycle
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoaded
	PhaseDayContinued
	PhaseDayReset
	PhaseEditing
	PhaseSaved
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhaseDayContinued:
		return "day-continued"
	case PhaseDayReset:
		return "day-reset"
	case PhaseEditing:
		return "editing"
	case PhaseSaved:
		return "saved"
	default:
		return "uninitialized"
	}
}

// Session holds today's checkbox state. It is not safe for concurrent use.
type Session struct {
	DayKey        string
	Boundary      Boundary
	DayNumber     int
	ChallengeDays int

	catalog *models.Catalog
	habits  []bool
	diary   string
	phase   Phase
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	return s.phase
}

// Habits returns a copy of the checkbox snapshot, aligned with the catalog
func (s *Session) Habits() []bool {
	return append([]bool(nil), s.habits...)
}

// Diary returns the diary text
func (s *Session) Diary() string {
	return s.diary
}

// Done reports whether habit id is checked
func (s *Session) Done(id string) bool {
	i := s.catalog.IndexOf(id)
	return i >= 0 && s.habits[i]
}

// Progress summarizes the current snapshot
func (s *Session) Progress() models.Progress {
	return models.NewProgress(s.habits)
}

// Set marks habit id done or not done
func (s *Session) Set(id string, done bool) error {
	i := s.catalog.IndexOf(id)
	if i < 0 {
		return &ValidationError{Field: "habit", Value: id, Reason: "not in catalog"}
	}
	s.habits[i] = done
	s.phase = PhaseEditing
	return nil
}

// Toggle flips habit id and returns its new state
func (s *Session) Toggle(id string) (bool, error) {
	i := s.catalog.IndexOf(id)
	if i < 0 {
		return false, &ValidationError{Field: "habit", Value: id, Reason: "not in catalog"}
	}
	s.habits[i] = !s.habits[i]
	s.phase = PhaseEditing
	return s.habits[i], nil
}

// SetHabits replaces the whole snapshot
func (s *Session) SetHabits(habits []bool) error {
	if len(habits) != len(s.habits) {
		return &ValidationError{Field: "habit states", Reason: lengthReason(len(habits), len(s.habits))}
	}
	copy(s.habits, habits)
	s.phase = PhaseEditing
	return nil
}

// SetDiary replaces the diary text
func (s *Session) SetDiary(text string) {
	s.diary = text
	s.phase = PhaseEditing
}
