// ABOUTME: JSON encoding of the journal document and today's draft
// ABOUTME: Decoding tolerates missing fields and repairs misaligned records
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/habit-journal/internal/models"
	"github.com/harper/habit-journal/internal/storage"
)

type wireRecord struct {
	Habits    *[]bool   `json:"habits"`
	Diary     string    `json:"diary"`
	Timestamp time.Time `json:"timestamp"`
}

type wireJournal struct {
	StartDate   string                `json:"startDate"`
	LastSaveDay string                `json:"lastSaveDay"`
	Revision    string                `json:"revision"`
	Days        map[string]wireRecord `json:"days"`
}

// decodeReport lists what decoding had to repair or drop
type decodeReport struct {
	Dropped  []string
	Repaired []string
}

func encodeJournal(j *models.Journal) (string, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal: %w", err)
	}
	return string(data), nil
}

// decodeJournal parses a stored journal. fallbackStart is used when the
// document carries no usable start date and has no records.
func decodeJournal(raw string, catalog *models.Catalog, fallbackStart string) (*models.Journal, decodeReport, error) {
	var report decodeReport

	var w wireJournal
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, report, fmt.Errorf("failed to parse journal: %w", err)
	}

	j := models.NewJournal("")
	j.Revision = w.Revision

	for key, rec := range w.Days {
		if _, err := ParseDayKey(key); err != nil {
			report.Dropped = append(report.Dropped, key)
			continue
		}
		if rec.Habits == nil {
			report.Dropped = append(report.Dropped, key)
			continue
		}
		habits, repaired := alignHabits(*rec.Habits, catalog.Len())
		if repaired {
			report.Repaired = append(report.Repaired, key)
		}
		j.Days[key] = models.DayRecord{
			Habits:    habits,
			Diary:     rec.Diary,
			Timestamp: rec.Timestamp,
		}
	}

	switch {
	case isDayKey(w.StartDate):
		j.StartDate = w.StartDate
	case len(j.Days) > 0:
		j.StartDate = j.SortedKeys()[0]
	default:
		j.StartDate = fallbackStart
	}

	switch {
	case isDayKey(w.LastSaveDay):
		j.LastSaveDay = w.LastSaveDay
	case len(j.Days) > 0:
		keys := j.SortedKeys()
		j.LastSaveDay = keys[len(keys)-1]
	}

	return j, report, nil
}

// StoredRevision reads the revision of the journal document stored under
// key. It reports false when the document is absent or unreadable.
func StoredRevision(store storage.Store, key string) (string, bool) {
	raw, ok, err := store.Get(key)
	if err != nil || !ok || raw == "" {
		return "", false
	}
	var w struct {
		Revision string `json:"revision"`
	}
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return "", false
	}
	return w.Revision, true
}

func encodeDraft(d *models.Draft) (string, error) {
	if d == nil {
		return "", nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal draft: %w", err)
	}
	return string(data), nil
}

// decodeDraft returns nil for an empty or unusable draft
func decodeDraft(raw string, catalog *models.Catalog) *models.Draft {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var d models.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil
	}
	if !isDayKey(d.DayKey) {
		return nil
	}
	d.Habits, _ = alignHabits(d.Habits, catalog.Len())
	return &d
}

// alignHabits pads with false or truncates to n entries
func alignHabits(in []bool, n int) ([]bool, bool) {
	out := make([]bool, n)
	copy(out, in)
	return out, len(in) != n
}

func isDayKey(key string) bool {
	_, err := ParseDayKey(key)
	return err == nil
}
