// ABOUTME: JournalState is the aggregate root of the habit journal
// ABOUTME: Holds the challenge start date and the sparse per-day history
package models

import "sort"

// Journal is the persisted journal document.
// A day without activity has no entry in Days.
type Journal struct {
	StartDate   string               `json:"startDate"`
	LastSaveDay string               `json:"lastSaveDay,omitempty"`
	Revision    string               `json:"revision,omitempty"`
	Days        map[string]DayRecord `json:"days"`
}

// NewJournal creates an empty journal starting on startKey
func NewJournal(startKey string) *Journal {
	return &Journal{
		StartDate: startKey,
		Days:      make(map[string]DayRecord),
	}
}

// SortedKeys returns day keys in chronological order
func (j *Journal) SortedKeys() []string {
	keys := make([]string, 0, len(j.Days))
	for k := range j.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records returns all day records in chronological order
func (j *Journal) Records() []DayRecord {
	keys := j.SortedKeys()
	out := make([]DayRecord, 0, len(keys))
	for _, k := range keys {
		rec := j.Days[k].Clone()
		rec.DayKey = k
		out = append(out, rec)
	}
	return out
}

// Record returns the record for key, if any
func (j *Journal) Record(key string) (DayRecord, bool) {
	rec, ok := j.Days[key]
	if !ok {
		return DayRecord{}, false
	}
	rec = rec.Clone()
	rec.DayKey = key
	return rec, true
}

// Clone returns a deep copy of the journal
func (j *Journal) Clone() *Journal {
	out := &Journal{
		StartDate:   j.StartDate,
		LastSaveDay: j.LastSaveDay,
		Revision:    j.Revision,
		Days:        make(map[string]DayRecord, len(j.Days)),
	}
	for k, v := range j.Days {
		out.Days[k] = v.Clone()
	}
	return out
}
