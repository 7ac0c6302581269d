// ABOUTME: Habit journal engine: owns the journal, resolves day boundaries, records days
// ABOUTME: Storage and clock are injected collaborators; stats are derived on demand
package journal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/harper/habit-journal/internal/logging"
	"github.com/harper/habit-journal/internal/models"
	"github.com/harper/habit-journal/internal/storage"
)

// DefaultStorageKey is the key the journal document is stored under
const DefaultStorageKey = "habit-journal"

// Option configures an Engine
type Option func(*Engine)

// WithClock injects the clock used for "now"
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCatalog replaces the default habit catalog
func WithCatalog(catalog *models.Catalog) Option {
	return func(e *Engine) { e.catalog = catalog }
}

// WithChallengeDays sets the challenge length used for day numbering
func WithChallengeDays(days int) Option {
	return func(e *Engine) { e.challengeDays = days }
}

// WithStorageKey sets the key the journal is persisted under
func WithStorageKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// LoadReport describes how the journal was obtained
type LoadReport struct {
	Fresh    bool
	Corrupt  bool
	Dropped  []string
	Repaired []string
}

// Engine is the single in-memory owner of the journal
type Engine struct {
	mu            sync.Mutex
	store         storage.Store
	clock         clockwork.Clock
	logger        *log.Logger
	catalog       *models.Catalog
	key           string
	challengeDays int

	journal   *models.Journal
	draft     *models.Draft
	loaded    bool
	conflicts int
}

// New creates an engine over store. Call Load before use, or let
// StartSession load lazily.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		clock:         clockwork.NewRealClock(),
		logger:        logging.Discard(),
		catalog:       models.DefaultCatalog(),
		key:           DefaultStorageKey,
		challengeDays: DefaultChallengeDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the habit catalog
func (e *Engine) Catalog() *models.Catalog {
	return e.catalog
}

// Clock returns the injected clock
func (e *Engine) Clock() clockwork.Clock {
	return e.clock
}

// ChallengeDays returns the challenge length
func (e *Engine) ChallengeDays() int {
	return e.challengeDays
}

// DraftKey returns the key today's draft is stored under
func (e *Engine) DraftKey() string {
	return e.key + ":draft"
}

// Load reads the journal and draft from storage. Missing or corrupt data
// yields a fresh journal starting today; it never fails.
func (e *Engine) Load() LoadReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked()
}

func (e *Engine) loadLocked() LoadReport {
	var report LoadReport
	today := DayKeyOf(e.clock.Now())

	raw, ok, err := e.store.Get(e.key)
	switch {
	case err != nil:
		e.logger.Warn("could not read journal, starting fresh", "key", e.key, "err", err)
		report.Fresh, report.Corrupt = true, true
	case !ok || raw == "":
		report.Fresh = true
	default:
		j, dr, derr := decodeJournal(raw, e.catalog, today)
		if derr != nil {
			e.logger.Warn("journal is unreadable, starting fresh", "key", e.key, "err", derr)
			report.Fresh, report.Corrupt = true, true
		} else {
			e.journal = j
			report.Dropped, report.Repaired = dr.Dropped, dr.Repaired
			for _, k := range dr.Dropped {
				e.logger.Warn("dropped unusable day record", "day", k)
			}
			for _, k := range dr.Repaired {
				e.logger.Debug("realigned day record to catalog", "day", k)
			}
		}
	}

	if report.Fresh {
		e.journal = models.NewJournal(today)
		// Persist the start date right away unless that would clobber
		// an unreadable document.
		if !report.Corrupt {
			if err := e.persistLocked(); err != nil {
				e.logger.Warn("could not persist new journal", "err", err)
			}
		}
	}

	e.draft = nil
	if rawDraft, ok, err := e.store.Get(e.DraftKey()); err != nil {
		e.logger.Warn("could not read draft", "err", err)
	} else if ok {
		e.draft = decodeDraft(rawDraft, e.catalog)
	}

	e.loaded = true
	e.logger.Debug("journal loaded", "start", e.journal.StartDate, "days", len(e.journal.Days), "fresh", report.Fresh)
	return report
}

func (e *Engine) ensureLoadedLocked() {
	if !e.loaded {
		e.loadLocked()
	}
}

// lastKnownKeyLocked is the most recent day with session activity:
// a saved record or a draft.
func (e *Engine) lastKnownKeyLocked() string {
	last := e.journal.LastSaveDay
	if e.draft != nil && e.draft.DayKey > last {
		last = e.draft.DayKey
	}
	return last
}

// StartSession runs the day boundary check and returns the starting
// checkbox state for today.
func (e *Engine) StartSession() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.startSessionLocked()
}

func (e *Engine) startSessionLocked() *Session {
	now := e.clock.Now()
	today := DayKeyOf(now)
	boundary := ResolveDayBoundary(e.lastKnownKeyLocked(), today)

	s := &Session{
		DayKey:        today,
		Boundary:      boundary,
		ChallengeDays: e.challengeDays,
		catalog:       e.catalog,
		habits:        make([]bool, e.catalog.Len()),
	}
	s.DayNumber, _ = DayNumberForKeys(today, e.journal.StartDate, e.challengeDays)
	if s.DayNumber == 0 {
		s.DayNumber = 1
	}

	switch boundary {
	case Continued:
		if e.draft != nil && e.draft.DayKey == today {
			copy(s.habits, e.draft.Habits)
			s.diary = e.draft.Diary
		} else if rec, ok := e.journal.Record(today); ok {
			copy(s.habits, rec.Habits)
			s.diary = rec.Diary
		}
		s.phase = PhaseDayContinued
	case NewDay:
		if e.draft != nil && e.draft.DayKey != today {
			e.logger.Debug("discarding stale draft", "day", e.draft.DayKey)
			e.draft = nil
		}
		s.phase = PhaseDayReset
	}

	e.logger.Debug("session started", "day", today, "boundary", boundary.String(), "dayNumber", s.DayNumber)
	return s
}

// UpdateToday starts today's session, applies edit and persists the result
// as the draft while holding the engine lock, so concurrent edits never
// start from the same snapshot. A failing edit leaves the draft untouched.
// The returned session reflects the edit even when persisting fails.
func (e *Engine) UpdateToday(edit func(*Session) error) (*Session, error) {
	return e.updateToday(edit, true)
}

// StageToday is UpdateToday without writing the draft to storage
func (e *Engine) StageToday(edit func(*Session) error) (*Session, error) {
	return e.updateToday(edit, false)
}

func (e *Engine) updateToday(edit func(*Session) error, persist bool) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()

	s := e.startSessionLocked()
	if err := edit(s); err != nil {
		return s, err
	}
	e.stageLocked(s)
	if !persist {
		return s, nil
	}
	return s, e.persistDraftLocked()
}

// RecordToday applies edit to today's session and records the day while
// holding the engine lock. A nil edit records the current state.
func (e *Engine) RecordToday(edit func(*Session) error) (*Session, models.DayRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()

	s := e.startSessionLocked()
	if edit != nil {
		if err := edit(s); err != nil {
			return s, models.DayRecord{}, err
		}
	}
	rec, err := e.saveSessionLocked(s)
	return s, rec, err
}

// SaveToday records today's current state, draft included
func (e *Engine) SaveToday() (*Session, models.DayRecord, error) {
	return e.RecordToday(nil)
}

// RecordDay writes or overwrites the record for dayKey and persists the
// whole journal. On a StorageError the in-memory record is kept.
func (e *Engine) RecordDay(dayKey string, habits []bool, diary string) (models.DayRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.recordLocked(dayKey, habits, diary)
}

func (e *Engine) recordLocked(dayKey string, habits []bool, diary string) (models.DayRecord, error) {
	if _, err := ParseDayKey(dayKey); err != nil {
		return models.DayRecord{}, err
	}
	if len(habits) != e.catalog.Len() {
		return models.DayRecord{}, &ValidationError{
			Field:  "habit states",
			Reason: lengthReason(len(habits), e.catalog.Len()),
		}
	}

	rec := models.DayRecord{
		DayKey:    dayKey,
		Habits:    append([]bool(nil), habits...),
		Diary:     diary,
		Timestamp: e.clock.Now(),
	}
	e.journal.Days[dayKey] = rec
	if dayKey > e.journal.LastSaveDay {
		e.journal.LastSaveDay = dayKey
	}

	if err := e.persistLocked(); err != nil {
		e.logger.Error("failed to persist journal", "day", dayKey, "err", err)
		return rec.Clone(), err
	}
	e.logger.Debug("day recorded", "day", dayKey, "completed", rec.CompletedCount())
	return rec.Clone(), nil
}

// SaveDraft keeps the session's in-progress state and persists it
func (e *Engine) SaveDraft(s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()

	e.stageLocked(s)
	return e.persistDraftLocked()
}

// StageDraft keeps the session's in-progress state in memory only
func (e *Engine) StageDraft(s *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	e.stageLocked(s)
}

func (e *Engine) stageLocked(s *Session) {
	e.draft = &models.Draft{
		DayKey:    s.DayKey,
		Habits:    s.Habits(),
		Diary:     s.diary,
		UpdatedAt: e.clock.Now(),
	}
	if s.phase != PhaseSaved {
		s.phase = PhaseEditing
	}
}

// SaveSession records the session's day. A successful save clears the draft.
func (e *Engine) SaveSession(s *Session) (models.DayRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.saveSessionLocked(s)
}

func (e *Engine) saveSessionLocked(s *Session) (models.DayRecord, error) {
	rec, err := e.recordLocked(s.DayKey, s.habits, s.diary)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			// keep the edits re-savable
			e.stageLocked(s)
		}
		return rec, err
	}
	s.phase = PhaseSaved
	e.clearDraftLocked(s.DayKey)
	return rec, nil
}

// SaveStaged records the staged draft, if any. Used by autosave.
func (e *Engine) SaveStaged() (models.DayRecord, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()

	if e.draft == nil {
		return models.DayRecord{}, false, nil
	}
	d := e.draft
	rec, err := e.recordLocked(d.DayKey, d.Habits, d.Diary)
	if err != nil {
		return rec, true, err
	}
	e.clearDraftLocked(d.DayKey)
	return rec, true, nil
}

func (e *Engine) clearDraftLocked(dayKey string) {
	if e.draft == nil || e.draft.DayKey != dayKey {
		return
	}
	e.draft = nil
	if err := e.persistDraftLocked(); err != nil {
		e.logger.Warn("could not clear draft", "err", err)
	}
}

func (e *Engine) persistLocked() error {
	if stored, ok := StoredRevision(e.store, e.key); ok && stored != e.journal.Revision {
		e.logger.Warn("journal changed in storage since it was loaded, overwriting",
			"stored", stored, "loaded", e.journal.Revision)
		e.conflicts++
	}
	prev := e.journal.Revision
	e.journal.Revision = uuid.NewString()
	raw, err := encodeJournal(e.journal)
	if err != nil {
		e.journal.Revision = prev
		return &StorageError{Op: "encode", Key: e.key, Err: err}
	}
	if err := e.store.Set(e.key, raw); err != nil {
		// the stored document still carries prev
		e.journal.Revision = prev
		return &StorageError{Op: "set", Key: e.key, Err: err}
	}
	return nil
}

func (e *Engine) persistDraftLocked() error {
	raw, err := encodeDraft(e.draft)
	if err != nil {
		return &StorageError{Op: "encode", Key: e.DraftKey(), Err: err}
	}
	if err := e.store.Set(e.DraftKey(), raw); err != nil {
		return &StorageError{Op: "set", Key: e.DraftKey(), Err: err}
	}
	return nil
}

// Stats computes statistics over recorded days
func (e *Engine) Stats() models.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return ComputeStats(e.journal, e.catalog)
}

// Journal returns a copy of the current journal
func (e *Engine) Journal() *models.Journal {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.journal.Clone()
}

// History returns recorded days, oldest first
func (e *Engine) History() []models.DayRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.journal.Records()
}

// Revision returns the revision of the journal as last loaded or written
func (e *Engine) Revision() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.journal.Revision
}

// Conflicts counts writes that replaced a journal revision this engine
// had not seen, such as one pulled in by a sync from another device.
func (e *Engine) Conflicts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conflicts
}

// HasDraft reports whether unsaved edits exist for some day
func (e *Engine) HasDraft() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked()
	return e.draft != nil
}

func lengthReason(got, want int) string {
	return fmt.Sprintf("got %d entries, want %d", got, want)
}
