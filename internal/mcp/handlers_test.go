// ABOUTME: Tests for the journal MCP tool handlers
// ABOUTME: Drives handlers against an in-memory store and a fake clock
package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/storage"
)

var sept1 = time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC)

func setupHandlers(t *testing.T, withAutosave bool) (*Handlers, *journal.Engine, *clockwork.FakeClock, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := clockwork.NewFakeClockAt(sept1)
	engine := journal.New(store, journal.WithClock(clock))
	engine.Load()

	var saver *journal.AutoSaver
	if withAutosave {
		saver = journal.NewAutoSaver(engine, 2*time.Second, nil)
	}
	return NewHandlers(engine, saver, nil), engine, clock, store
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) map[string]any {
	t.Helper()
	result, isErr := callToolRaw(t, handler, args)
	if isErr {
		t.Fatalf("tool returned error: %s", result)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, result)
	}
	return decoded
}

func callToolRaw(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func habitDone(t *testing.T, today map[string]any, id string) bool {
	t.Helper()
	for _, raw := range today["habits"].([]any) {
		habit := raw.(map[string]any)
		if habit["id"] == id {
			return habit["done"].(bool)
		}
	}
	t.Fatalf("habit %s not in response", id)
	return false
}

func TestGetToday_FreshJournal(t *testing.T) {
	h, _, _, _ := setupHandlers(t, false)

	resp := callTool(t, h.GetToday, nil)
	today := resp["today"].(map[string]any)

	if today["date"] != "2025-09-01" {
		t.Errorf("date = %v", today["date"])
	}
	if today["day_number"].(float64) != 1 {
		t.Errorf("day_number = %v, want 1", today["day_number"])
	}
	if today["new_day"] != true {
		t.Error("first session should start a new day")
	}
	if len(today["habits"].([]any)) != 9 {
		t.Errorf("habits = %d, want 9", len(today["habits"].([]any)))
	}
}

func TestSetHabits_KeepsDraftAcrossCalls(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	callTool(t, h.SetHabits, map[string]any{"habits": []any{"water", "sleep"}})
	resp := callTool(t, h.SetHabits, map[string]any{"habits": []any{"sleep"}, "done": false})

	today := resp["today"].(map[string]any)
	if !habitDone(t, today, "water") {
		t.Error("water should stay done from the first call")
	}
	if habitDone(t, today, "sleep") {
		t.Error("sleep should be cleared by the second call")
	}
	if !engine.HasDraft() {
		t.Error("edits should be held as a draft")
	}
	if len(engine.History()) != 0 {
		t.Error("set_habits must not record the day")
	}
}

func TestSetHabits_RejectsUnknownHabit(t *testing.T) {
	h, _, _, _ := setupHandlers(t, false)

	text, isErr := callToolRaw(t, h.SetHabits, map[string]any{"habits": []any{"juggling"}})
	if !isErr {
		t.Errorf("expected an error result, got %s", text)
	}

	if _, isErr := callToolRaw(t, h.SetHabits, map[string]any{}); !isErr {
		t.Error("missing habits should be an error")
	}
	if _, isErr := callToolRaw(t, h.SetHabits, map[string]any{"habits": []any{"water"}, "done": "yes"}); !isErr {
		t.Error("non-boolean done should be an error")
	}
}

func TestSaveDay_RecordsAndReturnsStats(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	callTool(t, h.SetHabits, map[string]any{"habits": []any{"water"}})
	resp := callTool(t, h.SaveDay, nil)

	record := resp["record"].(map[string]any)
	if record["date"] != "2025-09-01" {
		t.Errorf("record date = %v", record["date"])
	}
	progress := record["progress"].(map[string]any)
	if progress["completed"].(float64) != 1 {
		t.Errorf("completed = %v, want 1", progress["completed"])
	}
	stats := resp["stats"].(map[string]any)
	if stats["recorded_days"].(float64) != 1 {
		t.Errorf("recorded_days = %v, want 1", stats["recorded_days"])
	}
	if engine.HasDraft() {
		t.Error("save should clear the draft")
	}
}

func TestSaveDay_StorageFailureIsReported(t *testing.T) {
	h, engine, _, store := setupHandlers(t, false)

	store.SetReadOnly(true)
	text, isErr := callToolRaw(t, h.SaveDay, nil)
	if !isErr {
		t.Fatalf("expected an error result, got %s", text)
	}
	if _, ok := engine.Journal().Record("2025-09-01"); !ok {
		t.Error("record should be kept in memory after a failed write")
	}
}

func TestSetDiary_AutosavesAfterQuietWindow(t *testing.T) {
	h, engine, clock, _ := setupHandlers(t, true)

	callTool(t, h.SetDiary, map[string]any{"text": "first"})
	clock.Advance(time.Second)
	resp := callTool(t, h.SetDiary, map[string]any{"text": "second"})
	if resp["autosave_in"] != "2s" {
		t.Errorf("autosave_in = %v", resp["autosave_in"])
	}

	clock.Advance(2 * time.Second)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(engine.History()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	history := engine.History()
	if len(history) != 1 || history[0].Diary != "second" {
		t.Fatalf("history = %+v, want one record with the last diary", history)
	}
}

func TestShutdown_FlushesPendingAutosave(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, true)

	callTool(t, h.SetDiary, map[string]any{"text": "before exit"})
	h.Shutdown()

	rec, ok := engine.Journal().Record("2025-09-01")
	if !ok || rec.Diary != "before exit" {
		t.Errorf("record = %+v, want flushed diary", rec)
	}
}

func TestGetHistory_NewestFirstWithLimit(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	habits := make([]bool, engine.Catalog().Len())
	for _, day := range []string{"2025-09-01", "2025-09-02", "2025-09-03"} {
		if _, err := engine.RecordDay(day, habits, "entry "+day); err != nil {
			t.Fatalf("RecordDay(%s) error = %v", day, err)
		}
	}

	resp := callTool(t, h.GetHistory, map[string]any{"limit": 2})
	days := resp["days"].([]any)
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].(map[string]any)["date"] != "2025-09-03" {
		t.Errorf("first day = %v, want newest", days[0].(map[string]any)["date"])
	}
	if resp["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", resp["total"])
	}

	if _, isErr := callToolRaw(t, h.GetHistory, map[string]any{"limit": -1}); !isErr {
		t.Error("negative limit should be an error")
	}
}

func TestGetStats_BestHabitLabel(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	resp := callTool(t, h.GetStats, nil)
	if resp["best_habit_label"] != "-" {
		t.Errorf("best_habit_label = %v, want -", resp["best_habit_label"])
	}

	habits := make([]bool, engine.Catalog().Len())
	habits[engine.Catalog().IndexOf("reading")] = true
	if _, err := engine.RecordDay("2025-09-01", habits, ""); err != nil {
		t.Fatal(err)
	}
	resp = callTool(t, h.GetStats, nil)
	if resp["best_habit_label"] != "Reading" {
		t.Errorf("best_habit_label = %v, want Reading", resp["best_habit_label"])
	}
}

func TestSetHabits_ConcurrentCallsKeepEveryCheck(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	ids := engine.Catalog().IDs()
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			request := mcp.CallToolRequest{}
			request.Params.Arguments = map[string]any{"habits": []any{id}}
			if result, err := h.SetHabits(context.Background(), request); err != nil || result.IsError {
				t.Errorf("set_habits %s failed: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	today := callTool(t, h.GetToday, nil)["today"].(map[string]any)
	for _, id := range ids {
		if !habitDone(t, today, id) {
			t.Errorf("%s lost by a concurrent set_habits call", id)
		}
	}
}

func TestSetHabits_RejectedCallChangesNothing(t *testing.T) {
	h, engine, _, _ := setupHandlers(t, false)

	callTool(t, h.SetHabits, map[string]any{"habits": []any{"water"}})
	if _, isErr := callToolRaw(t, h.SetHabits, map[string]any{"habits": []any{"sleep", "juggling"}}); !isErr {
		t.Fatal("expected an error result")
	}

	s := engine.StartSession()
	if !s.Done("water") || s.Done("sleep") {
		t.Errorf("habits = %v, want only water", s.Habits())
	}
}

func TestSetHabits_StorageFailureIsAWarning(t *testing.T) {
	h, engine, _, store := setupHandlers(t, false)
	store.SetReadOnly(true)

	resp := callTool(t, h.SetHabits, map[string]any{"habits": []any{"water"}})
	if resp["warning"] == nil {
		t.Error("a failed draft write should be reported as a warning")
	}
	if !habitDone(t, resp["today"].(map[string]any), "water") {
		t.Error("the edit should still be returned")
	}
	if !engine.StartSession().Done("water") {
		t.Error("the edit should be held in memory")
	}
}
