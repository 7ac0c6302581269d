// ABOUTME: Tests for the journal commands end to end
// ABOUTME: Runs today, check, diary, save, stats, history and export against one store

package commands

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/storage"
)

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
}

func doneIDs(habits []habitState) []string {
	var ids []string
	for _, h := range habits {
		if h.Done {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

func TestToday_FreshJournal(t *testing.T) {
	setupCLI(t, sept1)

	out, _, err := runCLI(t, "", "today")
	if err != nil {
		t.Fatalf("today error = %v", err)
	}

	expected := []string{
		"Day 1 of 30 (2025-09-01)",
		"[ ]  Training",
		"Progress:",
		"0/9 (0%)",
	}
	for _, part := range expected {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q\n%s", part, out)
		}
	}
}

func TestCheck_KeepsDraftUntilSave(t *testing.T) {
	store, _ := setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "check", "water", "sleep"); err != nil {
		t.Fatalf("check error = %v", err)
	}
	if _, _, err := runCLI(t, "", "uncheck", "sleep"); err != nil {
		t.Fatalf("uncheck error = %v", err)
	}
	if _, _, err := runCLI(t, "", "toggle", "reading"); err != nil {
		t.Fatalf("toggle error = %v", err)
	}

	out, _, err := runCLI(t, "", "--format", "json", "today")
	if err != nil {
		t.Fatalf("today error = %v", err)
	}
	var resp struct {
		Today    todayView `json:"today"`
		HasDraft bool      `json:"has_draft"`
	}
	decodeJSON(t, out, &resp)

	if got := strings.Join(doneIDs(resp.Today.Habits), ","); got != "reading,water" {
		t.Errorf("done = %s, want reading,water", got)
	}
	if resp.Today.NewDay {
		t.Error("same-day session should continue")
	}
	if !resp.HasDraft {
		t.Error("edits should be kept as a draft")
	}
	if v, _, _ := store.Get("habit-journal:draft"); v == "" {
		t.Error("draft should be persisted between invocations")
	}

	out, _, _ = runCLI(t, "", "--format", "json", "history")
	var history []historyEntry
	decodeJSON(t, out, &history)
	if len(history) != 0 {
		t.Errorf("history = %d entries before save, want 0", len(history))
	}
}

func TestCheck_UnknownHabit(t *testing.T) {
	setupCLI(t, sept1)

	_, _, err := runCLI(t, "", "check", "juggling")
	if err == nil {
		t.Fatal("expected error for unknown habit")
	}
	if !strings.Contains(err.Error(), "habits catalog") {
		t.Errorf("error should point at the catalog: %v", err)
	}
}

func TestSave_RecordsDayAndClearsDraft(t *testing.T) {
	setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "check", "water", "prayer"); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "save")
	if err != nil {
		t.Fatalf("save error = %v", err)
	}
	if !strings.Contains(out, "Saved 2025-09-01: 2/9 habits (22%)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, _, _ = runCLI(t, "", "--format", "json", "history")
	var history []historyEntry
	decodeJSON(t, out, &history)
	if len(history) != 1 || history[0].Date != "2025-09-01" || history[0].Percent != 22 {
		t.Errorf("history = %+v", history)
	}

	out, _, _ = runCLI(t, "", "--format", "json", "today")
	var resp struct {
		Today    todayView `json:"today"`
		HasDraft bool      `json:"has_draft"`
	}
	decodeJSON(t, out, &resp)
	if resp.HasDraft {
		t.Error("save should clear the draft")
	}
	if got := strings.Join(doneIDs(resp.Today.Habits), ","); got != "prayer,water" {
		t.Errorf("today after save = %s, want saved state", got)
	}
}

func TestNewDay_ResetsChecklistKeepsHistory(t *testing.T) {
	_, clock := setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "check", "water", "--save"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "", "check", "sleep"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(24 * time.Hour)

	out, _, err := runCLI(t, "", "--format", "json", "today")
	if err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Today todayView `json:"today"`
	}
	decodeJSON(t, out, &resp)

	if !resp.Today.NewDay || resp.Today.Date != "2025-09-02" || resp.Today.DayNumber != 2 {
		t.Errorf("today = %+v, want new day 2025-09-02 (day 2)", resp.Today)
	}
	if ids := doneIDs(resp.Today.Habits); len(ids) != 0 {
		t.Errorf("new day should start empty, got %v", ids)
	}

	out, _, _ = runCLI(t, "", "--format", "json", "history")
	var history []historyEntry
	decodeJSON(t, out, &history)
	if len(history) != 1 || history[0].Date != "2025-09-01" {
		t.Errorf("history = %+v, want the saved first day only", history)
	}
}

func TestDiary_ArgumentStdinAndAppend(t *testing.T) {
	setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "diary", "Long run"); err != nil {
		t.Fatalf("diary error = %v", err)
	}
	if _, _, err := runCLI(t, "felt great\n", "diary", "--append"); err != nil {
		t.Fatalf("diary --append error = %v", err)
	}

	out, _, err := runCLI(t, "", "--format", "json", "today")
	if err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Today todayView `json:"today"`
	}
	decodeJSON(t, out, &resp)
	if resp.Today.Diary != "Long run\nfelt great" {
		t.Errorf("diary = %q", resp.Today.Diary)
	}
}

func TestDiary_FromFile(t *testing.T) {
	setupCLI(t, sept1)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("from a file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "diary", "--file", path, "--save")
	if err != nil {
		t.Fatalf("diary error = %v", err)
	}
	if !strings.Contains(out, "Diary updated for 2025-09-01: from a file") {
		t.Errorf("unexpected output: %s", out)
	}

	out, _, _ = runCLI(t, "", "--format", "json", "history")
	var history []historyEntry
	decodeJSON(t, out, &history)
	if len(history) != 1 || history[0].Diary != "from a file" {
		t.Errorf("history = %+v", history)
	}
}

func TestSave_StorageFailureAfterRetries(t *testing.T) {
	store, _ := setupCLI(t, sept1)

	orig := retryDelay
	retryDelay = 0
	t.Cleanup(func() { retryDelay = orig })

	if _, _, err := runCLI(t, "", "check", "water"); err != nil {
		t.Fatal(err)
	}
	store.SetReadOnly(true)
	writes := store.Writes()

	_, _, err := runCLI(t, "", "save", "--retries", "2")
	if err == nil {
		t.Fatal("expected save to fail on a read-only store")
	}
	if !errors.Is(err, storage.ErrReadOnly) {
		t.Errorf("error = %v, want wrapped ErrReadOnly", err)
	}
	if store.Writes() != writes {
		t.Error("read-only store should not record writes")
	}

	store.SetReadOnly(false)
	if _, _, err := runCLI(t, "", "save"); err != nil {
		t.Fatalf("save after recovery error = %v", err)
	}
}

func TestSave_NegativeRetries(t *testing.T) {
	setupCLI(t, sept1)
	if _, _, err := runCLI(t, "", "save", "--retries", "-1"); err == nil {
		t.Error("negative --retries should be rejected")
	}
}

func TestStats_StreakAcrossDays(t *testing.T) {
	_, clock := setupCLI(t, sept1)

	all := []string{"check", "training", "no-games", "no-social-media", "purity", "prayer", "reading", "fasting", "water", "sleep", "--save"}
	if _, _, err := runCLI(t, "", all...); err != nil {
		t.Fatal(err)
	}
	clock.Advance(24 * time.Hour)
	if _, _, err := runCLI(t, "", all...); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "--format", "json", "stats")
	if err != nil {
		t.Fatal(err)
	}
	var stats struct {
		CompletedDays   int `json:"completed_days"`
		CurrentStreak   int `json:"current_streak"`
		AverageProgress int `json:"average_progress"`
	}
	decodeJSON(t, out, &stats)
	if stats.CompletedDays != 2 || stats.CurrentStreak != 2 || stats.AverageProgress != 100 {
		t.Errorf("stats = %+v", stats)
	}

	out, _, _ = runCLI(t, "", "stats")
	if !strings.Contains(out, "Current streak:") || !strings.Contains(out, "HABIT") {
		t.Errorf("table output missing sections:\n%s", out)
	}
}

func TestHistory_EmptyAndLimit(t *testing.T) {
	_, clock := setupCLI(t, sept1)

	out, _, err := runCLI(t, "", "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No days recorded yet") {
		t.Errorf("unexpected output: %s", out)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := runCLI(t, "", "check", "water", "--save"); err != nil {
			t.Fatal(err)
		}
		clock.Advance(24 * time.Hour)
	}

	out, _, _ = runCLI(t, "", "--format", "json", "history", "--limit", "2")
	var history []historyEntry
	decodeJSON(t, out, &history)
	if len(history) != 2 || history[0].Date != "2025-09-03" || history[1].Date != "2025-09-02" {
		t.Errorf("history = %+v, want newest two", history)
	}
}

func TestExport_MarkdownToFile(t *testing.T) {
	setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "check", "water", "--save"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "journal.md")
	if _, _, err := runCLI(t, "", "export", "-f", "markdown", "-o", path); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "### 2025-09-01 (1/9, 11%)") {
		t.Errorf("markdown export missing day header:\n%s", data)
	}
}

func TestExport_Flags(t *testing.T) {
	cmd := NewExportCmd()

	tests := []struct {
		flagName  string
		shorthand string
		defValue  string
	}{
		{"output", "o", ""},
		{"format", "f", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.flagName, flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}

	for _, format := range []string{"yaml", "json", "markdown"} {
		if !strings.Contains(strings.ToLower(cmd.Long), format) {
			t.Errorf("Long description should mention %q format", format)
		}
	}
}

func TestCatalog(t *testing.T) {
	out, _, err := runCLI(t, "", "catalog")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}
	for _, id := range []string{"training", "no-social-media", "sleep"} {
		if !strings.Contains(out, id) {
			t.Errorf("catalog missing %s\n%s", id, out)
		}
	}

	out, _, _ = runCLI(t, "", "--format", "json", "catalog")
	var habits []map[string]string
	decodeJSON(t, out, &habits)
	if len(habits) != 9 || habits[0]["id"] != "training" {
		t.Errorf("catalog JSON = %v", habits)
	}
}

func TestCommandFlags_AreLocalToEachCommand(t *testing.T) {
	tests := []struct {
		name  string
		build func() *cobra.Command
		flag  string
		value string
	}{
		{"diary append", NewDiaryCmd, "append", "true"},
		{"diary file", NewDiaryCmd, "file", "notes.txt"},
		{"diary save", NewDiaryCmd, "save", "true"},
		{"save retries", NewSaveCmd, "retries", "3"},
		{"history limit", NewHistoryCmd, "limit", "7"},
		{"export output", NewExportCmd, "output", "journal.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.build()
			if err := first.Flags().Set(tt.flag, tt.value); err != nil {
				t.Fatalf("Set(%s) error = %v", tt.flag, err)
			}
			second := tt.build()

			if got := first.Flags().Lookup(tt.flag).Value.String(); got != tt.value {
				t.Errorf("first --%s = %q after building another command, want %q", tt.flag, got, tt.value)
			}
			if got := second.Flags().Lookup(tt.flag).Value.String(); got == tt.value {
				t.Errorf("second --%s inherited %q", tt.flag, got)
			}
		})
	}
}

func TestDiary_AppendDoesNotCarryOver(t *testing.T) {
	setupCLI(t, sept1)

	if _, _, err := runCLI(t, "", "diary", "first"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "", "diary", "--append", "second"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "", "diary", "replaced"); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "today", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Today todayView `json:"today"`
	}
	decodeJSON(t, out, &resp)
	if resp.Today.Diary != "replaced" {
		t.Errorf("diary = %q, want replaced", resp.Today.Diary)
	}
}
