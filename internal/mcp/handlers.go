// ABOUTME: MCP tool handlers for the habit journal server
// ABOUTME: Implements the business logic for each MCP tool
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/logging"
	"github.com/harper/habit-journal/internal/models"
)

// defaultHistoryLimit bounds get_history when no limit is given
const defaultHistoryLimit = 30

// Handlers contains all MCP tool handlers
type Handlers struct {
	engine    *journal.Engine
	autosaver *journal.AutoSaver
	logger    *log.Logger
}

// NewHandlers wires handlers to an engine. autosaver may be nil, in which
// case diary edits are persisted as drafts right away.
func NewHandlers(engine *journal.Engine, autosaver *journal.AutoSaver, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handlers{
		engine:    engine,
		autosaver: autosaver,
		logger:    logger,
	}
}

// GetToday implements the get_today tool
func (h *Handlers) GetToday(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := h.engine.StartSession()
	return jsonResult(map[string]interface{}{
		"today": h.sessionView(session),
	})
}

// SetHabits implements the set_habits tool
func (h *Handlers) SetHabits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("habits is required"), nil
	}
	raw, ok := args["habits"].([]interface{})
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("habits must be a non-empty array of habit IDs"), nil
	}
	done := true
	if v, exists := args["done"]; exists {
		b, ok := v.(bool)
		if !ok {
			return mcp.NewToolResultError("done must be a boolean"), nil
		}
		done = b
	}

	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, ok := item.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid habit ID: %v", item)), nil
		}
		ids = append(ids, id)
	}

	session, err := h.engine.UpdateToday(func(s *journal.Session) error {
		for _, id := range ids {
			if err := s.Set(id, done); err != nil {
				return err
			}
		}
		return nil
	})
	if res := h.editResult(session, err); res != nil {
		return res, nil
	}

	response := map[string]interface{}{
		"success": true,
		"today":   h.sessionView(session),
	}
	if err != nil {
		// the edit is still held in memory
		response["warning"] = err.Error()
	}
	return jsonResult(response)
}

// SetDiary implements the set_diary tool
func (h *Handlers) SetDiary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text is required"), nil
	}

	edit := func(s *journal.Session) error {
		s.SetDiary(text)
		return nil
	}

	if h.autosaver != nil {
		session, _ := h.engine.StageToday(edit)
		h.autosaver.Schedule()
		return jsonResult(map[string]interface{}{
			"success":     true,
			"today":       h.sessionView(session),
			"autosave_in": h.autosaverDelay().String(),
		})
	}

	session, err := h.engine.UpdateToday(edit)
	if res := h.editResult(session, err); res != nil {
		return res, nil
	}
	response := map[string]interface{}{
		"success": true,
		"today":   h.sessionView(session),
	}
	if err != nil {
		response["warning"] = err.Error()
	}
	return jsonResult(response)
}

// editResult turns a rejected edit into a tool error. Storage failures are
// logged and left to the caller to report as a warning.
func (h *Handlers) editResult(session *journal.Session, err error) *mcp.CallToolResult {
	if err == nil {
		return nil
	}
	var storageErr *journal.StorageError
	if errors.As(err, &storageErr) {
		h.logger.Warn("failed to persist draft", "day", session.DayKey, "err", err)
		return nil
	}
	return mcp.NewToolResultError(err.Error())
}

// SaveDay implements the save_day tool
func (h *Handlers) SaveDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.autosaver != nil {
		h.autosaver.Stop()
	}

	_, rec, err := h.engine.SaveToday()
	if err != nil {
		var storageErr *journal.StorageError
		if errors.As(err, &storageErr) {
			return mcp.NewToolResultError(fmt.Sprintf("day kept in memory but not saved: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to save day: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"record":  h.recordView(rec),
		"stats":   h.engine.Stats(),
	})
}

// GetStats implements the get_stats tool
func (h *Handlers) GetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.engine.Stats()
	return jsonResult(map[string]interface{}{
		"stats":            stats,
		"best_habit_label": h.engine.Catalog().Label(stats.BestHabit),
	})
}

// GetHistory implements the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	records := h.engine.History()
	// newest first
	days := make([]map[string]interface{}, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(days) >= limit {
			break
		}
		days = append(days, h.recordView(records[i]))
	}

	return jsonResult(map[string]interface{}{
		"days":  days,
		"count": len(days),
		"total": len(records),
	})
}

// Shutdown runs any pending autosave before the server exits
func (h *Handlers) Shutdown() {
	if h.autosaver == nil {
		return
	}
	if err := h.autosaver.Flush(); err != nil {
		h.logger.Error("final autosave failed", "err", err)
		return
	}
	h.logger.Debug("autosave flushed")
}

func (h *Handlers) autosaverDelay() time.Duration {
	if h.autosaver == nil {
		return 0
	}
	return h.autosaver.Delay()
}

func (h *Handlers) sessionView(s *journal.Session) map[string]interface{} {
	progress := s.Progress()
	return map[string]interface{}{
		"date":           s.DayKey,
		"day_number":     s.DayNumber,
		"challenge_days": s.ChallengeDays,
		"new_day":        s.Boundary == journal.NewDay,
		"habits":         h.habitList(s.Habits()),
		"diary":          s.Diary(),
		"progress":       progressView(progress),
	}
}

func (h *Handlers) recordView(rec models.DayRecord) map[string]interface{} {
	view := map[string]interface{}{
		"date":     rec.DayKey,
		"habits":   h.habitList(rec.Habits),
		"diary":    rec.Diary,
		"progress": progressView(models.NewProgress(rec.Habits)),
		"complete": rec.IsComplete(),
	}
	if !rec.Timestamp.IsZero() {
		view["saved_at"] = rec.Timestamp.Format(time.RFC3339)
	}
	return view
}

func (h *Handlers) habitList(states []bool) []map[string]interface{} {
	catalog := h.engine.Catalog()
	habits := make([]map[string]interface{}, 0, catalog.Len())
	for i, habit := range catalog.Habits() {
		habits = append(habits, map[string]interface{}{
			"id":    habit.ID,
			"label": habit.Label,
			"done":  i < len(states) && states[i],
		})
	}
	return habits
}

func progressView(p models.Progress) map[string]interface{} {
	return map[string]interface{}{
		"completed": p.Completed,
		"total":     p.Total,
		"percent":   p.Percent,
	}
}

func jsonResult(response interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
