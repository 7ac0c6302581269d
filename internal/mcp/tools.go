// ABOUTME: MCP tool definitions and registration for the habit journal server
// ABOUTME: Defines JSON schemas for the six journal tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/habit-journal/internal/journal"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *journal.Engine, autosaver *journal.AutoSaver, logger *log.Logger) *Handlers {
	handlers := NewHandlers(engine, autosaver, logger)

	// 1. get_today - Current day snapshot after the day boundary check
	server.AddTool(mcp.Tool{
		Name:        "get_today",
		Description: "Get today's habit checklist, diary text, challenge day number and progress. Starts a fresh day when the last activity was on an earlier date.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetToday)

	// 2. set_habits - Mark habits done or not done for today
	server.AddTool(mcp.Tool{
		Name:        "set_habits",
		Description: "Mark one or more habits as done (or not done) for today. Changes are kept as a draft until save_day is called.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"habits": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Habit IDs to update (see get_today for the catalog)",
				},
				"done": map[string]interface{}{
					"type":        "boolean",
					"description": "New state for the listed habits (default: true)",
					"default":     true,
				},
			},
			Required: []string{"habits"},
		},
	}, handlers.SetHabits)

	// 3. set_diary - Replace today's diary text
	server.AddTool(mcp.Tool{
		Name:        "set_diary",
		Description: "Replace today's diary text. The day is saved automatically after a short quiet period.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full diary text for today",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.SetDiary)

	// 4. save_day - Record today's state immediately
	server.AddTool(mcp.Tool{
		Name:        "save_day",
		Description: "Save today's habits and diary into the journal now. Saving the same day again overwrites it.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.SaveDay)

	// 5. get_stats - Derived statistics
	server.AddTool(mcp.Tool{
		Name:        "get_stats",
		Description: "Get journal statistics: completed days, current and best streak, average progress, best habit and per-habit completion rates.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetStats)

	// 6. get_history - Recorded days, newest first
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "List recorded days with their completed habits and diary, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of days to return (default: 30, 0 for all)",
					"default":     30,
				},
			},
		},
	}, handlers.GetHistory)

	return handlers
}
