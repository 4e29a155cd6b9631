package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/akorchak/yodot/internal/config"
	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/ops"
	"github.com/akorchak/yodot/internal/pipeline"
	"github.com/akorchak/yodot/internal/runlog"
	"github.com/akorchak/yodot/internal/yobase"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	tables *yobase.Tables
	pipe   *pipeline.Pipeline
	cfg    *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, tables *yobase.Tables, cfg *config.Config) *Handlers {
	return &Handlers{
		db:     db,
		tables: tables,
		pipe:   pipeline.New(tables, cfg),
		cfg:    cfg,
	}
}

// Request types for each tool

// RestoreRequest represents the arguments for yo_restore.
type RestoreRequest struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown,omitempty"`
}

// CandidatesRequest represents the arguments for yo_candidates.
type CandidatesRequest struct {
	Text string `json:"text"`
}

// HistoryRequest represents the arguments for yo_history.
type HistoryRequest struct {
	Mode   string `json:"mode,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Result types

// RestoreResult is the payload returned by yo_restore.
type RestoreResult struct {
	Text             string `json:"text"`
	SureReplacements int    `json:"sure_replacements"`
}

// CandidatesResult is the payload returned by yo_candidates.
type CandidatesResult struct {
	Sure   []string `json:"sure"`
	Unsure []string `json:"unsure"`
}

// Handler implementations

// HandleRestore handles the yo_restore tool call.
func (h *Handlers) HandleRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RestoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Text == "" {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	start := time.Now()

	var (
		restored string
		count    int
	)
	if input.Markdown {
		restored, count, err = h.pipe.ApplySureMarkdown(input.Text)
	} else {
		restored, count, err = h.pipe.ApplySure(input.Text)
	}
	if err != nil {
		return errorResult(err), nil
	}

	h.recordRun(input.Text, restored, count, time.Since(start))

	return successResult(RestoreResult{Text: restored, SureReplacements: count})
}

// HandleCandidates handles the yo_candidates tool call.
func (h *Handlers) HandleCandidates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CandidatesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Text == "" {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	sure, unsure := h.pipe.Candidates(input.Text)

	return successResult(CandidatesResult{Sure: sure, Unsure: unsure})
}

// HandleDictionaries handles the yo_dictionaries tool call.
func (h *Handlers) HandleDictionaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.DictStats(h.tables)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the yo_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListRuns(h.db, ops.ListRunsInput{
		Mode:   input.Mode,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// recordRun journals a finished restoration. The journal is advisory: a
// failed insert is logged and the tool result is returned anyway.
func (h *Handlers) recordRun(in, out string, count int, took time.Duration) {
	if h.db == nil {
		return
	}

	_, err := ops.RecordRun(h.db, ops.RecordRunInput{
		Mode:             runlog.ModeApply,
		Source:           runlog.SourceMCP,
		CharsIn:          runlog.CountChars(in),
		CharsOut:         runlog.CountChars(out),
		SureReplacements: count,
		Duration:         took,
	})
	if err != nil {
		log.Printf("record run: %v", err)
	}
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var yerr *errors.YodotError
	if stderrors.As(err, &yerr) {
		message := yerr.Message
		if err != error(yerr) {
			// Wrapped errors keep their wrapper context in the message.
			message = err.Error()
		}
		errorObj := map[string]any{
			"code":    yerr.Code,
			"message": message,
			"status":  yerr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if yerr.Code != errors.ErrInternal && yerr.Details != nil {
			errorObj["details"] = yerr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
