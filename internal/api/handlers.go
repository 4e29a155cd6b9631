package api

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/ops"
	"github.com/akorchak/yodot/internal/pipeline"
	"github.com/akorchak/yodot/internal/runlog"
	"github.com/akorchak/yodot/internal/yobase"
)

// maxBodyBytes bounds request bodies. Restoration works on whole texts, so an
// oversized input is rejected rather than truncated.
const maxBodyBytes = 10 << 20

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db      *sql.DB
	tables  *yobase.Tables
	pipe    *pipeline.Pipeline
	version string
}

type restoreRequest struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown"`
}

type restoreResponse struct {
	Text             string `json:"text"`
	SureReplacements int    `json:"sure_replacements"`
}

// HandleRestore handles POST /v1/restore — run the certain pass over a text.
// With markdown set, code spans, code blocks and raw HTML keep their bytes.
func (h *Handlers) HandleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		renderError(w, err)
		return
	}
	if req.Text == "" {
		renderError(w, errors.NewInvalidRequest("text is required"))
		return
	}

	start := time.Now()
	var (
		out   string
		count int
		err   error
	)
	if req.Markdown {
		out, count, err = h.pipe.ApplySureMarkdown(req.Text)
	} else {
		out, count, err = h.pipe.ApplySure(req.Text)
	}
	if err != nil {
		renderError(w, err)
		return
	}

	h.recordRun(req.Text, out, count, time.Since(start))

	renderJSON(w, http.StatusOK, restoreResponse{
		Text:             out,
		SureReplacements: count,
	})
}

type candidatesRequest struct {
	Text string `json:"text"`
}

type candidatesResponse struct {
	Sure   []string `json:"sure"`
	Unsure []string `json:"unsure"`
}

// HandleCandidates handles POST /v1/candidates — list the dictionary words
// occurring in a text without changing it.
func (h *Handlers) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	var req candidatesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		renderError(w, err)
		return
	}
	if req.Text == "" {
		renderError(w, errors.NewInvalidRequest("text is required"))
		return
	}

	sure, unsure := h.pipe.Candidates(req.Text)
	renderJSON(w, http.StatusOK, candidatesResponse{Sure: sure, Unsure: unsure})
}

// HandleHistory handles GET /v1/history — journaled runs, newest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	input := ops.ListRunsInput{
		Mode:   r.URL.Query().Get("mode"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.ListRuns(h.db, input)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDictionaries handles GET /v1/dictionaries — per-table load stats.
func (h *Handlers) HandleDictionaries(w http.ResponseWriter, r *http.Request) {
	result, err := ops.DictStats(h.tables)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// recordRun journals the run. History is advisory: a failure is logged, never
// surfaced to the client.
func (h *Handlers) recordRun(in, out string, count int, took time.Duration) {
	if h.db == nil {
		return
	}
	_, err := ops.RecordRun(h.db, ops.RecordRunInput{
		Mode:             runlog.ModeApply,
		Source:           runlog.SourceAPI,
		CharsIn:          runlog.CountChars(in),
		CharsOut:         runlog.CountChars(out),
		SureReplacements: count,
		Duration:         took,
	})
	if err != nil {
		log.Printf("record run: %v", err)
	}
}

// decodeJSON decodes a JSON request body into dst, bounding the body size.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewTextTooLarge(int(maxErr.Limit))
		}
		return errors.NewInvalidRequest("request body must be valid JSON")
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
