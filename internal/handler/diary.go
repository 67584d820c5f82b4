// Package handler contains the HTTP request handlers for the chronicle API.
//
// Handlers parse requests and write responses. Everything else — validation
// of domain rules, generation, persistence — happens in the service layer.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/chronicle/internal/model"
	"github.com/sakif/chronicle/internal/service"
)

// DiaryHandler exposes the entry store over HTTP.
type DiaryHandler struct {
	svc    *service.DiaryService
	logger *slog.Logger
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(svc *service.DiaryService, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{svc: svc, logger: logger}
}

// generateRequest is the body for POST /api/diary.
//
// Feedback is a pointer on purpose: absent and empty-string feedback are
// different things. Absent means a fresh generation; supplied (even empty)
// switches the engine into the regenerate-with-feedback template.
type generateRequest struct {
	Input    string  `json:"input"`
	Feedback *string `json:"feedback"`
	Username string  `json:"username"`
}

type entryResponse struct {
	Success bool         `json:"success"`
	Entry   *model.Entry `json:"entry"`
}

type entriesResponse struct {
	Success bool          `json:"success"`
	Entries []model.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// HandleGenerate creates a new diary entry from casual notes.
//
// HTTP: POST /api/diary
// BODY: {"input": "...", "feedback": "...?", "username": "...?"}
//
// Username defaults to the "default" sentinel account when omitted.
func (h *DiaryHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid generate request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if req.Input == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no input provided"})
		return
	}

	entry, err := h.svc.Generate(r.Context(), req.Input, req.Username, req.Feedback, service.DefaultContextWindow)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{Success: true, Entry: entry})
}

// HandleList returns a user's entries, newest first.
//
// HTTP: GET /api/entries?username=alice&limit=10
func (h *DiaryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
			return
		}
	}

	entries, err := h.svc.ListEntries(r.Context(), username, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entriesResponse{
		Success: true,
		Entries: entries,
		Count:   len(entries),
	})
}

// HandleGetByID returns a single entry.
//
// HTTP: GET /api/entries/{id}
func (h *DiaryHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{Success: true, Entry: entry})
}

// HandleDelete removes an entry. Deleting an unknown ID is a 404, not a 500 —
// the refinement loop calls this and must be able to tell the two apart.
//
// HTTP: DELETE /api/entries/{id}
func (h *DiaryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "entry deleted successfully",
	})
}

// extractRequest is the body for POST /api/entities.
type extractRequest struct {
	Input string `json:"input"`
}

// HandleExtract runs entity extraction over free text. Stateless — nothing
// is persisted.
//
// HTTP: POST /api/entities
// BODY: {"input": "..."}
func (h *DiaryHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid extract request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if req.Input == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no input provided"})
		return
	}

	entities, err := h.svc.ExtractEntities(r.Context(), req.Input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"entities": entities,
	})
}
