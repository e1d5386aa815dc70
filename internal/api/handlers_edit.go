package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rptedit/internal/command"
	"rptedit/internal/docstore"
	"rptedit/internal/edit"
	"rptedit/internal/preview"
)

type editRequest struct {
	Command string `json:"command"`
}

// handlePreviewEdit resolves an instruction, applies it to a copy of the
// document, and returns the structural diff without persisting anything.
func (s *Server) handlePreviewEdit(w http.ResponseWriter, r *http.Request) {
	entry, instruction, ok := s.readEditRequest(w, r)
	if !ok {
		return
	}

	cmd, err := s.resolver.Resolve(r.Context(), instruction, entry.Doc)
	if err != nil {
		writeEditError(w, err)
		return
	}

	modified, err := edit.Apply(entry.Doc, cmd)
	if err != nil {
		writeEditError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":      "edit preview generated successfully",
		"edit_command": cmd,
		"preview":      preview.Diff(entry.Doc, modified),
	})
}

// handleApplyEdit resolves an instruction, persists the modified document,
// records the command in the report's history, and returns the diff along
// with the new metadata.
func (s *Server) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	entry, instruction, ok := s.readEditRequest(w, r)
	if !ok {
		return
	}

	cmd, err := s.resolver.Resolve(r.Context(), instruction, entry.Doc)
	if err != nil {
		writeEditError(w, err)
		return
	}

	original := entry.Doc
	modified, err := s.applicator.Apply(entry.ID, original, cmd)
	if err != nil {
		writeEditError(w, err)
		return
	}
	s.store.Update(entry.ID, modified)

	s.log.Info("edit applied", "report_id", entry.ID, "edit_type", cmd.Type, "target", cmd.Target)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":           "edit applied successfully",
		"edit_command":      cmd,
		"preview":           preview.Diff(original, modified),
		"modified_metadata": modified,
	})
}

// handleEditHistory returns the commands applied to a report in order.
func (s *Server) handleEditHistory(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	entry := s.store.Get(reportID)
	if entry == nil {
		jsonError(w, "report not found, please upload the report first", http.StatusNotFound)
		return
	}

	history := s.applicator.History.List(reportID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"report_id":    reportID,
		"edit_history": history,
	})
}

// readEditRequest loads the report and the instruction shared by the
// preview and apply handlers.
func (s *Server) readEditRequest(w http.ResponseWriter, r *http.Request) (*docstore.Entry, string, bool) {
	reportID := chi.URLParam(r, "reportID")
	entry := s.store.Get(reportID)
	if entry == nil {
		jsonError(w, "report not found, please upload the report first", http.StatusNotFound)
		return nil, "", false
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	instruction := strings.TrimSpace(req.Command)
	if instruction == "" {
		jsonError(w, "edit command is required", http.StatusBadRequest)
		return nil, "", false
	}
	return entry, instruction, true
}

// writeEditError maps the edit error taxonomy onto HTTP statuses,
// surfacing each message verbatim so the user can rephrase.
func writeEditError(w http.ResponseWriter, err error) {
	var (
		parseErr      *command.ParseError
		validationErr *edit.ValidationError
		notFoundErr   *edit.NotFoundError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, "failed to apply edit: "+err.Error(), http.StatusInternalServerError)
	}
}
