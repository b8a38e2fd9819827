package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cashbook/internal/core"
	"cashbook/internal/sources"
)

// manualEntryRequest is the mutation payload. Amounts travel as decimal
// strings; a blank amount means zero in that currency.
type manualEntryRequest struct {
	Date        string `json:"date"`
	AmountFC    string `json:"amountFC"`
	AmountUSD   string `json:"amountUSD"`
	Description string `json:"description"`
	Direction   string `json:"direction"`
}

func (req manualEntryRequest) toEntry(id string) (core.ManualEntry, error) {
	entry := core.ManualEntry{
		ID:          id,
		Date:        core.ParseTimestamp(strings.TrimSpace(req.Date)),
		Description: sanitizeInput(req.Description),
		Direction:   core.Direction(strings.ToUpper(strings.TrimSpace(req.Direction))),
	}

	var err error
	if entry.AmountFC, err = parseAmount(req.AmountFC); err != nil {
		return core.ManualEntry{}, fmt.Errorf("amountFC: %w", err)
	}
	if entry.AmountUSD, err = parseAmount(req.AmountUSD); err != nil {
		return core.ManualEntry{}, fmt.Errorf("amountUSD: %w", err)
	}

	return entry, nil
}

// handleManualEntries routes /api/manual-entries: GET lists, POST creates.
func (s *Server) handleManualEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListManualEntries(w, r)
	case http.MethodPost:
		s.handleCreateManualEntry(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleManualEntryByID routes /api/manual-entries/{id}: PUT updates,
// DELETE removes.
func (s *Server) handleManualEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/manual-entries/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleUpdateManualEntry(w, r, id)
	case http.MethodDelete:
		s.handleDeleteManualEntry(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListManualEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.manual.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Manual entry list failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list manual entries")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleCreateManualEntry(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeManualEntry(w, r)
	if !ok {
		return
	}

	entry, err := req.toEntry("")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.manual.Create(r.Context(), entry)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}

	s.evictBooks()
	entry.ID = id
	writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleUpdateManualEntry(w http.ResponseWriter, r *http.Request, id string) {
	req, ok := decodeManualEntry(w, r)
	if !ok {
		return
	}

	entry, err := req.toEntry(id)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.manual.Update(r.Context(), entry); err != nil {
		s.writeMutationError(w, r, err)
		return
	}

	s.evictBooks()
	writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleDeleteManualEntry(w http.ResponseWriter, r *http.Request, id string) {
	// Fallback month for the invalidation publish when the stored entry
	// cannot be read back before deletion.
	date := core.ParseTimestamp(strings.TrimSpace(r.URL.Query().Get("date")))

	if err := s.manual.Delete(r.Context(), id, date); err != nil {
		s.writeMutationError(w, r, err)
		return
	}

	s.evictBooks()
	w.WriteHeader(http.StatusNoContent)
}

func decodeManualEntry(w http.ResponseWriter, r *http.Request) (manualEntryRequest, bool) {
	var req manualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return manualEntryRequest{}, false
	}
	return req, true
}

func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sources.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "manual entry not found")
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidDirection),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Manual entry mutation failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "manual entry mutation failed")
	}
}

// evictBooks drops every cached month. A month's opening balance folds over
// the full prior history, so a mutated record stales not just its own month
// but every cached month after it.
func (s *Server) evictBooks() {
	s.bookCache.Clear()
}
