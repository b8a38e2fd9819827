package http

import (
	"log/slog"
	"net/http"

	"cashbook/internal/services"
)

// loadMonth parses the month selection, then serves the build from cache or
// rebuilds and caches it. Returns nil after writing an error response.
func (s *Server) loadMonth(w http.ResponseWriter, r *http.Request) (*services.MonthlyCashBook, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	params, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	key := params.CacheKey()
	if book, ok := s.bookCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Cash book cache hit", "key", key)
		return book, true
	}

	book, err := s.books.BuildMonth(r.Context(), params.Year, params.Month, params.Currency)
	if err != nil {
		slog.ErrorContext(r.Context(), "Cash book build failed",
			"error", err,
			"year", params.Year,
			"month", int(params.Month),
			"currency", string(params.Currency))
		writeError(w, r, http.StatusInternalServerError, "failed to build cash book")
		return nil, false
	}

	s.bookCache.Set(key, book)
	return book, true
}

// handleGetCashBook serves the complete rebuilt month: entries, summary,
// and both breakdowns.
func (s *Server) handleGetCashBook(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadMonth(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, book)
}

// handleGetSummary serves only the headline figures.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadMonth(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"year":     book.Year,
		"month":    book.Month,
		"currency": book.Currency,
		"summary":  book.Summary,
	})
}

// handleGetDaily serves the per-day roll-up.
func (s *Server) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadMonth(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"year":     book.Year,
		"month":    book.Month,
		"currency": book.Currency,
		"daily":    book.Daily,
	})
}

// handleGetByType serves the per-transaction-type roll-up.
func (s *Server) handleGetByType(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadMonth(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"year":     book.Year,
		"month":    book.Month,
		"currency": book.Currency,
		"byType":   book.ByType,
	})
}
