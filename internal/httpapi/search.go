package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 25
)

type searchResponse struct {
	Results any `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		s.writeError(w, http.StatusNotFound, "search is not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		s.writeError(w, http.StatusBadRequest, "q parameter required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxSearchLimit {
			n = maxSearchLimit
		}
		limit = n
	}

	results, err := s.searcher.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.WithError(err).Error("search failed")
		s.writeError(w, http.StatusInternalServerError, "search failed, try again later")
		return
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Results: results})
}
