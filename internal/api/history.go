package api

import (
	"net/http"
	"strconv"

	"github.com/shopsight/shopsight/internal/auth"
	"github.com/shopsight/shopsight/internal/history"
)

const maxHistoryLimit = 500

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
	Count   int             `json:"count"`
}

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.History == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "HISTORY_NOT_CONFIGURED", "query history is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	limit := deps.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", false, nil)
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := deps.History.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_ERROR", "failed to list query history", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})
}
