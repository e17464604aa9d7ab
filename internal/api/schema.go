package api

import (
	"net/http"

	"github.com/shopsight/shopsight/internal/auth"
	"github.com/shopsight/shopsight/internal/dataset"
)

type schemaResponse struct {
	Tables []dataset.TableInfo `json:"tables"`
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "STORE_NOT_CONFIGURED", "analytical store is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	infos, err := dataset.Describe(r.Context(), deps.Store)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_ERROR", "failed to describe store", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse{Tables: infos})
}

// exampleQuestions showcases the vocabulary the classifier understands, one
// per intent.
var exampleQuestions = []string{
	"Top selling category?",
	"What's the highest selling category in the past 2 quarters?",
	"Revenue trend over the past 6 months",
	"Average order value by category",
	"Total revenue",
	"How many orders do we have?",
	"Payment method breakdown",
	"Orders by state",
	"Order status distribution",
	"Delivery performance",
	"Top 5 customers by lifetime revenue",
}

func handleExamples(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"examples": exampleQuestions})
}
