package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopsight/shopsight/internal/auth"
	"github.com/shopsight/shopsight/internal/insight"
	"github.com/shopsight/shopsight/internal/nlq"
)

const maxQuestionLength = 1000

type askRequest struct {
	Question string `json:"question"`
	Insights bool   `json:"insights"`
}

type askResponse struct {
	nlq.Envelope
	Insight *insight.Insight `json:"insight,omitempty"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Engine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ENGINE_NOT_CONFIGURED", "question engine is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}
	if len(request.Question) > maxQuestionLength {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_TOO_LONG", fmt.Sprintf("question exceeds %d characters", maxQuestionLength), false, nil)
		return
	}

	envelope := deps.Engine.Query(r.Context(), request.Question)

	response := askResponse{Envelope: envelope}
	if request.Insights && deps.Insights != nil && envelope.Status == nlq.StatusSuccess {
		result := deps.Insights.Analyze(r.Context(), envelope.QueryAsked, envelope)
		response.Insight = &result
	}

	writeJSON(w, http.StatusOK, response)
}

func requireRole(r *http.Request, role string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	if identity.HasRole(role) {
		return nil
	}
	return fmt.Errorf("missing required role %q", role)
}
