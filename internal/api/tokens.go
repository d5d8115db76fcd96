package api

import (
	"encoding/json"
	"net/http"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/services"
)

type issueTokensRequest struct {
	Count int `json:"count"`
}

const maxTokenBatch = 100

// IssueTokensHandler handles POST /admin/tokens, minting a batch of
// vacant moderator activation tokens.
func IssueTokensHandler(tokens *services.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req issueTokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Count <= 0 || req.Count > maxTokenBatch {
			respondWithError(w, http.StatusBadRequest, "count must be between 1 and 100")
			return
		}

		values, err := tokens.Issue(r.Context(), req.Count)
		if err != nil {
			logging.Error("failed to issue tokens", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to issue tokens")
			return
		}

		respondWithSuccess(w, http.StatusCreated, &values)
	}
}
