package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/services"
)

// EventResponsesHandler handles GET /admin/events/{key}/responses.
func EventResponsesHandler(stats *services.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		rows, err := stats.EventResponseStats(r.Context(), key)
		if err != nil {
			logging.Error("failed to aggregate event responses", "key", key, "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to aggregate responses")
			return
		}

		respondWithSuccess(w, http.StatusOK, &rows)
	}
}
