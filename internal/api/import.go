package api

import (
	"net/http"

	"colloquium/backstage/internal/importer"
	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/metrics"
)

// ImportScheduleHandler handles POST /admin/import, a multipart upload
// with "members" and "events" CSV parts. The import wipes existing data.
func ImportScheduleHandler(imp *importer.Importer, reg *metrics.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, _, err := r.FormFile("members")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing members file")
			return
		}
		defer members.Close()

		events, _, err := r.FormFile("events")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing events file")
			return
		}
		defer events.Close()

		if err := imp.ImportSchedule(r.Context(), members, events); err != nil {
			logging.Error("schedule import failed", "error", err.Error())
			reg.ImportRunsTotal.WithLabelValues("failure").Inc()
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		reg.ImportRunsTotal.WithLabelValues("success").Inc()
		message := "schedule imported"
		respondWithSuccess(w, http.StatusOK, &message)
	}
}
