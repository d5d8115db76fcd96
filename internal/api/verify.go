package api

import (
	"errors"
	"fmt"
	"net/http"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/services"
)

// VerifyHandler handles GET /verify?token=..., the landing endpoint of
// emailed verification links.
func VerifyHandler(verification *services.VerificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "missing token", http.StatusBadRequest)
			return
		}

		user, err := verification.Verify(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrVerificationInvalid) {
				http.Error(w, "this verification link is invalid or has expired", http.StatusForbidden)
				return
			}
			logging.Error("verification failed", "error", err.Error())
			http.Error(w, "verification failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body><h3>Thanks, %s!</h3><p>Your email is confirmed. You can return to the chat.</p></body></html>", user.SNP)
	}
}
