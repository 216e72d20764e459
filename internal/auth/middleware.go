package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

// RequireAdmin guards admin-only routes: 401 without a session, 403
// for a non-admin session.
func RequireAdmin(svc *Service, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.CurrentSession(r.Context())
		if err != nil {
			logger.Error("failed to read session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if session == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if session.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}

		next(w, r)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
