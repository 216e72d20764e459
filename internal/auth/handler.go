package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("failed to process login", "error", err, "username", req.Username)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil {
		h.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	h.writeJSON(w, http.StatusOK, domain.Session{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("user logged out")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CurrentSession(r.Context())
	if err != nil {
		h.logger.Error("failed to read session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if session == nil {
		h.writeError(w, http.StatusNotFound, "no active session")
		return
	}

	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
