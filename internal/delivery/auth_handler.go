package delivery

import (
	"context"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type RoleLister interface {
	ListRoles(ctx context.Context) ([]models.RoleDefinition, error)
}

type AuthHandler struct {
	auth  ports.AuthService
	roles RoleLister
	log   *logger.ZapLogger
}

func NewAuthHandler(auth ports.AuthService, roles RoleLister, log *logger.ZapLogger) *AuthHandler {
	return &AuthHandler{auth: auth, roles: roles, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "user logged in",
		Fields:  map[string]any{"user_id": user.ID, "role": user.Role},
	})
	writeData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	token, _, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, loginResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, ClaimsFrom(r.Context()))
}

func (h *AuthHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, roles)
}
