package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/studiostorm/server/internal/middleware"
	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/services"
)

// AuthHandler handles login and session introspection
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login verifies credentials and issues a token
// @Summary Log in
// @Accept json
// @Produce json
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == models.ErrInvalidCredentials {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		observability.WithContext(r.Context()).Errorf("login: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated account
// @Summary Current user
// @Produce json
// @Success 200 {object} models.UserView
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	writeJSON(w, http.StatusOK, user.ToView())
}
