package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/middleware"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         logger.New("auth-handler"),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.log.Debug("registration rejected: %v", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":  resp.User,
		"token": resp.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  resp.User,
		"token": resp.Token,
	})
}

// Profile runs behind RequireAuth; the identity always comes from the request
// context, never from request parameters.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.FromContext(r.Context())
	if !ok {
		respondError(w, apperrors.NoToken())
		return
	}

	user, err := h.authService.Profile(r.Context(), authCtx.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Profile retrieved successfully", map[string]interface{}{
		"user": user,
	})
}
