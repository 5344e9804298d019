package httpapi

import (
	"encoding/json"
	"net/http"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/services"
)

type authResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

type AuthHandler struct {
	authService services.IAuthService
}

func NewAuthHandler(authService services.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.ErrValidation)
		return
	}

	token, identity, err := h.authService.Register(req.Username, req.DisplayName, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: string(token), User: identity})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.ErrValidation)
		return
	}

	token, identity, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: string(token), User: identity})
}

// Me returns the caller's own identity, resolved from the verified token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, errors.ErrInvalidToken)
		return
	}
	respondJSON(w, http.StatusOK, identity)
}
