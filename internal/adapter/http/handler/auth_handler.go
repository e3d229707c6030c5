package handler

import (
	"encoding/json"
	"net/http"

	"github.com/druiz/poscaja/internal/adapter/http/dto"
	"github.com/druiz/poscaja/internal/adapter/http/middleware"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/auth"
	"github.com/druiz/poscaja/internal/infrastructure/metrics"
	"github.com/druiz/poscaja/internal/usecase"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userUC     *usecase.UserUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new auth handler. m may be nil.
func NewAuthHandler(userUC *usecase.UserUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo represents user information
type UserInfo struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// Login authenticates a user and issues a JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login request", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthFailures.Inc()
		}

		writeError(w, http.StatusUnauthorized, "invalid credentials", "")

		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondError(w, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), actor.ID)
	if err != nil {
		respondError(w, "failed to load user", err)
		return
	}

	writeJSON(w, http.StatusOK, UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}
