package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/handlers/render"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/service/auth"
)

type AuthHandler struct {
	auth   *auth.Service
	logger logger.Logger
}

func NewAuth(service *auth.Service, l logger.Logger) *AuthHandler {
	return &AuthHandler{auth: service, logger: l}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/sign-up", h.signUp)
	mux.HandleFunc("POST /api/v1/auth/sign-in", h.signIn)
	mux.HandleFunc("POST /api/v1/auth/sign-out", h.signOut)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.refresh)
	mux.HandleFunc("POST /api/v1/auth/revoke", h.revoke)

	return mux
}

// UserResponse is the outward shape of a user, the password hash never leaves
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	type SignUpRequest struct {
		Name     string `json:"name" validate:"required,min=3,max=255"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type SignUpResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}

	data, err := render.BindAndValidate[SignUpRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.SignUp(r.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMissingCredentials):
			render.ServiceError(w, "Name, email and password are required", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			h.logger.Error("sign up failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.auth.SetRefreshCookie(w, pair.Refresh)
	render.JSONStatus(w, SignUpResponse{User: toUserResponse(user), Token: pair.Access.Value}, http.StatusCreated)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	type SignInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type SignInResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}

	data, err := render.BindAndValidate[SignInRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.SignIn(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			h.logger.Error("sign in failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.auth.SetRefreshCookie(w, pair.Refresh)
	render.JSON(w, SignInResponse{User: toUserResponse(user), Token: pair.Access.Value})
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	refresh, err := h.auth.RefreshFromRequest(r)
	if err != nil {
		render.ServiceError(w, "No refresh token provided", http.StatusBadRequest)
		return
	}

	if err := h.auth.SignOut(r.Context(), refresh); err != nil {
		h.renderTokenError(w, err)
		return
	}

	h.auth.ClearRefreshCookie(w)
	render.NoContent(w)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshResponse struct {
		Token string `json:"token"`
	}

	refresh, err := h.auth.RefreshFromRequest(r)
	if err != nil {
		render.ServiceError(w, "No refresh token provided", http.StatusBadRequest)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), refresh)
	if err != nil {
		h.renderTokenError(w, err)
		return
	}

	// Same cookie value again: the refresh token is not rotated
	h.auth.SetRefreshCookie(w, pair.Refresh)
	render.JSON(w, RefreshResponse{Token: pair.Access.Value})
}

func (h *AuthHandler) revoke(w http.ResponseWriter, r *http.Request) {
	refresh, err := h.auth.RefreshFromRequest(r)
	if err != nil {
		render.ServiceError(w, "No refresh token provided", http.StatusBadRequest)
		return
	}

	if err := h.auth.Revoke(r.Context(), refresh); err != nil {
		h.renderTokenError(w, err)
		return
	}

	render.NoContent(w)
}

// renderTokenError maps refresh token lifecycle failures to statuses
func (h *AuthHandler) renderTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		render.ServiceError(w, "Refresh token not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrRefreshTokenRevoked):
		render.ServiceError(w, "Refresh token already revoked", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrRefreshTokenExpired):
		render.ServiceError(w, "Refresh token expired", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.ServiceError(w, "User not found", http.StatusNotFound)
	default:
		h.logger.Error("token operation failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
