package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/handlers/render"
	"github.com/ahm4dd/subhub/internal/handlers/userctx"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/repository"
	"github.com/ahm4dd/subhub/internal/service/auth"
)

// UserHandler serves the user resource.
// Listing and creating users live in the admin trust domain; fetching a
// single user is allowed to the owner only.
type UserHandler struct {
	users  repository.UserRepo
	hasher auth.PasswordHasher
	guard  *auth.Guard
	logger logger.Logger
}

func NewUser(users repository.UserRepo, hasher auth.PasswordHasher, guard *auth.Guard, l logger.Logger) *UserHandler {
	return &UserHandler{users: users, hasher: hasher, guard: guard, logger: l}
}

// OwnerHandler serves the routes gated by the regular user scope
func (h *UserHandler) OwnerHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{id}", h.getUser)

	return mux
}

// AdminHandler serves the routes gated by the admin scope
func (h *UserHandler) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/admin/users", h.listUsers)
	mux.HandleFunc("POST /api/v1/admin/users", h.createUser)

	return mux
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	// Ownership check: the authenticated subject may only read itself
	subject, ok := userctx.Subject(r.Context())
	if !ok {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := h.guard.RequireOwner(subject, id); err != nil {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			h.logger.Error("get user failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toUserResponse(user))
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}

	render.JSON(w, response)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	type CreateUserRequest struct {
		Name     string `json:"name" validate:"required,min=3,max=255"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	data, err := render.BindAndValidate[CreateUserRequest](w, r)
	if err != nil {
		return
	}

	hash, err := h.hasher.Hash(data.Password)
	if err != nil {
		h.logger.Error("hash password failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), repository.CreateUserParams{
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			h.logger.Error("create user failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONStatus(w, toUserResponse(user), http.StatusCreated)
}
