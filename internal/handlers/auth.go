package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/handlers/authctx"
	"github.com/think3er/ippo-backend/internal/handlers/render"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/auth"
)

// Auth service as the handler needs it
type AuthService interface {
	Register(ctx context.Context, params auth.RegisterParams) (models.User, models.TokenPair, error)
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type AuthHandler struct {
	auth   AuthService
	logger logger.Logger
}

func NewAuth(auth AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Compact user projection returned with token pairs
type publicUser struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Handle string    `json:"handle"`
}

type tokenPairResponse struct {
	User         publicUser `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Name     string `json:"name" validate:"required,min=1,max=100"`
		Handle   string `json:"handle" validate:"required,min=3,max=30,handle"`
		Timezone string `json:"timezone" validate:"omitempty"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.Register(r.Context(), auth.RegisterParams{
		Email:    data.Email,
		Password: data.Password,
		Name:     data.Name,
		Handle:   data.Handle,
		Timezone: data.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.Error(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, apperrors.ErrHandleTaken):
			render.Error(w, "Handle already taken", http.StatusConflict)
		default:
			h.logger.Error("register failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSONStatus(w, tokenPairResponse{
		User:         publicUser{ID: user.ID, Email: user.Email, Name: user.Name, Handle: user.Handle},
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.Error(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			h.logger.Error("login failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, tokenPairResponse{
		User:         publicUser{ID: user.ID, Email: user.Email, Name: user.Name, Handle: user.Handle},
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	type RefreshResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			render.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		default:
			h.logger.Error("refresh failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, RefreshResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutResponse struct {
		Message string `json:"message"`
	}

	caller, ok := authctx.AuthFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	if err := h.auth.Logout(r.Context(), caller.UserID); err != nil {
		h.logger.Error("logout failed", "error", err.Error())
		render.Internal(w)
		return
	}

	render.JSON(w, LogoutResponse{Message: "Logged out"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	type MeUser struct {
		ID        uuid.UUID `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Handle    string    `json:"handle"`
		AvatarURL *string   `json:"avatarUrl"`
		Timezone  string    `json:"timezone"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type MeResponse struct {
		User MeUser `json:"user"`
	}

	caller, ok := authctx.AuthFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	user, err := h.auth.Me(r.Context(), caller.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, "User not found", http.StatusNotFound)
		default:
			h.logger.Error("me failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, MeResponse{User: MeUser{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Handle:    user.Handle,
		AvatarURL: user.AvatarURL,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt,
	}})
}
