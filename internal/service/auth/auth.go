package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
	"github.com/think3er/ippo-backend/internal/service/auth/tokenmanager"
)

const defaultTimezone = "UTC"

type Config struct {
	// Hasher to use during registration or login
	// Bcrypt hasher is used when not set
	Hasher PasswordHasher
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Handle   string
	Timezone string
}

// Auth service
// A live refresh token record constitutes an active session, there is no
// separate session entity
type Service struct {
	token    *tokenmanager.TokenManager
	hasher   PasswordHasher
	userRepo repository.UserRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*Service, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	return &Service{
		token:    token,
		hasher:   hasher,
		userRepo: userRepo,
	}, nil
}

// Register creates the user and issues its first token pair.
// When the email or handle is taken it returns ErrEmailTaken or
// ErrHandleTaken, preferring the email wording if the matched row
// collides on both
func (s *Service) Register(ctx context.Context, params RegisterParams) (models.User, models.TokenPair, error) {
	if params.Timezone == "" {
		params.Timezone = defaultTimezone
	}

	existing, err := s.userRepo.GetByEmailOrHandle(ctx, params.Email, params.Handle)
	switch {
	case err == nil:
		if existing.Email == params.Email {
			return models.User{}, models.TokenPair{}, fmt.Errorf("register conflict: %w", apperrors.ErrEmailTaken)
		}
		return models.User{}, models.TokenPair{}, fmt.Errorf("register conflict: %w", apperrors.ErrHandleTaken)
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return models.User{}, models.TokenPair{}, fmt.Errorf("error while checking existing users. Err: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	// Creation still races with concurrent registrations, the unique
	// constraints have the last word
	user, err := s.userRepo.Create(ctx, repository.CreateUserParams{
		Email:          params.Email,
		Handle:         params.Handle,
		Name:           params.Name,
		HashedPassword: hash,
		Timezone:       params.Timezone,
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.token.IssuePair(ctx, user.ID, user.Email)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
// Unknown email and wrong password are indistinguishable on purpose
func (s *Service) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("login rejected: %w", apperrors.ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("login rejected: %w", apperrors.ErrInvalidCredentials)
	}

	pair, err := s.token.IssuePair(ctx, user.ID, user.Email)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Refresh rotates the token pair: the presented refresh token is consumed
// and can never be exchanged again
func (s *Service) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	claims, err := s.token.ConsumeRefresh(ctx, refresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair, err := s.token.IssuePair(ctx, claims.UserID, claims.Email)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return pair, nil
}

// Logout revokes every live refresh token of the user.
// Access tokens already issued stay valid until their own expiry
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.token.RevokeUser(ctx, userID)
}

// Me returns the user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ParseAccess validates a bearer token and returns its claims
func (s *Service) ParseAccess(access string) (tokenmanager.Claims, error) {
	return s.token.ParseAccess(access)
}
