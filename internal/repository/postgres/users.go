package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, email, handle, password_hash, name, timezone)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email, handle, password_hash, name, avatar_url, timezone, created_at
`

func (r *UserRepo) Create(ctx context.Context, params repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), params.Email, params.Handle, params.HashedPassword, params.Name, params.Timezone)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return user, fmt.Errorf("repo error: %w", apperrors.ErrEmailTaken)
			case "users_handle_key":
				return user, fmt.Errorf("repo error: %w", apperrors.ErrHandleTaken)
			}
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, email, handle, password_hash, name, avatar_url, timezone, created_at
FROM users
WHERE id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, email, handle, password_hash, name, avatar_url, timezone, created_at
FROM users
WHERE email = $1
`

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getUserByEmailOrHandle = `-- name: GetUserByEmailOrHandle
SELECT id, email, handle, password_hash, name, avatar_url, timezone, created_at
FROM users
WHERE email = $1 OR handle = $2
LIMIT 1
`

func (r *UserRepo) GetByEmailOrHandle(ctx context.Context, email string, handle string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmailOrHandle, email, handle)
	return collectUser(rows)
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Handle, &u.HashedPassword, &u.Name, &u.AvatarURL, &u.Timezone, &u.CreatedAt)
	return u, err
}
