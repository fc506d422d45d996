package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, token_hash, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) error {
	rows, _ := r.DB.Query(ctx, saveToken, token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const consumeToken = `-- name: ConsumeRefreshToken
DELETE FROM refresh_tokens
WHERE token_hash = $1
RETURNING id, user_id, token_hash, created_at, expires_at
`

// Consume deletes the record in the same statement that reads it.
// Concurrent calls with the same hash race on the row delete, so at most one wins
func (r *RefreshTokenRepo) Consume(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, consumeToken, tokenHash)
	token, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.RefreshToken, error) {
		var t models.RefreshToken
		err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt)
		return t, err
	})

	switch {
	case err == nil && token.ExpiresAt.Before(time.Now()):
		// Expired rows are unusable. The delete already cleaned it up
		return models.RefreshToken{}, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeUserTokens = `-- name: RevokeUserTokens
DELETE FROM refresh_tokens
WHERE user_id = $1
`

func (r *RefreshTokenRepo) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, revokeUserTokens, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
