package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

type CircleRepo struct {
	DB DBTX
}

const createCircle = `-- name: CreateCircle
INSERT INTO circles (id, name, description, owner_id, invite_code, visibility_mode)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, description, owner_id, invite_code, visibility_mode, created_at
`

func (r *CircleRepo) Create(ctx context.Context, circle models.Circle) (models.Circle, error) {
	rows, _ := r.DB.Query(ctx, createCircle,
		circle.ID, circle.Name, circle.Description, circle.OwnerID, circle.InviteCode, circle.VisibilityMode)
	created, err := pgx.CollectOneRow(rows, rowToCircle)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getCircleByID = `-- name: GetCircleByID
SELECT id, name, description, owner_id, invite_code, visibility_mode, created_at
FROM circles
WHERE id = $1
`

func (r *CircleRepo) GetByID(ctx context.Context, circleID uuid.UUID) (models.Circle, error) {
	rows, _ := r.DB.Query(ctx, getCircleByID, circleID)
	return collectCircle(rows)
}

const getCircleByInviteCode = `-- name: GetCircleByInviteCode
SELECT id, name, description, owner_id, invite_code, visibility_mode, created_at
FROM circles
WHERE invite_code = $1
`

func (r *CircleRepo) GetByInviteCode(ctx context.Context, inviteCode string) (models.Circle, error) {
	rows, _ := r.DB.Query(ctx, getCircleByInviteCode, inviteCode)
	return collectCircle(rows)
}

const updateCircle = `-- name: UpdateCircle
UPDATE circles
SET name            = COALESCE($2, name),
    description     = COALESCE($3, description),
    visibility_mode = COALESCE($4, visibility_mode)
WHERE id = $1
RETURNING id, name, description, owner_id, invite_code, visibility_mode, created_at
`

func (r *CircleRepo) Update(ctx context.Context, circleID uuid.UUID, params repository.UpdateCircleParams) (models.Circle, error) {
	rows, _ := r.DB.Query(ctx, updateCircle, circleID, params.Name, params.Description, params.VisibilityMode)
	return collectCircle(rows)
}

const deleteCircle = `-- name: DeleteCircle
DELETE FROM circles
WHERE id = $1
`

func (r *CircleRepo) Delete(ctx context.Context, circleID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteCircle, circleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCircleNotFound)
	}
	return nil
}

func collectCircle(rows pgx.Rows) (models.Circle, error) {
	circle, err := pgx.CollectOneRow(rows, rowToCircle)

	switch {
	case err == nil:
		return circle, nil
	case errors.Is(err, pgx.ErrNoRows):
		return circle, fmt.Errorf("repo error: %w", apperrors.ErrCircleNotFound)
	default:
		return circle, fmt.Errorf("db error: %w", err)
	}
}

func rowToCircle(row pgx.CollectableRow) (models.Circle, error) {
	var c models.Circle
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.InviteCode, &c.VisibilityMode, &c.CreatedAt)
	return c, err
}
