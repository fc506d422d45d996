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
	"github.com/think3er/ippo-backend/internal/repository"
)

type ClipRepo struct {
	DB DBTX
}

const createClip = `-- name: CreateClip
WITH inserted AS (
    INSERT INTO circle_clips (id, circle_id, posted_by, video_url, title, caption)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, circle_id, posted_by, video_url, title, caption, is_active, created_at
)
SELECT i.id, i.circle_id, i.posted_by, i.video_url, i.title, i.caption, i.is_active, i.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM inserted i
JOIN users u ON u.id = i.posted_by
`

func (r *ClipRepo) Create(ctx context.Context, clip models.Clip) (models.Clip, error) {
	rows, _ := r.DB.Query(ctx, createClip,
		clip.ID, clip.CircleID, clip.PostedBy, clip.VideoURL, clip.Title, clip.Caption)
	created, err := pgx.CollectOneRow(rows, rowToClipWithPoster)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getActiveClip = `-- name: GetActiveClip
SELECT cl.id, cl.circle_id, cl.posted_by, cl.video_url, cl.title, cl.caption, cl.is_active, cl.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM circle_clips cl
JOIN users u ON u.id = cl.posted_by
WHERE cl.circle_id = $1 AND cl.is_active
ORDER BY cl.created_at DESC
LIMIT 1
`

func (r *ClipRepo) GetActive(ctx context.Context, circleID uuid.UUID) (*models.Clip, error) {
	rows, _ := r.DB.Query(ctx, getActiveClip, circleID)
	clip, err := pgx.CollectOneRow(rows, rowToClipWithPoster)

	switch {
	case err == nil:
		return &clip, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	default:
		return nil, fmt.Errorf("db error: %w", err)
	}
}

const deactivateClips = `-- name: DeactivateClips
UPDATE circle_clips
SET is_active = FALSE
WHERE circle_id = $1 AND is_active
`

func (r *ClipRepo) DeactivateActive(ctx context.Context, circleID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, deactivateClips, circleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const listClips = `-- name: ListClips
SELECT cl.id, cl.circle_id, cl.posted_by, cl.video_url, cl.title, cl.caption, cl.is_active, cl.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM circle_clips cl
JOIN users u ON u.id = cl.posted_by
WHERE cl.circle_id = $1
ORDER BY cl.created_at DESC
LIMIT $2
`

func (r *ClipRepo) List(ctx context.Context, circleID uuid.UUID, limit int) ([]models.Clip, error) {
	rows, _ := r.DB.Query(ctx, listClips, circleID, limit)
	clips, err := pgx.CollectRows(rows, rowToClipWithPoster)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return clips, nil
}

const getRotation = `-- name: GetRotation
SELECT circle_id, current_user_id, rotation_order, interval_days, last_rotated_at
FROM clip_rotations
WHERE circle_id = $1
`

func (r *ClipRepo) GetRotation(ctx context.Context, circleID uuid.UUID) (models.ClipRotation, error) {
	rows, _ := r.DB.Query(ctx, getRotation, circleID)
	rotation, err := pgx.CollectOneRow(rows, rowToRotation)

	switch {
	case err == nil:
		return rotation, nil
	case errors.Is(err, pgx.ErrNoRows):
		return rotation, fmt.Errorf("repo error: %w", apperrors.ErrRotationNotFound)
	default:
		return rotation, fmt.Errorf("db error: %w", err)
	}
}

const upsertRotation = `-- name: UpsertRotation
INSERT INTO clip_rotations (circle_id, current_user_id, rotation_order, interval_days)
VALUES ($1, $2, $3, COALESCE($4, 3))
ON CONFLICT (circle_id) DO UPDATE
SET rotation_order = EXCLUDED.rotation_order,
    interval_days  = COALESCE($4, clip_rotations.interval_days)
RETURNING circle_id, current_user_id, rotation_order, interval_days, last_rotated_at
`

func (r *ClipRepo) UpsertRotation(ctx context.Context, params repository.UpsertRotationParams) (models.ClipRotation, error) {
	rows, _ := r.DB.Query(ctx, upsertRotation,
		params.CircleID, params.CurrentUserID, params.RotationOrder, params.IntervalDays)
	rotation, err := pgx.CollectOneRow(rows, rowToRotation)
	if err != nil {
		return rotation, fmt.Errorf("db error: %w", err)
	}
	return rotation, nil
}

const setRotationCurrent = `-- name: SetRotationCurrent
UPDATE clip_rotations
SET current_user_id = $2,
    last_rotated_at = $3
WHERE circle_id = $1
`

func (r *ClipRepo) SetRotationCurrent(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, rotatedAt time.Time) error {
	tag, err := r.DB.Exec(ctx, setRotationCurrent, circleID, userID, rotatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrRotationNotFound)
	}
	return nil
}

func rowToClipWithPoster(row pgx.CollectableRow) (models.Clip, error) {
	var c models.Clip
	err := row.Scan(
		&c.ID, &c.CircleID, &c.PostedBy, &c.VideoURL, &c.Title, &c.Caption, &c.IsActive, &c.CreatedAt,
		&c.Poster.ID, &c.Poster.Name, &c.Poster.Handle, &c.Poster.AvatarURL,
	)
	return c, err
}

func rowToRotation(row pgx.CollectableRow) (models.ClipRotation, error) {
	var rot models.ClipRotation
	err := row.Scan(&rot.CircleID, &rot.CurrentUserID, &rot.RotationOrder, &rot.IntervalDays, &rot.LastRotatedAt)
	return rot, err
}
