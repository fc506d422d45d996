package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

type CheckInRepo struct {
	DB DBTX
}

const upsertCheckIn = `-- name: UpsertCheckIn
WITH saved AS (
    INSERT INTO daily_checkins (id, user_id, circle_id, date, deen, body, mind, mission, brotherhood, score, note_private)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    ON CONFLICT (user_id, circle_id, date) DO UPDATE
    SET deen = EXCLUDED.deen,
        body = EXCLUDED.body,
        mind = EXCLUDED.mind,
        mission = EXCLUDED.mission,
        brotherhood = EXCLUDED.brotherhood,
        score = EXCLUDED.score,
        note_private = EXCLUDED.note_private
    RETURNING id, user_id, circle_id, date, deen, body, mind, mission, brotherhood, score, note_private, created_at
)
SELECT s.id, s.user_id, s.circle_id, s.date, s.deen, s.body, s.mind, s.mission, s.brotherhood,
       s.score, s.note_private, s.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM saved s
JOIN users u ON u.id = s.user_id
`

func (r *CheckInRepo) Upsert(ctx context.Context, params repository.UpsertCheckInParams) (models.CheckIn, error) {
	p := params.Pillars
	rows, _ := r.DB.Query(ctx, upsertCheckIn,
		uuid.New(), params.UserID, params.CircleID, params.Date,
		p.Deen, p.Body, p.Mind, p.Mission, p.Brotherhood, params.Score, params.NotePrivate)
	checkIn, err := pgx.CollectOneRow(rows, rowToCheckInWithUser)
	if err != nil {
		return checkIn, fmt.Errorf("db error: %w", err)
	}
	return checkIn, nil
}

const listCheckInsForDate = `-- name: ListCheckInsForDate
SELECT ci.id, ci.user_id, ci.circle_id, ci.date, ci.deen, ci.body, ci.mind, ci.mission, ci.brotherhood,
       ci.score, ci.note_private, ci.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM daily_checkins ci
JOIN users u ON u.id = ci.user_id
WHERE ci.circle_id = $1 AND ci.date = $2
ORDER BY u.name
`

func (r *CheckInRepo) ListForDate(ctx context.Context, circleID uuid.UUID, date time.Time) ([]models.CheckIn, error) {
	rows, _ := r.DB.Query(ctx, listCheckInsForDate, circleID, date)
	return collectCheckInsWithUser(rows)
}

const listCheckInsRange = `-- name: ListCheckInsRange
SELECT ci.id, ci.user_id, ci.circle_id, ci.date, ci.deen, ci.body, ci.mind, ci.mission, ci.brotherhood,
       ci.score, ci.note_private, ci.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM daily_checkins ci
JOIN users u ON u.id = ci.user_id
WHERE ci.circle_id = $1 AND ci.date BETWEEN $2 AND $3
ORDER BY ci.date, u.name
`

func (r *CheckInRepo) ListRange(ctx context.Context, circleID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error) {
	rows, _ := r.DB.Query(ctx, listCheckInsRange, circleID, start, end)
	return collectCheckInsWithUser(rows)
}

const listUserCheckInsRange = `-- name: ListUserCheckInsRange
SELECT ci.id, ci.user_id, ci.circle_id, ci.date, ci.deen, ci.body, ci.mind, ci.mission, ci.brotherhood,
       ci.score, ci.note_private, ci.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM daily_checkins ci
JOIN users u ON u.id = ci.user_id
WHERE ci.circle_id = $1 AND ci.user_id = $2 AND ci.date BETWEEN $3 AND $4
ORDER BY ci.date
`

func (r *CheckInRepo) ListUserRange(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error) {
	rows, _ := r.DB.Query(ctx, listUserCheckInsRange, circleID, userID, start, end)
	return collectCheckInsWithUser(rows)
}

func collectCheckInsWithUser(rows pgx.Rows) ([]models.CheckIn, error) {
	checkIns, err := pgx.CollectRows(rows, rowToCheckInWithUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return checkIns, nil
}

func rowToCheckInWithUser(row pgx.CollectableRow) (models.CheckIn, error) {
	var ci models.CheckIn
	err := row.Scan(
		&ci.ID, &ci.UserID, &ci.CircleID, &ci.Date,
		&ci.Pillars.Deen, &ci.Pillars.Body, &ci.Pillars.Mind, &ci.Pillars.Mission, &ci.Pillars.Brotherhood,
		&ci.Score, &ci.NotePrivate, &ci.CreatedAt,
		&ci.User.ID, &ci.User.Name, &ci.User.Handle, &ci.User.AvatarURL,
	)
	return ci, err
}
