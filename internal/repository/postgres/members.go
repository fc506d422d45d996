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
)

type MemberRepo struct {
	DB DBTX
}

const createMember = `-- name: CreateMember
INSERT INTO circle_members (id, circle_id, user_id, role)
VALUES ($1, $2, $3, $4)
RETURNING id, circle_id, user_id, role, joined_at
`

func (r *MemberRepo) Create(ctx context.Context, member models.CircleMember) (models.CircleMember, error) {
	rows, _ := r.DB.Query(ctx, createMember, member.ID, member.CircleID, member.UserID, member.Role)
	created, err := pgx.CollectOneRow(rows, rowToMember)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) &&
			pgErr.ConstraintName == "circle_members_circle_user_key" {
			return created, fmt.Errorf("repo error: %w", apperrors.ErrAlreadyMember)
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getMember = `-- name: GetMember
SELECT id, circle_id, user_id, role, joined_at
FROM circle_members
WHERE circle_id = $1 AND user_id = $2
`

func (r *MemberRepo) Get(ctx context.Context, circleID uuid.UUID, userID uuid.UUID) (models.CircleMember, error) {
	rows, _ := r.DB.Query(ctx, getMember, circleID, userID)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, fmt.Errorf("repo error: %w", apperrors.ErrNotMember)
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

const getMemberByID = `-- name: GetMemberByID
SELECT id, circle_id, user_id, role, joined_at
FROM circle_members
WHERE id = $1
`

func (r *MemberRepo) GetByID(ctx context.Context, memberID uuid.UUID) (models.CircleMember, error) {
	rows, _ := r.DB.Query(ctx, getMemberByID, memberID)
	return collectMember(rows)
}

const listUserCircles = `-- name: ListUserCircles
SELECT c.id, c.name, c.description, c.owner_id, c.invite_code, c.visibility_mode, c.created_at,
       (SELECT count(*) FROM circle_members cnt WHERE cnt.circle_id = c.id) AS member_count,
       m.role
FROM circle_members m
JOIN circles c ON c.id = m.circle_id
WHERE m.user_id = $1
ORDER BY m.joined_at
`

func (r *MemberRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.UserCircle, error) {
	rows, _ := r.DB.Query(ctx, listUserCircles, userID)
	circles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserCircle, error) {
		var uc models.UserCircle
		err := row.Scan(
			&uc.ID, &uc.Name, &uc.Description, &uc.OwnerID, &uc.InviteCode, &uc.VisibilityMode, &uc.CreatedAt,
			&uc.MemberCount, &uc.MyRole,
		)
		return uc, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return circles, nil
}

const listCircleMembers = `-- name: ListCircleMembers
SELECT m.id, m.circle_id, m.user_id, m.role, m.joined_at,
       u.id, u.name, u.handle, u.avatar_url
FROM circle_members m
JOIN users u ON u.id = m.user_id
WHERE m.circle_id = $1
ORDER BY m.joined_at
`

func (r *MemberRepo) ListForCircle(ctx context.Context, circleID uuid.UUID) ([]models.MemberWithUser, error) {
	rows, _ := r.DB.Query(ctx, listCircleMembers, circleID)
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MemberWithUser, error) {
		var m models.MemberWithUser
		err := row.Scan(
			&m.ID, &m.CircleID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Name, &m.User.Handle, &m.User.AvatarURL,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return members, nil
}

const updateMemberRole = `-- name: UpdateMemberRole
UPDATE circle_members
SET role = $2
WHERE id = $1
RETURNING id, circle_id, user_id, role, joined_at
`

func (r *MemberRepo) UpdateRole(ctx context.Context, memberID uuid.UUID, role string) (models.CircleMember, error) {
	rows, _ := r.DB.Query(ctx, updateMemberRole, memberID, role)
	return collectMember(rows)
}

const deleteMember = `-- name: DeleteMember
DELETE FROM circle_members
WHERE id = $1
`

func (r *MemberRepo) Delete(ctx context.Context, memberID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteMember, memberID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrMemberNotFound)
	}
	return nil
}

func collectMember(rows pgx.Rows) (models.CircleMember, error) {
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, fmt.Errorf("repo error: %w", apperrors.ErrMemberNotFound)
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

func rowToMember(row pgx.CollectableRow) (models.CircleMember, error) {
	var m models.CircleMember
	err := row.Scan(&m.ID, &m.CircleID, &m.UserID, &m.Role, &m.JoinedAt)
	return m, err
}
