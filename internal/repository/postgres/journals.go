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

type JournalRepo struct {
	DB DBTX
}

const createJournal = `-- name: CreateJournal
WITH inserted AS (
    INSERT INTO pillar_journals (id, user_id, circle_id, pillar, title, content)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, user_id, circle_id, pillar, title, content, created_at
)
SELECT i.id, i.user_id, i.circle_id, i.pillar, i.title, i.content, i.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM inserted i
JOIN users u ON u.id = i.user_id
`

func (r *JournalRepo) Create(ctx context.Context, journal models.Journal) (models.Journal, error) {
	rows, _ := r.DB.Query(ctx, createJournal,
		journal.ID, journal.UserID, journal.CircleID, journal.Pillar, journal.Title, journal.Content)
	created, err := pgx.CollectOneRow(rows, rowToJournalNoCount)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getJournalByID = `-- name: GetJournalByID
SELECT j.id, j.user_id, j.circle_id, j.pillar, j.title, j.content, j.created_at,
       u.id, u.name, u.handle, u.avatar_url,
       (SELECT count(*) FROM journal_comments c WHERE c.journal_id = j.id) AS comment_count
FROM pillar_journals j
JOIN users u ON u.id = j.user_id
WHERE j.id = $1
`

func (r *JournalRepo) GetByID(ctx context.Context, journalID uuid.UUID) (models.Journal, error) {
	rows, _ := r.DB.Query(ctx, getJournalByID, journalID)
	journal, err := pgx.CollectOneRow(rows, rowToJournal)

	switch {
	case err == nil:
		return journal, nil
	case errors.Is(err, pgx.ErrNoRows):
		return journal, fmt.Errorf("repo error: %w", apperrors.ErrJournalNotFound)
	default:
		return journal, fmt.Errorf("db error: %w", err)
	}
}

const listJournals = `-- name: ListJournals
SELECT j.id, j.user_id, j.circle_id, j.pillar, j.title, j.content, j.created_at,
       u.id, u.name, u.handle, u.avatar_url,
       (SELECT count(*) FROM journal_comments c WHERE c.journal_id = j.id) AS comment_count
FROM pillar_journals j
JOIN users u ON u.id = j.user_id
WHERE j.circle_id = $1 AND ($2::text IS NULL OR j.pillar = $2)
ORDER BY j.created_at DESC
LIMIT $3 OFFSET $4
`

const countJournals = `-- name: CountJournals
SELECT count(*)
FROM pillar_journals
WHERE circle_id = $1 AND ($2::text IS NULL OR pillar = $2)
`

func (r *JournalRepo) List(ctx context.Context, params repository.ListJournalsParams) ([]models.Journal, int, error) {
	rows, _ := r.DB.Query(ctx, listJournals, params.CircleID, params.Pillar, params.Limit, params.Offset)
	journals, err := pgx.CollectRows(rows, rowToJournal)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	rows, _ = r.DB.Query(ctx, countJournals, params.CircleID, params.Pillar)
	total, err := pgx.CollectOneRow(rows, pgx.RowTo[int])
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return journals, total, nil
}

const listUserJournals = `-- name: ListUserJournals
SELECT j.id, j.user_id, j.circle_id, j.pillar, j.title, j.content, j.created_at,
       u.id, u.name, u.handle, u.avatar_url,
       (SELECT count(*) FROM journal_comments c WHERE c.journal_id = j.id) AS comment_count
FROM pillar_journals j
JOIN users u ON u.id = j.user_id
WHERE j.circle_id = $1 AND j.user_id = $2
  AND ($3::text IS NULL OR j.pillar = $3)
  AND ($4::date IS NULL OR j.created_at >= $4::date AND j.created_at < $4::date + 1)
ORDER BY j.created_at DESC
`

func (r *JournalRepo) ListForUser(ctx context.Context, params repository.ListUserJournalsParams) ([]models.Journal, error) {
	rows, _ := r.DB.Query(ctx, listUserJournals, params.CircleID, params.UserID, params.Pillar, params.Date)
	journals, err := pgx.CollectRows(rows, rowToJournal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return journals, nil
}

const deleteJournal = `-- name: DeleteJournal
DELETE FROM pillar_journals
WHERE id = $1
`

func (r *JournalRepo) Delete(ctx context.Context, journalID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteJournal, journalID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrJournalNotFound)
	}
	return nil
}

const createComment = `-- name: CreateComment
WITH inserted AS (
    INSERT INTO journal_comments (id, journal_id, user_id, content)
    VALUES ($1, $2, $3, $4)
    RETURNING id, journal_id, user_id, content, created_at
)
SELECT i.id, i.journal_id, i.user_id, i.content, i.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM inserted i
JOIN users u ON u.id = i.user_id
`

func (r *JournalRepo) CreateComment(ctx context.Context, comment models.JournalComment) (models.JournalComment, error) {
	rows, _ := r.DB.Query(ctx, createComment, comment.ID, comment.JournalID, comment.UserID, comment.Content)
	created, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listComments = `-- name: ListComments
SELECT c.id, c.journal_id, c.user_id, c.content, c.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM journal_comments c
JOIN users u ON u.id = c.user_id
WHERE c.journal_id = $1
ORDER BY c.created_at
`

func (r *JournalRepo) ListComments(ctx context.Context, journalID uuid.UUID) ([]models.JournalComment, error) {
	rows, _ := r.DB.Query(ctx, listComments, journalID)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

const getComment = `-- name: GetComment
SELECT c.id, c.journal_id, c.user_id, c.content, c.created_at,
       u.id, u.name, u.handle, u.avatar_url
FROM journal_comments c
JOIN users u ON u.id = c.user_id
WHERE c.id = $1
`

func (r *JournalRepo) GetComment(ctx context.Context, commentID uuid.UUID) (models.JournalComment, error) {
	rows, _ := r.DB.Query(ctx, getComment, commentID)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

const deleteComment = `-- name: DeleteComment
DELETE FROM journal_comments
WHERE id = $1
`

func (r *JournalRepo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteComment, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	}
	return nil
}

func rowToComment(row pgx.CollectableRow) (models.JournalComment, error) {
	var c models.JournalComment
	err := row.Scan(
		&c.ID, &c.JournalID, &c.UserID, &c.Content, &c.CreatedAt,
		&c.User.ID, &c.User.Name, &c.User.Handle, &c.User.AvatarURL,
	)
	return c, err
}

func rowToJournal(row pgx.CollectableRow) (models.Journal, error) {
	var j models.Journal
	err := row.Scan(
		&j.ID, &j.UserID, &j.CircleID, &j.Pillar, &j.Title, &j.Content, &j.CreatedAt,
		&j.User.ID, &j.User.Name, &j.User.Handle, &j.User.AvatarURL,
		&j.CommentCount,
	)
	return j, err
}

func rowToJournalNoCount(row pgx.CollectableRow) (models.Journal, error) {
	var j models.Journal
	err := row.Scan(
		&j.ID, &j.UserID, &j.CircleID, &j.Pillar, &j.Title, &j.Content, &j.CreatedAt,
		&j.User.ID, &j.User.Name, &j.User.Handle, &j.User.AvatarURL,
	)
	return j, err
}
