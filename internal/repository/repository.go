package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/models"
)

type CreateUserParams struct {
	Email          string
	Handle         string
	Name           string
	HashedPassword string
	Timezone       string
}

// User repository interface
type UserRepo interface {
	// Create user
	// Unique violations map to apperrors.ErrEmailTaken or apperrors.ErrHandleTaken
	Create(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// Find any user whose email or handle matches
	// Used for conflict reporting before registration
	GetByEmailOrHandle(ctx context.Context, email string, handle string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save a hashed token record
	Save(ctx context.Context, token models.RefreshToken) error

	// Consume looks a record up by token hash and deletes it in the same
	// statement, so a raw token is usable exactly once even under
	// concurrent attempts. Expired records report apperrors.ErrRefreshTokenNotFound.
	Consume(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// Delete every record of the user. Idempotent
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type UpdateCircleParams struct {
	Name           *string
	Description    *string
	VisibilityMode *string
}

type CircleRepo interface {
	Create(ctx context.Context, circle models.Circle) (models.Circle, error)

	// Not found must return apperrors.ErrCircleNotFound
	GetByID(ctx context.Context, circleID uuid.UUID) (models.Circle, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (models.Circle, error)

	// Update only the fields that are set
	Update(ctx context.Context, circleID uuid.UUID, params UpdateCircleParams) (models.Circle, error)
	Delete(ctx context.Context, circleID uuid.UUID) error
}

type MemberRepo interface {
	// Duplicate (circle, user) pairs map to apperrors.ErrAlreadyMember
	Create(ctx context.Context, member models.CircleMember) (models.CircleMember, error)

	// Get membership of the user in the circle
	// If no row exists must return apperrors.ErrNotMember
	Get(ctx context.Context, circleID uuid.UUID, userID uuid.UUID) (models.CircleMember, error)

	// Get a membership row by its own id, apperrors.ErrMemberNotFound if absent
	GetByID(ctx context.Context, memberID uuid.UUID) (models.CircleMember, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.UserCircle, error)
	ListForCircle(ctx context.Context, circleID uuid.UUID) ([]models.MemberWithUser, error)

	UpdateRole(ctx context.Context, memberID uuid.UUID, role string) (models.CircleMember, error)
	Delete(ctx context.Context, memberID uuid.UUID) error
}

type UpsertCheckInParams struct {
	UserID      uuid.UUID
	CircleID    uuid.UUID
	Date        time.Time
	Pillars     models.Pillars
	Score       int
	NotePrivate *string
}

type CheckInRepo interface {
	// Insert or overwrite the (user, circle, date) check-in
	Upsert(ctx context.Context, params UpsertCheckInParams) (models.CheckIn, error)

	// Feeds ordered by date, then user name. User projection attached
	ListForDate(ctx context.Context, circleID uuid.UUID, date time.Time) ([]models.CheckIn, error)
	ListRange(ctx context.Context, circleID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error)
	ListUserRange(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error)
}

type UpsertRotationParams struct {
	CircleID      uuid.UUID
	CurrentUserID uuid.UUID
	RotationOrder []uuid.UUID
	IntervalDays  *int
}

type ClipRepo interface {
	Create(ctx context.Context, clip models.Clip) (models.Clip, error)

	// Latest active clip with poster projection, nil when the circle has none
	GetActive(ctx context.Context, circleID uuid.UUID) (*models.Clip, error)
	DeactivateActive(ctx context.Context, circleID uuid.UUID) error
	List(ctx context.Context, circleID uuid.UUID, limit int) ([]models.Clip, error)

	// Rotation row, apperrors.ErrRotationNotFound if the circle has none
	GetRotation(ctx context.Context, circleID uuid.UUID) (models.ClipRotation, error)

	// Insert the rotation or refresh order (and interval when provided) of an existing one.
	// The current user of an existing rotation is left untouched
	UpsertRotation(ctx context.Context, params UpsertRotationParams) (models.ClipRotation, error)

	// Hand the turn to the next user
	SetRotationCurrent(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, rotatedAt time.Time) error
}

type ListJournalsParams struct {
	CircleID uuid.UUID
	Pillar   *string
	Limit    int
	Offset   int
}

type ListUserJournalsParams struct {
	CircleID uuid.UUID
	UserID   uuid.UUID
	Pillar   *string
	// Filter journals created on that UTC day
	Date *time.Time
}

type JournalRepo interface {
	Create(ctx context.Context, journal models.Journal) (models.Journal, error)

	// Journal with user projection and comment count, apperrors.ErrJournalNotFound if absent
	GetByID(ctx context.Context, journalID uuid.UUID) (models.Journal, error)

	// Circle feed page (newest first) and the total row count for pagination
	List(ctx context.Context, params ListJournalsParams) ([]models.Journal, int, error)
	ListForUser(ctx context.Context, params ListUserJournalsParams) ([]models.Journal, error)
	Delete(ctx context.Context, journalID uuid.UUID) error

	CreateComment(ctx context.Context, comment models.JournalComment) (models.JournalComment, error)
	ListComments(ctx context.Context, journalID uuid.UUID) ([]models.JournalComment, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (models.JournalComment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

// Storage aggregates all repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	RefreshToken() RefreshTokenRepo
	Circle() CircleRepo
	Member() MemberRepo
	CheckIn() CheckInRepo
	Clip() ClipRepo
	Journal() JournalRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(s Storage) error) error
}
