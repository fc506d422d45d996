package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	VisibilityScoreOnly = "score_only"
	VisibilityDetailed  = "detailed"
	VisibilityCustom    = "custom"
)

type Circle struct {
	ID             uuid.UUID
	Name           string
	Description    *string
	OwnerID        uuid.UUID
	InviteCode     string
	VisibilityMode string
	CreatedAt      time.Time
}

type CircleMember struct {
	ID       uuid.UUID
	CircleID uuid.UUID
	UserID   uuid.UUID
	Role     string
	JoinedAt time.Time
}

// Member row joined with its user projection
type MemberWithUser struct {
	CircleMember
	User UserRef
}

// Circle as seen in the caller's own circle list
type UserCircle struct {
	Circle
	MemberCount int
	MyRole      string
}
