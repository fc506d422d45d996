package models

import (
	"time"

	"github.com/google/uuid"
)

type Clip struct {
	ID        uuid.UUID
	CircleID  uuid.UUID
	PostedBy  uuid.UUID
	VideoURL  string
	Title     *string
	Caption   *string
	IsActive  bool
	CreatedAt time.Time

	Poster UserRef
}

// ClipRotation keeps the round-robin order of clip posters, one row per circle
type ClipRotation struct {
	CircleID      uuid.UUID
	CurrentUserID uuid.UUID
	RotationOrder []uuid.UUID
	IntervalDays  int
	LastRotatedAt time.Time
}
