package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PillarDeen        = "deen"
	PillarBody        = "body"
	PillarMind        = "mind"
	PillarMission     = "mission"
	PillarBrotherhood = "brotherhood"
)

type Journal struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CircleID     uuid.UUID
	Pillar       string
	Title        *string
	Content      string
	CreatedAt    time.Time
	CommentCount int

	User UserRef
}

type JournalComment struct {
	ID        uuid.UUID
	JournalID uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time

	User UserRef
}
