package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Email          string
	Handle         string
	Name           string
	HashedPassword string
	AvatarURL      *string
	Timezone       string
	CreatedAt      time.Time
}

// UserRef is the short user projection embedded in circle feeds
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	AvatarURL *string   `json:"avatarUrl"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Handle: u.Handle, AvatarURL: u.AvatarURL}
}
