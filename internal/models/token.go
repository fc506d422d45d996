package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one outstanding session-renewal credential.
// Only the sha256 of the raw token is ever stored.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager on register, login and refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
