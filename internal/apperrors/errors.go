package apperrors

import (
	"errors"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrHandleTaken  = errors.New("handle already taken")
	ErrUserNotFound = errors.New("user not found")

	// Single error for both "no such user" and "wrong password".
	// Callers must not be able to tell which one happened.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrCircleNotFound = errors.New("circle not found")
	ErrAlreadyMember  = errors.New("already a member of this circle")
	ErrNotMember      = errors.New("not a member of this circle")
	ErrMemberNotFound = errors.New("member not found")

	ErrRotationNotFound = errors.New("clip rotation not found")

	ErrJournalNotFound = errors.New("journal not found")
	ErrCommentNotFound = errors.New("comment not found")
)
