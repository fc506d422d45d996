package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func mustParseDate(value string) time.Time {
	dt, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return dt
}

// mustCreateUser makes a user row with unique email and handle derived from name
func mustCreateUser(t *testing.T, db DBTX, name string) models.User {
	t.Helper()

	repo := UserRepo{DB: db}
	user, err := repo.Create(t.Context(), repository.CreateUserParams{
		Email:          fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Handle:         fmt.Sprintf("%s_%s", name, uuid.NewString()[:8]),
		Name:           name,
		HashedPassword: "hashedpassword123",
		Timezone:       "UTC",
	})
	require.NoError(t, err, "fixture user should be created")
	return user
}

func mustCreateCircle(t *testing.T, db DBTX, ownerID uuid.UUID) models.Circle {
	t.Helper()

	repo := CircleRepo{DB: db}
	circle, err := repo.Create(t.Context(), models.Circle{
		ID:             uuid.New(),
		Name:           "Test Circle",
		OwnerID:        ownerID,
		InviteCode:     uuid.NewString()[:8],
		VisibilityMode: models.VisibilityScoreOnly,
	})
	require.NoError(t, err, "fixture circle should be created")
	return circle
}

func mustAddMember(t *testing.T, db DBTX, circleID uuid.UUID, userID uuid.UUID, role string) models.CircleMember {
	t.Helper()

	repo := MemberRepo{DB: db}
	member, err := repo.Create(t.Context(), models.CircleMember{
		ID:       uuid.New(),
		CircleID: circleID,
		UserID:   userID,
		Role:     role,
	})
	require.NoError(t, err, "fixture membership should be created")
	return member
}
