package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
	"github.com/think3er/ippo-backend/internal/testutil"
)

func Test_CheckInRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	strPtr := func(s string) *string { return &s }

	t.Run("upsert inserts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := CheckInRepo{DB: tx}
			user := mustCreateUser(t, tx, "alice")
			circle := mustCreateCircle(t, tx, user.ID)

			checkIn, err := repo.Upsert(t.Context(), repository.UpsertCheckInParams{
				UserID:      user.ID,
				CircleID:    circle.ID,
				Date:        mustParseDate("2025-03-01"),
				Pillars:     models.Pillars{Deen: true, Body: true, Mind: false, Mission: true, Brotherhood: false},
				Score:       3,
				NotePrivate: strPtr("felt strong today"),
			})

			require.NoError(t, err)
			assert.Equal(t, user.ID, checkIn.UserID)
			assert.Equal(t, circle.ID, checkIn.CircleID)
			assert.Equal(t, mustParseDate("2025-03-01"), checkIn.Date)
			assert.True(t, checkIn.Pillars.Deen)
			assert.False(t, checkIn.Pillars.Mind)
			assert.Equal(t, 3, checkIn.Score)
			assert.Equal(t, "felt strong today", *checkIn.NotePrivate)
			assert.Equal(t, user.Name, checkIn.User.Name)
			assert.Equal(t, user.Handle, checkIn.User.Handle)
		})
	})

	t.Run("upsert overwrites same day", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := CheckInRepo{DB: tx}
			user := mustCreateUser(t, tx, "alice")
			circle := mustCreateCircle(t, tx, user.ID)

			params := repository.UpsertCheckInParams{
				UserID:   user.ID,
				CircleID: circle.ID,
				Date:     mustParseDate("2025-03-01"),
				Pillars:  models.Pillars{Deen: true},
				Score:    1,
			}
			first, err := repo.Upsert(t.Context(), params)
			require.NoError(t, err)

			params.Pillars = models.Pillars{Deen: true, Body: true, Mind: true, Mission: true, Brotherhood: true}
			params.Score = 5
			second, err := repo.Upsert(t.Context(), params)
			require.NoError(t, err)

			assert.Equal(t, first.ID, second.ID, "same row must be updated, not a new one")
			assert.Equal(t, 5, second.Score)
			assert.True(t, second.Pillars.Brotherhood)
			assert.Nil(t, second.NotePrivate, "note is overwritten too")
		})
	})

	t.Run("list for date with user projection", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := CheckInRepo{DB: tx}
			alice := mustCreateUser(t, tx, "alice")
			bob := mustCreateUser(t, tx, "bob")
			circle := mustCreateCircle(t, tx, alice.ID)

			for _, u := range []uuid.UUID{alice.ID, bob.ID} {
				_, err := repo.Upsert(t.Context(), repository.UpsertCheckInParams{
					UserID: u, CircleID: circle.ID, Date: mustParseDate("2025-03-01"),
					Pillars: models.Pillars{Deen: true}, Score: 1,
				})
				require.NoError(t, err)
			}
			_, err := repo.Upsert(t.Context(), repository.UpsertCheckInParams{
				UserID: alice.ID, CircleID: circle.ID, Date: mustParseDate("2025-03-02"),
				Pillars: models.Pillars{Body: true}, Score: 1,
			})
			require.NoError(t, err)

			checkIns, err := repo.ListForDate(t.Context(), circle.ID, mustParseDate("2025-03-01"))

			require.NoError(t, err)
			require.Len(t, checkIns, 2, "other days must be excluded")
			assert.Equal(t, "alice", checkIns[0].User.Name, "ordered by user name")
			assert.Equal(t, "bob", checkIns[1].User.Name)
		})
	})

	t.Run("list range ordered by date then name", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := CheckInRepo{DB: tx}
			alice := mustCreateUser(t, tx, "alice")
			bob := mustCreateUser(t, tx, "bob")
			circle := mustCreateCircle(t, tx, alice.ID)

			days := []string{"2025-03-02", "2025-03-01"}
			for _, day := range days {
				for _, u := range []uuid.UUID{bob.ID, alice.ID} {
					_, err := repo.Upsert(t.Context(), repository.UpsertCheckInParams{
						UserID: u, CircleID: circle.ID, Date: mustParseDate(day),
						Pillars: models.Pillars{Mind: true}, Score: 1,
					})
					require.NoError(t, err)
				}
			}

			checkIns, err := repo.ListRange(t.Context(), circle.ID,
				mustParseDate("2025-03-01"), mustParseDate("2025-03-02"))

			require.NoError(t, err)
			require.Len(t, checkIns, 4)
			assert.Equal(t, mustParseDate("2025-03-01"), checkIns[0].Date)
			assert.Equal(t, "alice", checkIns[0].User.Name)
			assert.Equal(t, "bob", checkIns[1].User.Name)
			assert.Equal(t, mustParseDate("2025-03-02"), checkIns[2].Date)
		})
	})

	t.Run("list user range", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := CheckInRepo{DB: tx}
			alice := mustCreateUser(t, tx, "alice")
			bob := mustCreateUser(t, tx, "bob")
			circle := mustCreateCircle(t, tx, alice.ID)

			for _, u := range []uuid.UUID{alice.ID, bob.ID} {
				_, err := repo.Upsert(t.Context(), repository.UpsertCheckInParams{
					UserID: u, CircleID: circle.ID, Date: mustParseDate("2025-03-01"),
					Pillars: models.Pillars{Deen: true}, Score: 1,
				})
				require.NoError(t, err)
			}

			checkIns, err := repo.ListUserRange(t.Context(), circle.ID, alice.ID,
				mustParseDate("2025-02-01"), mustParseDate("2025-03-31"))

			require.NoError(t, err)
			require.Len(t, checkIns, 1, "only the requested user")
			assert.Equal(t, alice.ID, checkIns[0].UserID)
			assert.Equal(t, alice.Handle, checkIns[0].User.Handle)
		})
	})
}
