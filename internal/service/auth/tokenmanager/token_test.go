package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/repository"
	"github.com/think3er/ippo-backend/internal/repository/postgres"
	"github.com/think3er/ippo-backend/internal/testutil"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Refresh tokens reference their user, so a real user row is needed
	createUser := func(t *testing.T, tx pgx.Tx) (uuid.UUID, string) {
		t.Helper()
		userRepo := &postgres.UserRepo{DB: tx}
		user, err := userRepo.Create(t.Context(), repository.CreateUserParams{
			Email:          "abu@example.com",
			Handle:         "abu_bakr",
			Name:           "Abu Bakr",
			HashedPassword: "hashed_password",
			Timezone:       "UTC",
		})
		require.NoError(t, err)
		return user.ID, user.Email
	}

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, accessTTL time.Duration, refreshTTL time.Duration, fn func(m *TokenManager, userID uuid.UUID, email string)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			cfg := Config{
				SecretKey:  "test-secret-key",
				AccessTTL:  accessTTL,
				RefreshTTL: refreshTTL,
			}
			refreshRepo := &postgres.RefreshTokenRepo{DB: tx}

			tokenManager, err := New(cfg, refreshRepo)
			require.NoError(t, err, "token manager should be created without errors")

			userID, email := createUser(t, tx)
			fn(tokenManager, userID, email)
		})
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"}, nil)
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new without secret fails", func(t *testing.T) {
		_, err := New(Config{}, nil)
		require.Error(t, err)
	})

	t.Run("IssuePair", func(t *testing.T) {
		t.Run("return token pair", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)

					require.NoError(t, err)

					assert.NotEmpty(t, pair.Access.Value, "access token should not be empty")
					assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.Access.ExpiresAt, time.Second)
					assert.NotEmpty(t, pair.Refresh.Value, "refresh token should not be empty")
					assert.WithinDuration(t, time.Now().Add(24*time.Hour), pair.Refresh.ExpiresAt, time.Second)
				},
			)
		})

		t.Run("access claims", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					// Parse and verify the access token
					token, err := jwt.ParseWithClaims(pair.Access.Value, &Claims{}, func(token *jwt.Token) (any, error) {
						return []byte("test-secret-key"), nil
					})
					require.NoError(t, err)
					require.True(t, token.Valid, "access token should be valid")

					claims, ok := token.Claims.(*Claims)
					require.True(t, ok, "claims should be of type Claims")
					assert.Equal(t, userID, claims.UserID, "user ID in token should match")
					assert.Equal(t, email, claims.Email, "email in token should match")
					assert.NotEmpty(t, claims.ID, "token has to has jti")
					assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
					assert.WithinDuration(t, pair.Access.ExpiresAt, claims.ExpiresAt.Time, 0, "access expires at should match token pair")
				},
			)
		})

		t.Run("generate different tokens", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair1, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					pair2, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					assert.NotEqual(t, pair1.Refresh.Value, pair2.Refresh.Value, "refresh tokens should be different")
					assert.NotEqual(t, pair1.Access.Value, pair2.Access.Value, "access tokens should be different")
				},
			)
		})
	})

	t.Run("ConsumeRefresh", func(t *testing.T) {
		t.Run("consume once ok", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					claims, err := m.ConsumeRefresh(t.Context(), pair.Refresh.Value)

					require.NoError(t, err, "consuming a live refresh token should not return an error")
					require.Equal(t, userID, claims.UserID)
					require.Equal(t, email, claims.Email)
				},
			)
		})

		t.Run("consume twice fails", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					_, err = m.ConsumeRefresh(t.Context(), pair.Refresh.Value)
					require.NoError(t, err)

					_, err = m.ConsumeRefresh(t.Context(), pair.Refresh.Value)
					require.Error(t, err, "using the same refresh token again should return an error")
					assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
				},
			)
		})

		t.Run("consume expired fails", func(t *testing.T) {
			withTx(pg.Pool, t, 1*time.Second, 1*time.Second,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					// Wait for the token to expire
					time.Sleep(time.Second)

					_, err = m.ConsumeRefresh(t.Context(), pair.Refresh.Value)
					require.Error(t, err, "using expired refresh token should return an error")
					assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
				},
			)
		})

		t.Run("consume garbage fails", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, _ uuid.UUID, _ string) {
					_, err := m.ConsumeRefresh(t.Context(), "not even a token")

					require.Error(t, err)
					assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound, "forged tokens must look like missing ones")
				},
			)
		})
	})

	t.Run("RevokeUser", func(t *testing.T) {
		withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
			func(m *TokenManager, userID uuid.UUID, email string) {
				pair, err := m.IssuePair(t.Context(), userID, email)
				require.NoError(t, err)

				require.NoError(t, m.RevokeUser(t.Context(), userID))

				_, err = m.ConsumeRefresh(t.Context(), pair.Refresh.Value)
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
			},
		)
	})

	t.Run("ParseAccess", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err, "token pair should be generated without errors")

					claims, err := m.ParseAccess(pair.Access.Value)
					require.NoError(t, err, "valid token should be parsed without errors")
					require.Equal(t, userID, claims.UserID)
				},
			)
		})

		t.Run("not a token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, _ uuid.UUID, _ string) {
					_, err := m.ParseAccess("invalid token")
					require.Error(t, err, "parsing even not a token should return an error")
				},
			)
		})

		t.Run("expired token", func(t *testing.T) {
			withTx(pg.Pool, t, 1*time.Second, 1*time.Second,
				func(m *TokenManager, userID uuid.UUID, email string) {
					pair, err := m.IssuePair(t.Context(), userID, email)
					require.NoError(t, err)

					// Wait for the token to expire
					time.Sleep(time.Second)

					_, err = m.ParseAccess(pair.Access.Value)
					require.Error(t, err, "token has to become expired")
				},
			)
		})

		t.Run("not signed token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour,
				func(m *TokenManager, userID uuid.UUID, _ string) {
					// Create valid but unsigned token
					token := jwt.NewWithClaims(
						jwt.SigningMethodNone,
						Claims{
							RegisteredClaims: jwt.RegisteredClaims{
								ID:        uuid.NewString(),
								IssuedAt:  jwt.NewNumericDate(time.Now()),
								ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
							},
							UserID: userID,
						},
					)
					access, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
					require.NoError(t, err)

					_, err = m.ParseAccess(access)
					require.Error(t, err, "Valid token with empty alg must fail")
				},
			)
		})
	})
}
