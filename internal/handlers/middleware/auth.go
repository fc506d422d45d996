package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/handlers/authctx"
	"github.com/think3er/ippo-backend/internal/handlers/render"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/auth/tokenmanager"
)

const bearerPrefix = "Bearer "

type accessParser interface {
	ParseAccess(access string) (tokenmanager.Claims, error)
}

type memberGetter interface {
	Get(ctx context.Context, circleID uuid.UUID, userID uuid.UUID) (models.CircleMember, error)
}

// Auth authenticates the caller from the Authorization header and puts the
// token identity into the request context.
// Signature and expiry failures are indistinguishable to the client
func Auth(parser accessParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				render.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := parser.ParseAccess(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				render.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := authctx.WithAuth(r.Context(), authctx.Auth{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Member resolves the caller's membership in the circle named by the
// route's {id} segment and puts it into the request context.
// Must run after Auth
func Member(members memberGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := authctx.AuthFrom(r.Context())
			if !ok {
				render.Internal(w)
				return
			}

			rawID := r.PathValue("id")
			if rawID == "" {
				render.Error(w, "Circle ID required", http.StatusBadRequest)
				return
			}

			circleID, err := uuid.Parse(rawID)
			if err != nil {
				render.Error(w, "Invalid circle ID", http.StatusBadRequest)
				return
			}

			member, err := members.Get(r.Context(), circleID, caller.UserID)
			if err != nil {
				render.Error(w, "Not a member of this circle", http.StatusForbidden)
				return
			}

			ctx := authctx.WithMember(r.Context(), authctx.Member{
				ID:       member.ID,
				CircleID: member.CircleID,
				UserID:   member.UserID,
				Role:     member.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin passes owners and admins only.
// Depends on the membership Member attached, never use it standalone:
// a route wired without Member fails with 500 on purpose
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, ok := authctx.MemberFrom(r.Context())
			if !ok {
				render.Internal(w)
				return
			}

			if member.Role != models.RoleOwner && member.Role != models.RoleAdmin {
				render.Error(w, "Admin or owner role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
