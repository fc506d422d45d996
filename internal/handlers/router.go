package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/handlers/middleware"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/auth/tokenmanager"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// AccessParser verifies bearer tokens for the auth middleware
type AccessParser interface {
	ParseAccess(access string) (tokenmanager.Claims, error)
}

// MemberGetter resolves circle membership for the membership middleware
type MemberGetter interface {
	Get(ctx context.Context, circleID uuid.UUID, userID uuid.UUID) (models.CircleMember, error)
}

func NewRouter(
	parser AccessParser,
	members MemberGetter,
	authService AuthService,
	circleService CircleService,
	checkInService CheckInService,
	clipService ClipService,
	journalService JournalService,
	log logger.Logger,
) http.Handler {
	authHandler := NewAuth(authService, log)
	circleHandler := NewCircle(circleService, log)
	checkInHandler := NewCheckIn(checkInService, log)
	clipHandler := NewClip(clipService, log)
	journalHandler := NewJournal(journalService, log)

	withAuth := middleware.Auth(parser)
	withMember := func(h http.HandlerFunc) http.Handler {
		return chain(h, withAuth, middleware.Member(members))
	}
	withAdmin := func(h http.HandlerFunc) http.Handler {
		return chain(h, withAuth, middleware.Member(members), middleware.RequireAdmin())
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health)

	mux.HandleFunc("POST /auth/register", authHandler.register)
	mux.HandleFunc("POST /auth/login", authHandler.login)
	mux.HandleFunc("POST /auth/refresh", authHandler.refresh)
	mux.Handle("POST /auth/logout", withAuth(http.HandlerFunc(authHandler.logout)))
	mux.Handle("GET /auth/me", withAuth(http.HandlerFunc(authHandler.me)))

	mux.Handle("POST /circles", withAuth(http.HandlerFunc(circleHandler.create)))
	mux.Handle("GET /circles", withAuth(http.HandlerFunc(circleHandler.list)))
	mux.Handle("POST /circles/join", withAuth(http.HandlerFunc(circleHandler.join)))
	mux.Handle("GET /circles/{id}", withMember(circleHandler.get))
	mux.Handle("PATCH /circles/{id}", withAdmin(circleHandler.update))
	mux.Handle("DELETE /circles/{id}", withMember(circleHandler.delete))
	mux.Handle("POST /circles/{id}/invite", withAdmin(circleHandler.invite))
	mux.Handle("GET /circles/{id}/members", withMember(circleHandler.members))
	mux.Handle("PATCH /circles/{id}/members/{memberId}", withAdmin(circleHandler.updateMember))
	mux.Handle("DELETE /circles/{id}/members/{memberId}", withAdmin(circleHandler.removeMember))

	mux.Handle("POST /circles/{id}/checkins", withMember(checkInHandler.upsert))
	mux.Handle("GET /circles/{id}/checkins", withMember(checkInHandler.dayFeed))
	mux.Handle("GET /circles/{id}/checkins/range", withMember(checkInHandler.rangeFeed))
	mux.Handle("GET /circles/{id}/checkins/me", withMember(checkInHandler.myHistory))

	mux.Handle("GET /circles/{id}/clips/current", withMember(clipHandler.current))
	mux.Handle("GET /circles/{id}/clips", withMember(clipHandler.history))
	mux.Handle("POST /circles/{id}/clips", withMember(clipHandler.post))
	mux.Handle("POST /circles/{id}/clips/rotation", withMember(clipHandler.setupRotation))

	mux.Handle("POST /circles/{id}/journals", withMember(journalHandler.create))
	mux.Handle("GET /circles/{id}/journals", withMember(journalHandler.feed))
	mux.Handle("GET /circles/{id}/journals/me", withMember(journalHandler.my))
	mux.Handle("GET /circles/{id}/journals/{journalId}", withMember(journalHandler.get))
	mux.Handle("DELETE /circles/{id}/journals/{journalId}", withMember(journalHandler.delete))
	mux.Handle("POST /circles/{id}/journals/{journalId}/comments", withMember(journalHandler.addComment))
	mux.Handle("DELETE /circles/{id}/journals/{journalId}/comments/{commentId}", withMember(journalHandler.deleteComment))

	return chain(mux,
		middleware.Logger(log),
	)
}
