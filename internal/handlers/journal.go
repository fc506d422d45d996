package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/handlers/authctx"
	"github.com/think3er/ippo-backend/internal/handlers/render"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/journal"
)

type JournalService interface {
	Create(ctx context.Context, userID uuid.UUID, circleID uuid.UUID, params journal.CreateParams) (models.Journal, error)
	CircleFeed(ctx context.Context, circleID uuid.UUID, params journal.FeedParams) (journal.Feed, error)
	Get(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID) (models.Journal, []models.JournalComment, error)
	My(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, params journal.MyParams) ([]models.Journal, error)
	Delete(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID, userID uuid.UUID) error
	AddComment(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID, userID uuid.UUID, content string) (models.JournalComment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error
}

type JournalHandler struct {
	journals JournalService
	logger   logger.Logger
}

func NewJournal(journals JournalService, logger logger.Logger) *JournalHandler {
	return &JournalHandler{journals: journals, logger: logger}
}

type journalJSON struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"userId"`
	CircleID     uuid.UUID      `json:"circleId"`
	Pillar       string         `json:"pillar"`
	Title        *string        `json:"title"`
	Content      string         `json:"content"`
	CreatedAt    time.Time      `json:"createdAt"`
	CommentCount int            `json:"commentCount"`
	User         models.UserRef `json:"user"`
}

func toJournalJSON(j models.Journal) journalJSON {
	return journalJSON{
		ID:           j.ID,
		UserID:       j.UserID,
		CircleID:     j.CircleID,
		Pillar:       j.Pillar,
		Title:        j.Title,
		Content:      j.Content,
		CreatedAt:    j.CreatedAt,
		CommentCount: j.CommentCount,
		User:         j.User,
	}
}

type commentJSON struct {
	ID        uuid.UUID      `json:"id"`
	JournalID uuid.UUID      `json:"journalId"`
	UserID    uuid.UUID      `json:"userId"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	User      models.UserRef `json:"user"`
}

func toCommentJSON(c models.JournalComment) commentJSON {
	return commentJSON{
		ID:        c.ID,
		JournalID: c.JournalID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		User:      c.User,
	}
}

func (h *JournalHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		Pillar  string  `json:"pillar" validate:"required,oneof=deen body mind mission brotherhood"`
		Title   *string `json:"title" validate:"omitempty,max=200"`
		Content string  `json:"content" validate:"required,min=1,max=10000"`
	}
	type CreateResponse struct {
		Journal journalJSON `json:"journal"`
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	created, err := h.journals.Create(r.Context(), member.UserID, member.CircleID, journal.CreateParams{
		Pillar:  data.Pillar,
		Title:   data.Title,
		Content: data.Content,
	})
	if err != nil {
		h.logger.Error("create journal failed", "error", err.Error())
		render.Internal(w)
		return
	}

	render.JSONStatus(w, CreateResponse{Journal: toJournalJSON(created)}, http.StatusCreated)
}

func (h *JournalHandler) feed(w http.ResponseWriter, r *http.Request) {
	type paginationJSON struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	}
	type FeedResponse struct {
		Journals   []journalJSON  `json:"journals"`
		Pagination paginationJSON `json:"pagination"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	pillar, ok := pillarQuery(w, r)
	if !ok {
		return
	}

	params := journal.FeedParams{Pillar: pillar}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	feed, err := h.journals.CircleFeed(r.Context(), member.CircleID, params)
	if err != nil {
		h.logger.Error("journal feed failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]journalJSON, 0, len(feed.Journals))
	for _, j := range feed.Journals {
		out = append(out, toJournalJSON(j))
	}
	render.JSON(w, FeedResponse{
		Journals: out,
		Pagination: paginationJSON{
			Page:  feed.Page,
			Limit: feed.Limit,
			Total: feed.Total,
			Pages: feed.Pages,
		},
	})
}

func (h *JournalHandler) get(w http.ResponseWriter, r *http.Request) {
	type journalDetail struct {
		journalJSON
		Comments []commentJSON `json:"comments"`
	}
	type GetResponse struct {
		Journal journalDetail `json:"journal"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	journalID, err := uuid.Parse(r.PathValue("journalId"))
	if err != nil {
		render.Error(w, "Journal not found", http.StatusNotFound)
		return
	}

	found, comments, err := h.journals.Get(r.Context(), member.CircleID, journalID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrJournalNotFound):
			render.Error(w, "Journal not found", http.StatusNotFound)
		default:
			h.logger.Error("get journal failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	commentList := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		commentList = append(commentList, toCommentJSON(c))
	}
	render.JSON(w, GetResponse{Journal: journalDetail{
		journalJSON: toJournalJSON(found),
		Comments:    commentList,
	}})
}

func (h *JournalHandler) my(w http.ResponseWriter, r *http.Request) {
	type MyResponse struct {
		Journals []journalJSON `json:"journals"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	pillar, ok := pillarQuery(w, r)
	if !ok {
		return
	}

	params := journal.MyParams{Pillar: pillar}
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			render.ValidationFailed(w, "date", "Date must be YYYY-MM-DD")
			return
		}
		params.Date = &parsed
	}

	journals, err := h.journals.My(r.Context(), member.CircleID, member.UserID, params)
	if err != nil {
		h.logger.Error("my journals failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]journalJSON, 0, len(journals))
	for _, j := range journals {
		out = append(out, toJournalJSON(j))
	}
	render.JSON(w, MyResponse{Journals: out})
}

func (h *JournalHandler) delete(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	journalID, err := uuid.Parse(r.PathValue("journalId"))
	if err != nil {
		render.Error(w, "Journal not found", http.StatusNotFound)
		return
	}

	if err := h.journals.Delete(r.Context(), member.CircleID, journalID, member.UserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrJournalNotFound):
			render.Error(w, "Journal not found", http.StatusNotFound)
		default:
			h.logger.Error("delete journal failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, DeleteResponse{Message: "Journal deleted"})
}

func (h *JournalHandler) addComment(w http.ResponseWriter, r *http.Request) {
	type CommentRequest struct {
		Content string `json:"content" validate:"required,min=1,max=2000"`
	}
	type CommentResponse struct {
		Comment commentJSON `json:"comment"`
	}

	data, err := render.BindAndValidate[CommentRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	journalID, err := uuid.Parse(r.PathValue("journalId"))
	if err != nil {
		render.Error(w, "Journal not found", http.StatusNotFound)
		return
	}

	comment, err := h.journals.AddComment(r.Context(), member.CircleID, journalID, member.UserID, data.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrJournalNotFound):
			render.Error(w, "Journal not found", http.StatusNotFound)
		default:
			h.logger.Error("add comment failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSONStatus(w, CommentResponse{Comment: toCommentJSON(comment)}, http.StatusCreated)
}

func (h *JournalHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	commentID, err := uuid.Parse(r.PathValue("commentId"))
	if err != nil {
		render.Error(w, "Comment not found", http.StatusNotFound)
		return
	}

	if err := h.journals.DeleteComment(r.Context(), commentID, member.UserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.Error(w, "Comment not found", http.StatusNotFound)
		default:
			h.logger.Error("delete comment failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, DeleteResponse{Message: "Comment deleted"})
}

// pillarQuery validates the optional pillar filter
func pillarQuery(w http.ResponseWriter, r *http.Request) (*string, bool) {
	raw := r.URL.Query().Get("pillar")
	if raw == "" {
		return nil, true
	}
	switch raw {
	case models.PillarDeen, models.PillarBody, models.PillarMind, models.PillarMission, models.PillarBrotherhood:
		return &raw, true
	}
	render.ValidationFailed(w, "pillar", "Pillar must be one of deen, body, mind, mission, brotherhood")
	return nil, false
}
