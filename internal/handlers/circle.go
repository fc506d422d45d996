package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/handlers/authctx"
	"github.com/think3er/ippo-backend/internal/handlers/render"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/circle"
)

type CircleService interface {
	Create(ctx context.Context, ownerID uuid.UUID, params circle.CreateParams) (models.Circle, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.UserCircle, error)
	Get(ctx context.Context, circleID uuid.UUID) (models.Circle, []models.MemberWithUser, error)
	InviteCode(ctx context.Context, circleID uuid.UUID) (string, error)
	Join(ctx context.Context, userID uuid.UUID, inviteCode string) (models.Circle, error)
	Update(ctx context.Context, circleID uuid.UUID, params circle.UpdateParams) (models.Circle, error)
	Delete(ctx context.Context, circleID uuid.UUID) error
	Members(ctx context.Context, circleID uuid.UUID) ([]models.MemberWithUser, error)
	UpdateMemberRole(ctx context.Context, memberID uuid.UUID, role string) (models.CircleMember, error)
	RemoveMember(ctx context.Context, memberID uuid.UUID) error
}

type CircleHandler struct {
	circles CircleService
	logger  logger.Logger
}

func NewCircle(circles CircleService, logger logger.Logger) *CircleHandler {
	return &CircleHandler{circles: circles, logger: logger}
}

type circleJSON struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	OwnerID        uuid.UUID `json:"ownerId"`
	InviteCode     string    `json:"inviteCode,omitempty"`
	VisibilityMode string    `json:"visibilityMode"`
	CreatedAt      time.Time `json:"createdAt"`
}

// toCircleJSON hides the invite code unless asked for it,
// admins reveal it through the invite endpoint
func toCircleJSON(c models.Circle, withCode bool) circleJSON {
	out := circleJSON{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		OwnerID:        c.OwnerID,
		VisibilityMode: c.VisibilityMode,
		CreatedAt:      c.CreatedAt,
	}
	if withCode {
		out.InviteCode = c.InviteCode
	}
	return out
}

type memberJSON struct {
	ID       uuid.UUID      `json:"id"`
	CircleID uuid.UUID      `json:"circleId"`
	UserID   uuid.UUID      `json:"userId"`
	Role     string         `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`
	User     models.UserRef `json:"user"`
}

func toMemberJSON(m models.MemberWithUser) memberJSON {
	return memberJSON{
		ID:       m.ID,
		CircleID: m.CircleID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
		User:     m.User,
	}
}

func (h *CircleHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		Name           string  `json:"name" validate:"required,min=1,max=100"`
		Description    *string `json:"description" validate:"omitempty,max=500"`
		VisibilityMode string  `json:"visibilityMode" validate:"omitempty,oneof=score_only detailed custom"`
	}
	type CreateResponse struct {
		Circle circleJSON `json:"circle"`
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	caller, ok := authctx.AuthFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	created, err := h.circles.Create(r.Context(), caller.UserID, circle.CreateParams{
		Name:           data.Name,
		Description:    data.Description,
		VisibilityMode: data.VisibilityMode,
	})
	if err != nil {
		h.logger.Error("create circle failed", "error", err.Error())
		render.Internal(w)
		return
	}

	render.JSONStatus(w, CreateResponse{Circle: toCircleJSON(created, true)}, http.StatusCreated)
}

func (h *CircleHandler) list(w http.ResponseWriter, r *http.Request) {
	type listedCircle struct {
		circleJSON
		MemberCount int    `json:"memberCount"`
		MyRole      string `json:"myRole"`
	}
	type ListResponse struct {
		Circles []listedCircle `json:"circles"`
	}

	caller, ok := authctx.AuthFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	circles, err := h.circles.List(r.Context(), caller.UserID)
	if err != nil {
		h.logger.Error("list circles failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]listedCircle, 0, len(circles))
	for _, c := range circles {
		out = append(out, listedCircle{
			circleJSON:  toCircleJSON(c.Circle, false),
			MemberCount: c.MemberCount,
			MyRole:      c.MyRole,
		})
	}
	render.JSON(w, ListResponse{Circles: out})
}

func (h *CircleHandler) get(w http.ResponseWriter, r *http.Request) {
	type circleDetail struct {
		circleJSON
		Members     []memberJSON `json:"members"`
		MemberCount int          `json:"memberCount"`
	}
	type GetResponse struct {
		Circle circleDetail `json:"circle"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	found, members, err := h.circles.Get(r.Context(), member.CircleID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircleNotFound):
			render.Error(w, "Circle not found", http.StatusNotFound)
		default:
			h.logger.Error("get circle failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	memberList := make([]memberJSON, 0, len(members))
	for _, m := range members {
		memberList = append(memberList, toMemberJSON(m))
	}
	render.JSON(w, GetResponse{Circle: circleDetail{
		circleJSON:  toCircleJSON(found, false),
		Members:     memberList,
		MemberCount: len(memberList),
	}})
}

func (h *CircleHandler) invite(w http.ResponseWriter, r *http.Request) {
	type InviteResponse struct {
		InviteCode string `json:"inviteCode"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	code, err := h.circles.InviteCode(r.Context(), member.CircleID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircleNotFound):
			render.Error(w, "Circle not found", http.StatusNotFound)
		default:
			h.logger.Error("invite code failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, InviteResponse{InviteCode: code})
}

func (h *CircleHandler) join(w http.ResponseWriter, r *http.Request) {
	type JoinRequest struct {
		InviteCode string `json:"inviteCode" validate:"required"`
	}
	type JoinResponse struct {
		Message    string    `json:"message"`
		CircleID   uuid.UUID `json:"circleId"`
		CircleName string    `json:"circleName"`
	}

	data, err := render.BindAndValidate[JoinRequest](w, r)
	if err != nil {
		return
	}

	caller, ok := authctx.AuthFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	joined, err := h.circles.Join(r.Context(), caller.UserID, data.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircleNotFound):
			render.Error(w, "Invalid invite code", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadyMember):
			render.Error(w, "Already a member of this circle", http.StatusConflict)
		default:
			h.logger.Error("join circle failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSONStatus(w, JoinResponse{
		Message:    "Joined circle",
		CircleID:   joined.ID,
		CircleName: joined.Name,
	}, http.StatusCreated)
}

func (h *CircleHandler) update(w http.ResponseWriter, r *http.Request) {
	type UpdateRequest struct {
		Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description    *string `json:"description" validate:"omitempty,max=500"`
		VisibilityMode *string `json:"visibilityMode" validate:"omitempty,oneof=score_only detailed custom"`
	}
	type UpdateResponse struct {
		Circle circleJSON `json:"circle"`
	}

	data, err := render.BindAndValidate[UpdateRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	updated, err := h.circles.Update(r.Context(), member.CircleID, circle.UpdateParams{
		Name:           data.Name,
		Description:    data.Description,
		VisibilityMode: data.VisibilityMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircleNotFound):
			render.Error(w, "Circle not found", http.StatusNotFound)
		default:
			h.logger.Error("update circle failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, UpdateResponse{Circle: toCircleJSON(updated, false)})
}

func (h *CircleHandler) delete(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}
	if member.Role != models.RoleOwner {
		render.Error(w, "Only the owner can delete the circle", http.StatusForbidden)
		return
	}

	if err := h.circles.Delete(r.Context(), member.CircleID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircleNotFound):
			render.Error(w, "Circle not found", http.StatusNotFound)
		default:
			h.logger.Error("delete circle failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, DeleteResponse{Message: "Circle deleted"})
}

func (h *CircleHandler) members(w http.ResponseWriter, r *http.Request) {
	type MembersResponse struct {
		Members []memberJSON `json:"members"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	members, err := h.circles.Members(r.Context(), member.CircleID)
	if err != nil {
		h.logger.Error("list members failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberJSON(m))
	}
	render.JSON(w, MembersResponse{Members: out})
}

func (h *CircleHandler) updateMember(w http.ResponseWriter, r *http.Request) {
	type UpdateMemberRequest struct {
		Role string `json:"role" validate:"required,oneof=admin member"`
	}
	type memberRow struct {
		ID       uuid.UUID `json:"id"`
		CircleID uuid.UUID `json:"circleId"`
		UserID   uuid.UUID `json:"userId"`
		Role     string    `json:"role"`
		JoinedAt time.Time `json:"joinedAt"`
	}
	type UpdateMemberResponse struct {
		Member memberRow `json:"member"`
	}

	memberID, err := uuid.Parse(r.PathValue("memberId"))
	if err != nil {
		render.Error(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[UpdateMemberRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.circles.UpdateMemberRole(r.Context(), memberID, data.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			render.Error(w, "Member not found", http.StatusNotFound)
		default:
			h.logger.Error("update member failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, UpdateMemberResponse{Member: memberRow{
		ID:       updated.ID,
		CircleID: updated.CircleID,
		UserID:   updated.UserID,
		Role:     updated.Role,
		JoinedAt: updated.JoinedAt,
	}})
}

func (h *CircleHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	type RemoveMemberResponse struct {
		Message string `json:"message"`
	}

	memberID, err := uuid.Parse(r.PathValue("memberId"))
	if err != nil {
		render.Error(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	if err := h.circles.RemoveMember(r.Context(), memberID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			render.Error(w, "Member not found", http.StatusNotFound)
		default:
			h.logger.Error("remove member failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, RemoveMemberResponse{Message: "Member removed"})
}
