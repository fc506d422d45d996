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
	"github.com/think3er/ippo-backend/internal/service/clip"
)

type ClipService interface {
	Current(ctx context.Context, circleID uuid.UUID, viewerID uuid.UUID) (*models.Clip, *clip.RotationInfo, error)
	History(ctx context.Context, circleID uuid.UUID) ([]models.Clip, error)
	Post(ctx context.Context, circleID uuid.UUID, posterID uuid.UUID, params clip.PostParams) (models.Clip, error)
	SetupRotation(ctx context.Context, circleID uuid.UUID, intervalDays *int) (models.ClipRotation, error)
}

type ClipHandler struct {
	clips  ClipService
	logger logger.Logger
}

func NewClip(clips ClipService, logger logger.Logger) *ClipHandler {
	return &ClipHandler{clips: clips, logger: logger}
}

type clipJSON struct {
	ID        uuid.UUID      `json:"id"`
	CircleID  uuid.UUID      `json:"circleId"`
	PostedBy  models.UserRef `json:"postedBy"`
	VideoURL  string         `json:"videoUrl"`
	Title     *string        `json:"title"`
	Caption   *string        `json:"caption"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toClipJSON(c models.Clip) clipJSON {
	return clipJSON{
		ID:        c.ID,
		CircleID:  c.CircleID,
		PostedBy:  c.Poster,
		VideoURL:  c.VideoURL,
		Title:     c.Title,
		Caption:   c.Caption,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

type rotationInfoJSON struct {
	CurrentUserID uuid.UUID `json:"currentUserId"`
	IntervalDays  int       `json:"intervalDays"`
	LastRotatedAt time.Time `json:"lastRotatedAt"`
	NeedsRotation bool      `json:"needsRotation"`
	IsMyTurn      bool      `json:"isMyTurn"`
}

func (h *ClipHandler) current(w http.ResponseWriter, r *http.Request) {
	type CurrentResponse struct {
		Clip     *clipJSON         `json:"clip"`
		Rotation *rotationInfoJSON `json:"rotation"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	active, rotation, err := h.clips.Current(r.Context(), member.CircleID, member.UserID)
	if err != nil {
		h.logger.Error("current clip failed", "error", err.Error())
		render.Internal(w)
		return
	}

	resp := CurrentResponse{}
	if active != nil {
		clipOut := toClipJSON(*active)
		resp.Clip = &clipOut
	}
	if rotation != nil {
		resp.Rotation = &rotationInfoJSON{
			CurrentUserID: rotation.CurrentUserID,
			IntervalDays:  rotation.IntervalDays,
			LastRotatedAt: rotation.LastRotatedAt,
			NeedsRotation: rotation.NeedsRotation,
			IsMyTurn:      rotation.IsMyTurn,
		}
	}
	render.JSON(w, resp)
}

func (h *ClipHandler) history(w http.ResponseWriter, r *http.Request) {
	type HistoryResponse struct {
		Clips []clipJSON `json:"clips"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	clips, err := h.clips.History(r.Context(), member.CircleID)
	if err != nil {
		h.logger.Error("clip history failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]clipJSON, 0, len(clips))
	for _, c := range clips {
		out = append(out, toClipJSON(c))
	}
	render.JSON(w, HistoryResponse{Clips: out})
}

func (h *ClipHandler) post(w http.ResponseWriter, r *http.Request) {
	type PostRequest struct {
		VideoURL string  `json:"videoUrl" validate:"required,url"`
		Title    *string `json:"title" validate:"omitempty,max=200"`
		Caption  *string `json:"caption" validate:"omitempty,max=1000"`
	}
	type PostResponse struct {
		Clip clipJSON `json:"clip"`
	}

	data, err := render.BindAndValidate[PostRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	posted, err := h.clips.Post(r.Context(), member.CircleID, member.UserID, clip.PostParams{
		VideoURL: data.VideoURL,
		Title:    data.Title,
		Caption:  data.Caption,
	})
	if err != nil {
		h.logger.Error("post clip failed", "error", err.Error())
		render.Internal(w)
		return
	}

	render.JSONStatus(w, PostResponse{Clip: toClipJSON(posted)}, http.StatusCreated)
}

func (h *ClipHandler) setupRotation(w http.ResponseWriter, r *http.Request) {
	type RotationRequest struct {
		IntervalDays *int `json:"intervalDays" validate:"omitempty,min=1,max=14"`
	}
	type rotationJSON struct {
		CircleID      uuid.UUID   `json:"circleId"`
		CurrentUserID uuid.UUID   `json:"currentUserId"`
		RotationOrder []uuid.UUID `json:"rotationOrder"`
		IntervalDays  int         `json:"intervalDays"`
		LastRotatedAt time.Time   `json:"lastRotatedAt"`
	}
	type RotationResponse struct {
		Message  string       `json:"message"`
		Rotation rotationJSON `json:"rotation"`
	}

	data, err := render.BindAndValidate[RotationRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	rotation, err := h.clips.SetupRotation(r.Context(), member.CircleID, data.IntervalDays)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRotationNotFound):
			render.Error(w, "Circle has no members for rotation", http.StatusNotFound)
		default:
			h.logger.Error("setup rotation failed", "error", err.Error())
			render.Internal(w)
		}
		return
	}

	render.JSON(w, RotationResponse{
		Message: "Rotation updated",
		Rotation: rotationJSON{
			CircleID:      rotation.CircleID,
			CurrentUserID: rotation.CurrentUserID,
			RotationOrder: rotation.RotationOrder,
			IntervalDays:  rotation.IntervalDays,
			LastRotatedAt: rotation.LastRotatedAt,
		},
	})
}
