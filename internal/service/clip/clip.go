package clip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

const historyLimit = 50

type PostParams struct {
	VideoURL string
	Title    *string
	Caption  *string
}

// Rotation state as presented to circle members
type RotationInfo struct {
	CurrentUserID uuid.UUID
	IntervalDays  int
	LastRotatedAt time.Time
	NeedsRotation bool
	IsMyTurn      bool
}

type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

// Current returns the active clip and the rotation state, either may be absent
func (s *Service) Current(ctx context.Context, circleID uuid.UUID, viewerID uuid.UUID) (*models.Clip, *RotationInfo, error) {
	clip, err := s.storage.Clip().GetActive(ctx, circleID)
	if err != nil {
		return nil, nil, err
	}

	rotation, err := s.storage.Clip().GetRotation(ctx, circleID)
	switch {
	case errors.Is(err, apperrors.ErrRotationNotFound):
		return clip, nil, nil
	case err != nil:
		return nil, nil, err
	}

	daysSince := int(time.Since(rotation.LastRotatedAt).Hours() / 24)
	info := &RotationInfo{
		CurrentUserID: rotation.CurrentUserID,
		IntervalDays:  rotation.IntervalDays,
		LastRotatedAt: rotation.LastRotatedAt,
		NeedsRotation: daysSince >= rotation.IntervalDays,
		IsMyTurn:      rotation.CurrentUserID == viewerID,
	}

	return clip, info, nil
}

// History returns the latest clips, newest first
func (s *Service) History(ctx context.Context, circleID uuid.UUID) ([]models.Clip, error) {
	return s.storage.Clip().List(ctx, circleID, historyLimit)
}

// Post replaces the active clip and hands the rotation turn to the next
// user in order, all in one transaction
func (s *Service) Post(ctx context.Context, circleID uuid.UUID, posterID uuid.UUID, params PostParams) (models.Clip, error) {
	var clip models.Clip

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		if err := tx.Clip().DeactivateActive(ctx, circleID); err != nil {
			return err
		}

		var err error
		clip, err = tx.Clip().Create(ctx, models.Clip{
			ID:       uuid.New(),
			CircleID: circleID,
			PostedBy: posterID,
			VideoURL: params.VideoURL,
			Title:    params.Title,
			Caption:  params.Caption,
		})
		if err != nil {
			return err
		}

		rotation, err := tx.Clip().GetRotation(ctx, circleID)
		switch {
		case errors.Is(err, apperrors.ErrRotationNotFound):
			return nil
		case err != nil:
			return err
		}

		if len(rotation.RotationOrder) == 0 {
			return nil
		}

		next := nextInRotation(rotation.RotationOrder, posterID)
		return tx.Clip().SetRotationCurrent(ctx, circleID, next, time.Now())
	})
	if err != nil {
		return models.Clip{}, err
	}

	return clip, nil
}

// SetupRotation creates the rotation or refreshes its order from the
// current member list. The turn of an existing rotation is kept
func (s *Service) SetupRotation(ctx context.Context, circleID uuid.UUID, intervalDays *int) (models.ClipRotation, error) {
	members, err := s.storage.Member().ListForCircle(ctx, circleID)
	if err != nil {
		return models.ClipRotation{}, err
	}

	order := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		order = append(order, m.UserID)
	}
	if len(order) == 0 {
		return models.ClipRotation{}, apperrors.ErrRotationNotFound
	}

	return s.storage.Clip().UpsertRotation(ctx, repository.UpsertRotationParams{
		CircleID:      circleID,
		CurrentUserID: order[0],
		RotationOrder: order,
		IntervalDays:  intervalDays,
	})
}

// nextInRotation picks the user after current, wrapping around.
// A current user missing from the order hands the turn to the first entry
func nextInRotation(order []uuid.UUID, current uuid.UUID) uuid.UUID {
	idx := -1
	for i, id := range order {
		if id == current {
			idx = i
			break
		}
	}
	return order[(idx+1)%len(order)]
}
