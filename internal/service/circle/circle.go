package circle

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

const inviteCodeBytesLen = 4

type CreateParams struct {
	Name           string
	Description    *string
	VisibilityMode string
}

type UpdateParams = repository.UpdateCircleParams

type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

// Create makes the circle and its owner membership in one transaction,
// so a circle can never exist without exactly one owner
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (models.Circle, error) {
	if params.VisibilityMode == "" {
		params.VisibilityMode = models.VisibilityScoreOnly
	}

	code, err := generateInviteCode()
	if err != nil {
		return models.Circle{}, fmt.Errorf("error while generating invite code. Err: %w", err)
	}

	var circle models.Circle
	err = s.storage.InTx(ctx, func(tx repository.Storage) error {
		circle, err = tx.Circle().Create(ctx, models.Circle{
			ID:             uuid.New(),
			Name:           params.Name,
			Description:    params.Description,
			OwnerID:        ownerID,
			InviteCode:     code,
			VisibilityMode: params.VisibilityMode,
		})
		if err != nil {
			return err
		}

		_, err = tx.Member().Create(ctx, models.CircleMember{
			ID:       uuid.New(),
			CircleID: circle.ID,
			UserID:   ownerID,
			Role:     models.RoleOwner,
		})
		return err
	})
	if err != nil {
		return models.Circle{}, fmt.Errorf("error while creating circle. Err: %w", err)
	}

	return circle, nil
}

// List returns all circles the user belongs to
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.UserCircle, error) {
	return s.storage.Member().ListForUser(ctx, userID)
}

// Get returns the circle with its member list
func (s *Service) Get(ctx context.Context, circleID uuid.UUID) (models.Circle, []models.MemberWithUser, error) {
	circle, err := s.storage.Circle().GetByID(ctx, circleID)
	if err != nil {
		return models.Circle{}, nil, err
	}

	members, err := s.storage.Member().ListForCircle(ctx, circleID)
	if err != nil {
		return models.Circle{}, nil, err
	}

	return circle, members, nil
}

// InviteCode reveals the circle's invite code
func (s *Service) InviteCode(ctx context.Context, circleID uuid.UUID) (string, error) {
	circle, err := s.storage.Circle().GetByID(ctx, circleID)
	if err != nil {
		return "", err
	}
	return circle.InviteCode, nil
}

// Join adds the user as a plain member of the circle behind the invite code
func (s *Service) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (models.Circle, error) {
	circle, err := s.storage.Circle().GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return models.Circle{}, err
	}

	_, err = s.storage.Member().Create(ctx, models.CircleMember{
		ID:       uuid.New(),
		CircleID: circle.ID,
		UserID:   userID,
		Role:     models.RoleMember,
	})
	if err != nil {
		return models.Circle{}, err
	}

	return circle, nil
}

func (s *Service) Update(ctx context.Context, circleID uuid.UUID, params UpdateParams) (models.Circle, error) {
	return s.storage.Circle().Update(ctx, circleID, params)
}

func (s *Service) Delete(ctx context.Context, circleID uuid.UUID) error {
	return s.storage.Circle().Delete(ctx, circleID)
}

func (s *Service) Members(ctx context.Context, circleID uuid.UUID) ([]models.MemberWithUser, error) {
	return s.storage.Member().ListForCircle(ctx, circleID)
}

func (s *Service) UpdateMemberRole(ctx context.Context, memberID uuid.UUID, role string) (models.CircleMember, error) {
	return s.storage.Member().UpdateRole(ctx, memberID, role)
}

func (s *Service) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	return s.storage.Member().Delete(ctx, memberID)
}

// generateInviteCode returns 8 uppercase hex chars
func generateInviteCode() (string, error) {
	b := make([]byte, inviteCodeBytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
