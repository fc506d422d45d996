package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/apperrors"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

type CreateParams struct {
	Pillar  string
	Title   *string
	Content string
}

type FeedParams struct {
	Pillar *string
	Page   int
	Limit  int
}

type MyParams struct {
	Pillar *string
	Date   *time.Time
}

// One feed page plus pagination counters
type Feed struct {
	Journals []models.Journal
	Page     int
	Limit    int
	Total    int
	Pages    int
}

type Service struct {
	journalRepo repository.JournalRepo
}

func NewService(journalRepo repository.JournalRepo) *Service {
	return &Service{journalRepo: journalRepo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, circleID uuid.UUID, params CreateParams) (models.Journal, error) {
	return s.journalRepo.Create(ctx, models.Journal{
		ID:       uuid.New(),
		UserID:   userID,
		CircleID: circleID,
		Pillar:   params.Pillar,
		Title:    params.Title,
		Content:  params.Content,
	})
}

// CircleFeed returns one page of the circle's journals, newest first
func (s *Service) CircleFeed(ctx context.Context, circleID uuid.UUID, params FeedParams) (Feed, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	journals, total, err := s.journalRepo.List(ctx, repository.ListJournalsParams{
		CircleID: circleID,
		Pillar:   params.Pillar,
		Limit:    params.Limit,
		Offset:   (params.Page - 1) * params.Limit,
	})
	if err != nil {
		return Feed{}, err
	}

	return Feed{
		Journals: journals,
		Page:     params.Page,
		Limit:    params.Limit,
		Total:    total,
		Pages:    (total + params.Limit - 1) / params.Limit,
	}, nil
}

// Get returns the journal with its comments. Journals of other circles
// are reported as absent
func (s *Service) Get(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID) (models.Journal, []models.JournalComment, error) {
	journal, err := s.journalRepo.GetByID(ctx, journalID)
	if err != nil {
		return models.Journal{}, nil, err
	}
	if journal.CircleID != circleID {
		return models.Journal{}, nil, fmt.Errorf("journal from different circle: %w", apperrors.ErrJournalNotFound)
	}

	comments, err := s.journalRepo.ListComments(ctx, journalID)
	if err != nil {
		return models.Journal{}, nil, err
	}

	return journal, comments, nil
}

// My returns the user's own journals in the circle
func (s *Service) My(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, params MyParams) ([]models.Journal, error) {
	return s.journalRepo.ListForUser(ctx, repository.ListUserJournalsParams{
		CircleID: circleID,
		UserID:   userID,
		Pillar:   params.Pillar,
		Date:     params.Date,
	})
}

// Delete removes the user's own journal. Journals of others are reported
// as absent, their existence is not revealed
func (s *Service) Delete(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID, userID uuid.UUID) error {
	journal, err := s.journalRepo.GetByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.CircleID != circleID || journal.UserID != userID {
		return fmt.Errorf("journal not owned: %w", apperrors.ErrJournalNotFound)
	}

	return s.journalRepo.Delete(ctx, journalID)
}

// AddComment attaches a comment to a journal of the circle
func (s *Service) AddComment(ctx context.Context, circleID uuid.UUID, journalID uuid.UUID, userID uuid.UUID, content string) (models.JournalComment, error) {
	journal, err := s.journalRepo.GetByID(ctx, journalID)
	if err != nil {
		return models.JournalComment{}, err
	}
	if journal.CircleID != circleID {
		return models.JournalComment{}, fmt.Errorf("journal from different circle: %w", apperrors.ErrJournalNotFound)
	}

	return s.journalRepo.CreateComment(ctx, models.JournalComment{
		ID:        uuid.New(),
		JournalID: journalID,
		UserID:    userID,
		Content:   content,
	})
}

// DeleteComment removes the user's own comment
func (s *Service) DeleteComment(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error {
	comment, err := s.journalRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return fmt.Errorf("comment not owned: %w", apperrors.ErrCommentNotFound)
	}

	return s.journalRepo.DeleteComment(ctx, commentID)
}
