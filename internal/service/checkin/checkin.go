package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/repository"
)

type UpsertParams struct {
	Date        time.Time
	Pillars     models.Pillars
	NotePrivate *string
}

type Service struct {
	checkInRepo repository.CheckInRepo
}

func NewService(checkInRepo repository.CheckInRepo) *Service {
	return &Service{checkInRepo: checkInRepo}
}

// Upsert records the user's check-in for the day, overwriting an earlier one
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, circleID uuid.UUID, params UpsertParams) (models.CheckIn, error) {
	return s.checkInRepo.Upsert(ctx, repository.UpsertCheckInParams{
		UserID:      userID,
		CircleID:    circleID,
		Date:        params.Date,
		Pillars:     params.Pillars,
		Score:       params.Pillars.Score(),
		NotePrivate: params.NotePrivate,
	})
}

// DayFeed returns every member's check-in for the date
func (s *Service) DayFeed(ctx context.Context, circleID uuid.UUID, date time.Time) ([]models.CheckIn, error) {
	return s.checkInRepo.ListForDate(ctx, circleID, date)
}

// RangeFeed returns the circle's check-ins for the range plus per-day averages
func (s *Service) RangeFeed(ctx context.Context, circleID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, []models.DailyAverage, error) {
	checkIns, err := s.checkInRepo.ListRange(ctx, circleID, start, end)
	if err != nil {
		return nil, nil, err
	}

	return checkIns, DailyAverages(checkIns), nil
}

// History returns the user's own check-ins for the range
func (s *Service) History(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error) {
	return s.checkInRepo.ListUserRange(ctx, circleID, userID, start, end)
}

// DailyAverages groups check-ins by date and averages the scores,
// rounded to one decimal place. Input order by date is preserved
func DailyAverages(checkIns []models.CheckIn) []models.DailyAverage {
	sums := map[time.Time]int64{}
	counts := map[time.Time]int64{}
	order := []time.Time{}

	for _, ci := range checkIns {
		if _, seen := counts[ci.Date]; !seen {
			order = append(order, ci.Date)
		}
		sums[ci.Date] += int64(ci.Score)
		counts[ci.Date]++
	}

	averages := make([]models.DailyAverage, 0, len(order))
	for _, date := range order {
		avg := decimal.NewFromInt(sums[date]).
			Div(decimal.NewFromInt(counts[date])).
			Round(1)
		averages = append(averages, models.DailyAverage{
			Date:    date,
			Average: avg,
			Count:   int(counts[date]),
		})
	}

	return averages
}
