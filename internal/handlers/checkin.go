package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/think3er/ippo-backend/internal/handlers/authctx"
	"github.com/think3er/ippo-backend/internal/handlers/render"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/models"
	"github.com/think3er/ippo-backend/internal/service/checkin"
)

const dateLayout = "2006-01-02"

type CheckInService interface {
	Upsert(ctx context.Context, userID uuid.UUID, circleID uuid.UUID, params checkin.UpsertParams) (models.CheckIn, error)
	DayFeed(ctx context.Context, circleID uuid.UUID, date time.Time) ([]models.CheckIn, error)
	RangeFeed(ctx context.Context, circleID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, []models.DailyAverage, error)
	History(ctx context.Context, circleID uuid.UUID, userID uuid.UUID, start time.Time, end time.Time) ([]models.CheckIn, error)
}

type CheckInHandler struct {
	checkIns CheckInService
	logger   logger.Logger
}

func NewCheckIn(checkIns CheckInService, logger logger.Logger) *CheckInHandler {
	return &CheckInHandler{checkIns: checkIns, logger: logger}
}

type checkInJSON struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	User        models.UserRef `json:"user"`
	Date        string         `json:"date"`
	Score       int            `json:"score"`
	Deen        bool           `json:"deen"`
	Body        bool           `json:"body"`
	Mind        bool           `json:"mind"`
	Mission     bool           `json:"mission"`
	Brotherhood bool           `json:"brotherhood"`
	NotePrivate *string        `json:"notePrivate,omitempty"`
}

// toCheckInJSON keeps the private note for its author only
func toCheckInJSON(ci models.CheckIn, viewerID uuid.UUID) checkInJSON {
	out := checkInJSON{
		ID:          ci.ID,
		UserID:      ci.UserID,
		User:        ci.User,
		Date:        ci.Date.Format(dateLayout),
		Score:       ci.Score,
		Deen:        ci.Pillars.Deen,
		Body:        ci.Pillars.Body,
		Mind:        ci.Pillars.Mind,
		Mission:     ci.Pillars.Mission,
		Brotherhood: ci.Pillars.Brotherhood,
	}
	if ci.UserID == viewerID {
		out.NotePrivate = ci.NotePrivate
	}
	return out
}

func (h *CheckInHandler) upsert(w http.ResponseWriter, r *http.Request) {
	type CheckInRequest struct {
		Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
		Deen        bool    `json:"deen"`
		Body        bool    `json:"body"`
		Mind        bool    `json:"mind"`
		Mission     bool    `json:"mission"`
		Brotherhood bool    `json:"brotherhood"`
		NotePrivate *string `json:"notePrivate" validate:"omitempty,max=2000"`
	}
	type CheckInResponse struct {
		CheckIn checkInJSON `json:"checkIn"`
	}

	data, err := render.BindAndValidate[CheckInRequest](w, r)
	if err != nil {
		return
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	date, _ := time.Parse(dateLayout, data.Date)
	saved, err := h.checkIns.Upsert(r.Context(), member.UserID, member.CircleID, checkin.UpsertParams{
		Date: date,
		Pillars: models.Pillars{
			Deen:        data.Deen,
			Body:        data.Body,
			Mind:        data.Mind,
			Mission:     data.Mission,
			Brotherhood: data.Brotherhood,
		},
		NotePrivate: data.NotePrivate,
	})
	if err != nil {
		h.logger.Error("check-in upsert failed", "error", err.Error())
		render.Internal(w)
		return
	}

	render.JSON(w, CheckInResponse{CheckIn: toCheckInJSON(saved, member.UserID)})
}

func (h *CheckInHandler) dayFeed(w http.ResponseWriter, r *http.Request) {
	type DayFeedResponse struct {
		Date     string        `json:"date"`
		CheckIns []checkInJSON `json:"checkIns"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			render.ValidationFailed(w, "date", "Date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	checkIns, err := h.checkIns.DayFeed(r.Context(), member.CircleID, date)
	if err != nil {
		h.logger.Error("check-in day feed failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]checkInJSON, 0, len(checkIns))
	for _, ci := range checkIns {
		out = append(out, toCheckInJSON(ci, member.UserID))
	}
	render.JSON(w, DayFeedResponse{Date: date.Format(dateLayout), CheckIns: out})
}

func (h *CheckInHandler) rangeFeed(w http.ResponseWriter, r *http.Request) {
	type dailyAverageJSON struct {
		Date    string  `json:"date"`
		Average float64 `json:"average"`
		Count   int     `json:"count"`
	}
	type RangeFeedResponse struct {
		Start         string             `json:"start"`
		End           string             `json:"end"`
		CheckIns      []checkInJSON      `json:"checkIns"`
		DailyAverages []dailyAverageJSON `json:"dailyAverages"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	checkIns, averages, err := h.checkIns.RangeFeed(r.Context(), member.CircleID, start, end)
	if err != nil {
		h.logger.Error("check-in range feed failed", "error", err.Error())
		render.Internal(w)
		return
	}

	outCheckIns := make([]checkInJSON, 0, len(checkIns))
	for _, ci := range checkIns {
		outCheckIns = append(outCheckIns, toCheckInJSON(ci, member.UserID))
	}
	outAverages := make([]dailyAverageJSON, 0, len(averages))
	for _, avg := range averages {
		average, _ := avg.Average.Float64()
		outAverages = append(outAverages, dailyAverageJSON{
			Date:    avg.Date.Format(dateLayout),
			Average: average,
			Count:   avg.Count,
		})
	}
	render.JSON(w, RangeFeedResponse{
		Start:         start.Format(dateLayout),
		End:           end.Format(dateLayout),
		CheckIns:      outCheckIns,
		DailyAverages: outAverages,
	})
}

func (h *CheckInHandler) myHistory(w http.ResponseWriter, r *http.Request) {
	type HistoryResponse struct {
		CheckIns []checkInJSON `json:"checkIns"`
	}

	member, ok := authctx.MemberFrom(r.Context())
	if !ok {
		render.Internal(w)
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	checkIns, err := h.checkIns.History(r.Context(), member.CircleID, member.UserID, start, end)
	if err != nil {
		h.logger.Error("check-in history failed", "error", err.Error())
		render.Internal(w)
		return
	}

	out := make([]checkInJSON, 0, len(checkIns))
	for _, ci := range checkIns {
		out = append(out, toCheckInJSON(ci, member.UserID))
	}
	render.JSON(w, HistoryResponse{CheckIns: out})
}

// parseRange reads the mandatory start/end query params, writes the
// validation response itself and reports success in the last result
func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		render.ValidationFailed(w, "start", "Date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		render.ValidationFailed(w, "end", "Date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		render.ValidationFailed(w, "end", "End date must not be before start date")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
