package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pillars of a daily check-in
type Pillars struct {
	Deen        bool
	Body        bool
	Mind        bool
	Mission     bool
	Brotherhood bool
}

// Score counts the pillars held that day
func (p Pillars) Score() int {
	score := 0
	for _, held := range []bool{p.Deen, p.Body, p.Mind, p.Mission, p.Brotherhood} {
		if held {
			score++
		}
	}
	return score
}

type CheckIn struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CircleID    uuid.UUID
	Date        time.Time
	Pillars     Pillars
	Score       int
	NotePrivate *string
	CreatedAt   time.Time

	User UserRef
}

// Average circle score for one day of a range feed
type DailyAverage struct {
	Date    time.Time
	Average decimal.Decimal
	Count   int
}
