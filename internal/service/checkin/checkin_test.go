package checkin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/models"
)

func Test_DailyAverages(t *testing.T) {
	t.Parallel()

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	checkIn := func(date time.Time, score int) models.CheckIn {
		return models.CheckIn{Date: date, Score: score}
	}

	t.Run("empty input", func(t *testing.T) {
		averages := DailyAverages(nil)

		assert.Empty(t, averages)
		assert.NotNil(t, averages, "empty slice has to serialize as [] and not null")
	})

	t.Run("single day", func(t *testing.T) {
		averages := DailyAverages([]models.CheckIn{
			checkIn(day("2025-06-01"), 5),
			checkIn(day("2025-06-01"), 2),
		})

		require.Len(t, averages, 1)
		assert.Equal(t, day("2025-06-01"), averages[0].Date)
		assert.True(t, decimal.NewFromFloat(3.5).Equal(averages[0].Average), "got %s", averages[0].Average)
		assert.Equal(t, 2, averages[0].Count)
	})

	t.Run("average rounds to one decimal", func(t *testing.T) {
		averages := DailyAverages([]models.CheckIn{
			checkIn(day("2025-06-01"), 5),
			checkIn(day("2025-06-01"), 4),
			checkIn(day("2025-06-01"), 1),
		})

		require.Len(t, averages, 1)
		// 10 / 3 = 3.333...
		assert.True(t, decimal.NewFromFloat(3.3).Equal(averages[0].Average), "got %s", averages[0].Average)
		assert.Equal(t, 3, averages[0].Count)
	})

	t.Run("input date order is preserved", func(t *testing.T) {
		averages := DailyAverages([]models.CheckIn{
			checkIn(day("2025-06-01"), 3),
			checkIn(day("2025-06-01"), 5),
			checkIn(day("2025-06-02"), 0),
			checkIn(day("2025-06-03"), 4),
		})

		require.Len(t, averages, 3)

		assert.Equal(t, day("2025-06-01"), averages[0].Date)
		assert.True(t, decimal.NewFromFloat(4).Equal(averages[0].Average), "got %s", averages[0].Average)
		assert.Equal(t, 2, averages[0].Count)

		assert.Equal(t, day("2025-06-02"), averages[1].Date)
		assert.True(t, decimal.Zero.Equal(averages[1].Average), "got %s", averages[1].Average)
		assert.Equal(t, 1, averages[1].Count)

		assert.Equal(t, day("2025-06-03"), averages[2].Date)
		assert.True(t, decimal.NewFromFloat(4).Equal(averages[2].Average), "got %s", averages[2].Average)
		assert.Equal(t, 1, averages[2].Count)
	})
}

func Test_PillarsScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pillars models.Pillars
		want    int
	}{
		{"none held", models.Pillars{}, 0},
		{"all held", models.Pillars{Deen: true, Body: true, Mind: true, Mission: true, Brotherhood: true}, 5},
		{"some held", models.Pillars{Deen: true, Mission: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pillars.Score())
		})
	}
}
