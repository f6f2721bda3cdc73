package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lukaszraczylo/focus-reports/models"
)

func TestMaxContinuousWorkEmpty(t *testing.T) {
	assert.Equal(t, int64(0), MaxContinuousWork(nil))
}

func TestMaxContinuousWorkSingleSession(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(5400), MaxContinuousWork([]*models.Session{
		workSession("w", base, 90),
	}))
}

// Gap below the 180s idle threshold does not reset the streak.
func TestMaxContinuousWorkShortGapKeepsStreak(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),                    // 09:00-10:00
		workSession("w2", base.Add(62*time.Minute), 58), // 10:02-11:00, 120s gap
	}

	assert.Equal(t, int64(7080), MaxContinuousWork(sessions))
}

func TestMaxContinuousWorkIdleGapResets(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		workSession("w2", base.Add(65*time.Minute), 30), // 300s gap, counts as a break
	}

	assert.Equal(t, int64(3600), MaxContinuousWork(sessions))
}

func TestMaxContinuousWorkEffectiveBreakResets(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		breakSession("b", base.Add(60*time.Minute), 5, 300, false), // 300s >= max(180, 150)
		workSession("w2", base.Add(65*time.Minute), 30),
	}

	assert.Equal(t, int64(3600), MaxContinuousWork(sessions))
}

// A break under half its planned length and under 3 minutes is too short to
// interrupt the streak.
func TestMaxContinuousWorkShortBreakKeepsStreak(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		breakSession("b", base.Add(60*time.Minute), 2, 600, true), // 120s < max(180, 300)
		workSession("w2", base.Add(62*time.Minute), 30),
	}

	assert.Equal(t, int64(5400), MaxContinuousWork(sessions))
}

// A long planned break raises the reset threshold to half its planned length.
func TestMaxContinuousWorkPlannedThreshold(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		breakSession("b", base.Add(60*time.Minute), 4, 600, false), // 240s < 300s threshold
		workSession("w2", base.Add(64*time.Minute), 30),
	}

	assert.Equal(t, int64(5400), MaxContinuousWork(sessions))
}

// Half the planned length rounds up: against a 361s plan the threshold is
// 181s, so a 180s break falls just short and keeps the streak.
func TestMaxContinuousWorkOddPlannedThresholdRoundsUp(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		{
			ID:              "b",
			Type:            models.SessionTypeBreak,
			StartTime:       base.Add(60 * time.Minute),
			EndTime:         base.Add(63 * time.Minute),
			Duration:        180,
			PlannedDuration: 361,
		},
		workSession("w2", base.Add(63*time.Minute), 30),
	}

	assert.Equal(t, int64(5400), MaxContinuousWork(sessions))
}

func TestMaxContinuousWorkSortsInput(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w2", base.Add(time.Minute*61), 60),
		workSession("w1", base, 60),
	}

	// 60s gap, below threshold: one continuous 2h stretch
	assert.Equal(t, int64(7200), MaxContinuousWork(sessions))
}

func TestMaxContinuousWorkZeroLengthSessions(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	zero := &models.Session{
		ID:        "z",
		Type:      models.SessionTypeWork,
		StartTime: base.Add(30 * time.Minute),
		EndTime:   base.Add(30 * time.Minute),
	}
	sessions := []*models.Session{
		workSession("w1", base, 60),
		zero,
	}

	assert.Equal(t, int64(3600), MaxContinuousWork(sessions))
}

func TestMaxContinuousWorkPicksLargestStretch(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 30),
		breakSession("b1", base.Add(30*time.Minute), 10, 300, false),
		workSession("w2", base.Add(40*time.Minute), 90),
		breakSession("b2", base.Add(130*time.Minute), 10, 300, false),
		workSession("w3", base.Add(140*time.Minute), 45),
	}

	assert.Equal(t, int64(5400), MaxContinuousWork(sessions))
}
