package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszraczylo/focus-reports/models"
)

func workSession(id string, start time.Time, minutes int) *models.Session {
	return &models.Session{
		ID:        id,
		Type:      models.SessionTypeWork,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Duration:  int64(minutes) * 60,
	}
}

func breakSession(id string, start time.Time, minutes int, planned int64, skipped bool) *models.Session {
	return &models.Session{
		ID:              id,
		Type:            models.SessionTypeBreak,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		Duration:        int64(minutes) * 60,
		PlannedDuration: planned,
		IsSkipped:       skipped,
	}
}

func TestAugmentWithGapsFillsWorkToWorkGap(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),                   // 09:00-10:00
		workSession("w2", base.Add(70*time.Minute), 60), // 10:10-11:10
	}

	augmented := AugmentWithGaps(sessions, true)

	require.Len(t, augmented, 3)
	gap := augmented[1]
	assert.Equal(t, models.SessionTypeBreak, gap.Type)
	assert.Equal(t, models.NoteMoreRest, gap.Notes)
	assert.Equal(t, int64(600), gap.Duration)
	assert.Equal(t, base.Add(60*time.Minute), gap.StartTime)
	assert.Equal(t, base.Add(70*time.Minute), gap.EndTime)
}

func TestAugmentWithGapsPredicate(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prev     *models.Session
		next     *models.Session
		expected bool
	}{
		{
			name:     "work to work",
			prev:     workSession("a", base, 30),
			next:     workSession("b", base.Add(40*time.Minute), 30),
			expected: true,
		},
		{
			name: "power-interrupted work is ambiguous",
			prev: func() *models.Session {
				s := workSession("a", base, 30)
				s.Notes = models.NotePowerInterruptWork
				return s
			}(),
			next:     workSession("b", base.Add(40*time.Minute), 30),
			expected: false,
		},
		{
			name: "power-interrupted break is real rest",
			prev: func() *models.Session {
				s := breakSession("a", base, 2, 300, false)
				s.Notes = models.NotePowerInterruptBreak
				return s
			}(),
			next:     workSession("b", base.Add(10*time.Minute), 30),
			expected: true,
		},
		{
			name:     "break to work",
			prev:     breakSession("a", base, 5, 300, false),
			next:     workSession("b", base.Add(15*time.Minute), 30),
			expected: false,
		},
		{
			name:     "work to break",
			prev:     workSession("a", base, 30),
			next:     breakSession("b", base.Add(40*time.Minute), 5, 300, false),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			augmented := AugmentWithGaps([]*models.Session{tc.prev, tc.next}, true)
			if tc.expected {
				assert.Len(t, augmented, 3)
			} else {
				assert.Len(t, augmented, 2)
			}
		})
	}
}

func TestAugmentWithGapsDisabled(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w2", base.Add(2*time.Hour), 60),
		workSession("w1", base, 60),
	}

	augmented := AugmentWithGaps(sessions, false)

	// Disabled: nothing synthesized, but output is sorted
	require.Len(t, augmented, 2)
	assert.Equal(t, "w1", augmented[0].ID)
	assert.Equal(t, "w2", augmented[1].ID)
}

func TestAugmentWithGapsEmptyInput(t *testing.T) {
	assert.Empty(t, AugmentWithGaps(nil, true))
}

func TestAugmentWithGapsSkipsTouchingSessions(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		workSession("w2", base.Add(60*time.Minute), 60), // back to back
	}

	assert.Len(t, AugmentWithGaps(sessions, true), 2)
}

func TestAugmentWithGapsIdempotent(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		workSession("w2", base.Add(75*time.Minute), 60),
		workSession("w3", base.Add(150*time.Minute), 60),
	}

	once := AugmentWithGaps(sessions, true)
	twice := AugmentWithGaps(once, true)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].ID, twice[i].ID)
	}
}

func TestGapSecondsMatchesSynthesizedTotal(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		workSession("w1", base, 60),
		workSession("w2", base.Add(70*time.Minute), 60),  // 10 min gap
		workSession("w3", base.Add(145*time.Minute), 60), // 15 min gap
	}

	assert.Equal(t, int64(1500), GapSeconds(sessions))
}
