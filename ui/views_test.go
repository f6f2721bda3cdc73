package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lukaszraczylo/focus-reports/analytics"
)

// TestSummaryTextInformalRest verifies inferred rest shows up as its own line
// and is hidden when there is none
func TestSummaryTextInformalRest(t *testing.T) {
	day := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	view := analytics.AggregateView{
		TotalWorkSeconds:  7200,
		TotalBreakSeconds: 1800,
		BreakCount:        1,
		CompletedBreaks:   1,
		CompletionRate:    100,
	}
	score := analytics.ScoreDay(analytics.DayStats{
		WorkSeconds:       7200,
		MaxContinuousWork: 3600,
		BreakCount:        1,
	})

	text := summaryText(day, view, 3600, score, 600)
	assert.Contains(t, text, "Informal rest")
	assert.Contains(t, text, "10m 0s")

	text = summaryText(day, view, 3600, score, 0)
	assert.NotContains(t, text, "Informal rest")
}

// TestSummaryTextPenaltyTrail verifies the itemized penalty lines
func TestSummaryTextPenaltyTrail(t *testing.T) {
	day := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	view := analytics.AggregateView{TotalWorkSeconds: 21600}
	score := analytics.ScoreDay(analytics.DayStats{
		WorkSeconds:       21600,
		MaxContinuousWork: 5400,
	})

	text := summaryText(day, view, 5400, score, 0)
	assert.Contains(t, text, "continuous work   -10")
	assert.Contains(t, text, "screen time       -15")
}
