package analytics

import (
	"time"

	"github.com/lukaszraczylo/focus-reports/models"
)

// HeatmapWindowMonths is the default trailing window of the completion
// heatmap.
const HeatmapWindowMonths = 6

// HeatmapDay is one calendar-day bucket of the completion heatmap. Count is
// the day's total breaks, Completed the unskipped ones, Level a 0-4
// intensity derived from the completion ratio.
type HeatmapDay struct {
	Date      time.Time `json:"date"`
	Count     int       `json:"count"`
	Completed int       `json:"completed"`
	Level     int       `json:"level"`
}

// BuildHeatmap buckets sessions into one HeatmapDay per local calendar day,
// covering today minus months (inclusive) through today. Sessions are
// assigned to the local date of their start time. Every day in the window
// appears exactly once, empty days included, so the output length is
// deterministic.
func BuildHeatmap(sessions []*models.Session, months int, now time.Time, loc *time.Location) []HeatmapDay {
	if loc == nil {
		loc = time.Local
	}

	today := models.DayStart(now, loc)
	first := today.AddDate(0, -months, 0)

	type dayCounts struct {
		count     int
		completed int
	}
	counts := make(map[string]*dayCounts)
	for _, session := range sessions {
		if !session.IsBreak() {
			continue
		}
		key := models.DayKey(session.StartTime, loc)
		c, ok := counts[key]
		if !ok {
			c = &dayCounts{}
			counts[key] = c
		}
		c.count++
		if !session.IsSkipped {
			c.completed++
		}
	}

	var days []HeatmapDay
	for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
		entry := HeatmapDay{Date: day}
		if c, ok := counts[models.DayKey(day, loc)]; ok {
			entry.Count = c.count
			entry.Completed = c.completed
		}
		entry.Level = heatmapLevel(entry.Count, entry.Completed)
		days = append(days, entry)
	}

	return days
}

// heatmapLevel maps a day's break counts to a 0-4 intensity: 0 with no
// breaks at all, then 1 through 4 as the completion ratio climbs.
func heatmapLevel(count, completed int) int {
	if count == 0 {
		return 0
	}
	ratio := float64(completed) / float64(count)
	switch {
	case ratio == 0:
		return 1
	case ratio < 0.5:
		return 2
	case ratio < 0.8:
		return 3
	default:
		return 4
	}
}
