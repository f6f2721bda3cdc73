package analytics

import (
	"math"
	"time"

	"github.com/lukaszraczylo/focus-reports/models"
)

// AggregateView summarizes a session list over a single time window. All
// totals are seconds; minutes would accumulate rounding drift when views are
// chained.
type AggregateView struct {
	TotalWorkSeconds  int64 `json:"totalWorkSeconds"`
	TotalBreakSeconds int64 `json:"totalBreakSeconds"`
	BreakCount        int   `json:"breakCount"`
	CompletedBreaks   int   `json:"completedBreaks"`
	SkippedBreaks     int   `json:"skippedBreaks"`
	CompletionRate    int   `json:"completionRate"` // 0-100
}

// Aggregate computes the aggregate view of sessions over the half-open
// window [r0, r1). Only the clipped overlap of each session with the window
// contributes; a break counts toward BreakCount once if it has any overlap,
// regardless of skip state. CompletionRate is 0 when there are no breaks.
func Aggregate(sessions []*models.Session, r0, r1 time.Time) AggregateView {
	var view AggregateView

	for _, session := range sessions {
		overlap := session.OverlapSeconds(r0, r1)
		if overlap <= 0 {
			continue
		}

		switch session.Type {
		case models.SessionTypeWork:
			view.TotalWorkSeconds += overlap
		case models.SessionTypeBreak:
			view.TotalBreakSeconds += overlap
			view.BreakCount++
			if session.IsSkipped {
				view.SkippedBreaks++
			} else {
				view.CompletedBreaks++
			}
		}
	}

	if view.BreakCount > 0 {
		view.CompletionRate = int(math.Round(float64(view.CompletedBreaks) / float64(view.BreakCount) * 100))
	}

	return view
}
