// Package analytics derives productivity reports from raw session intervals:
// windowed aggregates, a longest-focus-stretch metric, a bounded daily score
// with an itemized penalty trail, a completion heatmap, and a backward
// paginated report feed. All computation here is pure; only the report feed
// touches I/O through its session source.
package analytics

import (
	"sort"
	"time"

	"github.com/lukaszraczylo/focus-reports/models"
)

// sortedByStart returns a copy of sessions ordered by start time.
func sortedByStart(sessions []*models.Session) []*models.Session {
	ordered := make([]*models.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})
	return ordered
}

// shouldFillGap decides whether the idle time between prev and next counts as
// informal rest. Gaps across a power interruption in work are ambiguous (the
// machine may have been off) and are left alone; a gap right after a
// power-interrupted break is real rest, since the interruption ended the
// break early.
func shouldFillGap(prev, next *models.Session) bool {
	if prev.Notes == models.NotePowerInterruptBreak {
		return true
	}
	return prev.IsWork() && next.IsWork() && prev.Notes != models.NotePowerInterruptWork
}

// AugmentWithGaps inserts synthetic "more rest" break sessions into qualifying
// time gaps between sessions, so downstream aggregates reflect rest the user
// took without the app's break flow. With enabled false or fewer than two
// sessions the input is returned sorted but otherwise unchanged. The
// operation is idempotent: synthetic sessions abut their neighbors, so a
// second pass finds no remaining qualifying gap.
func AugmentWithGaps(sessions []*models.Session, enabled bool) []*models.Session {
	ordered := sortedByStart(sessions)
	if !enabled || len(ordered) < 2 {
		return ordered
	}

	augmented := make([]*models.Session, 0, len(ordered))
	for i, session := range ordered {
		augmented = append(augmented, session)
		if i+1 >= len(ordered) {
			break
		}
		next := ordered[i+1]
		gap := next.StartTime.Sub(session.EndTime)
		if gap <= 0 {
			continue
		}
		if !shouldFillGap(session, next) {
			continue
		}
		augmented = append(augmented, models.NewGapSession(session.EndTime, next.StartTime))
	}

	sort.SliceStable(augmented, func(i, j int) bool {
		return augmented[i].StartTime.Before(augmented[j].StartTime)
	})
	return augmented
}

// GapSeconds returns the total seconds of informal rest that AugmentWithGaps
// would synthesize, without materializing the sessions.
func GapSeconds(sessions []*models.Session) int64 {
	ordered := sortedByStart(sessions)

	var total int64
	for i := 0; i+1 < len(ordered); i++ {
		prev, next := ordered[i], ordered[i+1]
		gap := int64(next.StartTime.Sub(prev.EndTime) / time.Second)
		if gap <= 0 {
			continue
		}
		if !shouldFillGap(prev, next) {
			continue
		}
		total += gap
	}
	return total
}
