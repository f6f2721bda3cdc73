package analytics

import (
	"time"

	"github.com/lukaszraczylo/focus-reports/models"
)

// MinEffectiveBreakSeconds is the shortest rest, recorded or idle, that
// interrupts a focus streak. A break also has to reach at least half its
// planned length to count as genuine rest.
const MinEffectiveBreakSeconds int64 = 180

// effectiveBreakThreshold returns the minimum actual duration for a break
// session to reset the focus streak: half the planned length, rounded up.
func effectiveBreakThreshold(planned int64) int64 {
	threshold := (planned + 1) / 2
	if threshold < MinEffectiveBreakSeconds {
		return MinEffectiveBreakSeconds
	}
	return threshold
}

// MaxContinuousWork returns the longest unbroken stretch of work, in seconds,
// within the session list. Input order does not matter; sessions are sorted
// by start time before the single forward pass. An idle gap of at least
// MinEffectiveBreakSeconds between sessions resets the streak even when no
// break session was recorded. Breaks shorter than their effective threshold
// leave the streak intact.
func MaxContinuousWork(sessions []*models.Session) int64 {
	ordered := sortedByStart(sessions)

	var currentWork, maxWork int64
	var previousEnd time.Time

	for _, session := range ordered {
		if !previousEnd.IsZero() {
			idle := int64(session.StartTime.Sub(previousEnd) / time.Second)
			if idle >= MinEffectiveBreakSeconds {
				currentWork = 0
			}
		}

		switch session.Type {
		case models.SessionTypeBreak:
			if session.Seconds() >= effectiveBreakThreshold(session.PlannedDuration) {
				currentWork = 0
			}
		case models.SessionTypeWork:
			currentWork += session.Seconds()
			if currentWork > maxWork {
				maxWork = currentWork
			}
		}

		previousEnd = session.EndTime
	}

	return maxWork
}
