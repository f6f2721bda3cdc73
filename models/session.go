package models

import (
	"fmt"
	"time"
)

// SessionType represents the kind of a recorded interval
type SessionType string

const (
	// SessionTypeWork represents a focused work interval
	SessionTypeWork SessionType = "work"
	// SessionTypeBreak represents a rest interval
	SessionTypeBreak SessionType = "break"
)

// Reserved values for the Notes field. The timer subsystem marks sessions
// that were cut short by a power/suspend event, and the gap synthesizer
// marks the rest sessions it infers.
const (
	// NotePowerInterruptBreak marks a break ended early by a power event
	NotePowerInterruptBreak = "power-interrupt-break"
	// NotePowerInterruptWork marks a work session ended early by a power event
	NotePowerInterruptWork = "power-interrupt-work"
	// NoteMoreRest marks a synthetic rest session inferred from a gap
	NoteMoreRest = "more-rest"
)

// Session represents a single recorded work or break interval. Sessions are
// created by the timer subsystem and never mutated here; every derived view
// is a pure function of a session list plus a time window.
type Session struct {
	ID              string      `json:"id"`
	Type            SessionType `json:"type"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	Duration        int64       `json:"duration"`        // actual elapsed seconds
	PlannedDuration int64       `json:"plannedDuration"` // scheduled seconds
	IsSkipped       bool        `json:"isSkipped"`
	ExtendedSeconds int64       `json:"extendedSeconds"`
	Notes           string      `json:"notes,omitempty"`
}

// Seconds returns the actual duration of the session in seconds. A stored
// duration takes precedence; otherwise it is derived from the interval.
// Malformed intervals (end before start) clamp to zero rather than going
// negative.
func (s *Session) Seconds() int64 {
	if s.Duration > 0 {
		return s.Duration
	}
	diff := int64(s.EndTime.Sub(s.StartTime) / time.Second)
	if diff < 0 {
		return 0
	}
	return diff
}

// OverlapSeconds returns how many seconds of the session fall inside the
// half-open window [r0, r1).
func (s *Session) OverlapSeconds(r0, r1 time.Time) int64 {
	start := s.StartTime
	if start.Before(r0) {
		start = r0
	}
	end := s.EndTime
	if end.After(r1) {
		end = r1
	}
	overlap := int64(end.Sub(start) / time.Second)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// IsWork reports whether the session is a work interval.
func (s *Session) IsWork() bool {
	return s.Type == SessionTypeWork
}

// IsBreak reports whether the session is a rest interval.
func (s *Session) IsBreak() bool {
	return s.Type == SessionTypeBreak
}

// NewGapSession builds a synthetic rest session covering [start, end).
// The ID is derived from the gap boundaries so repeated synthesis of the
// same gap yields the same session.
func NewGapSession(start, end time.Time) *Session {
	gap := int64(end.Sub(start) / time.Second)
	if gap < 0 {
		gap = 0
	}
	return &Session{
		ID:              fmt.Sprintf("more-rest-%d-%d", start.Unix(), end.Unix()),
		Type:            SessionTypeBreak,
		StartTime:       start,
		EndTime:         end,
		Duration:        gap,
		PlannedDuration: gap,
		IsSkipped:       false,
		Notes:           NoteMoreRest,
	}
}

// DayStart truncates t to local midnight in the given location.
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayKey returns the local calendar date of t formatted as 2006-01-02.
// Heatmap and report feed bucket sessions by this key.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// FormatSeconds formats a second count in a human-readable form
func FormatSeconds(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}

	secs := seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}

	return fmt.Sprintf("%ds", secs)
}
