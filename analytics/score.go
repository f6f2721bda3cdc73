package analytics

// Daily score constants. The score starts at ScoreMax and loses points in
// steps: 5 points per full 40 minutes of uninterrupted work, and once total
// screen time passes 4 hours, a 5-point base plus 10 points per additional
// full 2 hours. The total penalty never pushes the score below ScoreMin.
const (
	ScoreMax = 100
	ScoreMin = 20

	continuousStepSeconds  int64 = 2400 // 40 minutes
	continuousStepPenalty        = 5
	screenTimeBaseSeconds  int64 = 14400 // 4 hours
	screenTimeBasePenalty        = 5
	screenTimeStepSeconds  int64 = 7200 // 2 hours
	screenTimeStepPenalty        = 10

	// MinMeaningfulWorkSeconds is the least recorded work for a day with no
	// breaks to still appear in reports.
	MinMeaningfulWorkSeconds int64 = 60
)

// ScoreLevel is the qualitative rating of a daily score.
type ScoreLevel string

const (
	ScoreLevelExcellent ScoreLevel = "excellent"
	ScoreLevelGood      ScoreLevel = "good"
	ScoreLevelFair      ScoreLevel = "fair"
	ScoreLevelPoor      ScoreLevel = "poor"
)

// DayStats is the input to the daily scorer: one day's total work seconds,
// the day's longest focus stretch, and how many breaks were recorded.
type DayStats struct {
	WorkSeconds       int64
	MaxContinuousWork int64
	BreakCount        int
}

// HasMeaningfulActivity reports whether the day carries enough activity to be
// worth a report card. Under a minute of work with zero breaks is noise.
func (d DayStats) HasMeaningfulActivity() bool {
	return d.WorkSeconds >= MinMeaningfulWorkSeconds || d.BreakCount > 0
}

// ScoreDetails carries the score together with every intermediate of the
// penalty calculation, so callers can render an itemized breakdown without
// re-deriving it.
type ScoreDetails struct {
	Score int        `json:"score"`
	Level ScoreLevel `json:"level"`

	ContinuousSteps    int  `json:"continuousSteps"`
	ContinuousPenalty  int  `json:"continuousPenalty"`
	ScreenBasePenalty  int  `json:"screenBasePenalty"`
	ScreenExtraSteps   int  `json:"screenExtraSteps"`
	ScreenExtraPenalty int  `json:"screenExtraPenalty"`
	RawPenalty         int  `json:"rawPenalty"`
	AppliedPenalty     int  `json:"appliedPenalty"`
	Capped             bool `json:"capped"`
}

// ScoreDay maps one day's stats to a bounded score in [ScoreMin, ScoreMax]
// with a reproducible penalty trail.
func ScoreDay(stats DayStats) ScoreDetails {
	var details ScoreDetails

	details.ContinuousSteps = int(stats.MaxContinuousWork / continuousStepSeconds)
	details.ContinuousPenalty = details.ContinuousSteps * continuousStepPenalty

	if stats.WorkSeconds > screenTimeBaseSeconds {
		details.ScreenBasePenalty = screenTimeBasePenalty
		details.ScreenExtraSteps = int((stats.WorkSeconds - screenTimeBaseSeconds) / screenTimeStepSeconds)
		details.ScreenExtraPenalty = details.ScreenExtraSteps * screenTimeStepPenalty
	}

	details.RawPenalty = details.ContinuousPenalty + details.ScreenBasePenalty + details.ScreenExtraPenalty
	details.AppliedPenalty = details.RawPenalty
	if details.AppliedPenalty > ScoreMax-ScoreMin {
		details.AppliedPenalty = ScoreMax - ScoreMin
		details.Capped = true
	}

	details.Score = ScoreMax - details.AppliedPenalty
	details.Level = levelForScore(details.Score)

	return details
}

func levelForScore(score int) ScoreLevel {
	switch {
	case score >= 80:
		return ScoreLevelExcellent
	case score >= 60:
		return ScoreLevelGood
	case score >= 40:
		return ScoreLevelFair
	default:
		return ScoreLevelPoor
	}
}
