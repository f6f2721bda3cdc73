package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/lukaszraczylo/focus-reports/analytics"
	"github.com/lukaszraczylo/focus-reports/models"
)

// renderSummary fills the summary page with today's aggregate view and score
func (ui *ReportsUI) renderSummary() {
	now := time.Now()
	dayStart := models.DayStart(now, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	raw := ui.querySessions(dayStart, dayEnd)
	var informalRest int64
	if ui.cfg.MoreRestEnabled {
		informalRest = analytics.GapSeconds(raw)
	}
	sessions := analytics.AugmentWithGaps(raw, ui.cfg.MoreRestEnabled)

	view := analytics.Aggregate(sessions, dayStart, dayEnd)
	longest := analytics.MaxContinuousWork(sessions)
	score := analytics.ScoreDay(analytics.DayStats{
		WorkSeconds:       view.TotalWorkSeconds,
		MaxContinuousWork: longest,
		BreakCount:        view.BreakCount,
	})

	ui.summaryView.SetText(summaryText(dayStart, view, longest, score, informalRest))
}

// summaryText renders the summary page body. informalRest is the portion of
// break time inferred from idle gaps; zero hides the line.
func summaryText(dayStart time.Time, view analytics.AggregateView, longest int64, score analytics.ScoreDetails, informalRest int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", dayStart.Format("Monday, January 2"))
	fmt.Fprintf(&b, "  Work time:        %s\n", models.FormatSeconds(view.TotalWorkSeconds))
	fmt.Fprintf(&b, "  Break time:       %s\n", models.FormatSeconds(view.TotalBreakSeconds))
	if informalRest > 0 {
		fmt.Fprintf(&b, "  Informal rest:    %s\n", models.FormatSeconds(informalRest))
	}
	fmt.Fprintf(&b, "  Breaks:           %d taken, %d completed, %d skipped\n",
		view.BreakCount, view.CompletedBreaks, view.SkippedBreaks)
	fmt.Fprintf(&b, "  Completion rate:  %d%%\n", view.CompletionRate)
	fmt.Fprintf(&b, "  Longest focus:    %s\n\n", models.FormatSeconds(longest))
	fmt.Fprintf(&b, "  Score:            [::b]%d[-:-:-] / %d (%s)\n", score.Score, analytics.ScoreMax, score.Level)

	if score.ContinuousPenalty > 0 {
		fmt.Fprintf(&b, "    continuous work   -%d\n", score.ContinuousPenalty)
	}
	if score.ScreenBasePenalty+score.ScreenExtraPenalty > 0 {
		fmt.Fprintf(&b, "    screen time       -%d\n", score.ScreenBasePenalty+score.ScreenExtraPenalty)
	}
	if score.Capped {
		fmt.Fprintf(&b, "    penalty capped at %d\n", analytics.ScoreMax-analytics.ScoreMin)
	}

	return b.String()
}

// Heatmap level colors, index 0-4
var heatmapColors = []string{"#2d333b", "#f85149", "#9e6a03", "#d29922", "#3fb950"}

// renderHeatmap fills the heatmap page with the trailing 6-month window
func (ui *ReportsUI) renderHeatmap() {
	now := time.Now()
	start := models.DayStart(now, time.Local).AddDate(0, -analytics.HeatmapWindowMonths, 0)

	sessions := analytics.AugmentWithGaps(ui.querySessions(start, now), ui.cfg.MoreRestEnabled)
	days := analytics.BuildHeatmap(sessions, analytics.HeatmapWindowMonths, now, time.Local)

	var b strings.Builder
	b.WriteString("\n  ")
	for i, day := range days {
		fmt.Fprintf(&b, "[%s]■[-]", heatmapColors[day.Level])
		if day.Date.Weekday() == time.Sunday {
			fmt.Fprintf(&b, "  %s\n  ", day.Date.Format("Jan 02"))
		} else if i == len(days)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n  none ")
	for level := 0; level <= 4; level++ {
		fmt.Fprintf(&b, "[%s]■[-] ", heatmapColors[level])
	}
	b.WriteString("all breaks completed\n")

	ui.heatmapView.SetText(b.String())
}
