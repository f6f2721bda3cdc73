package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/lukaszraczylo/focus-reports/analytics"
	"github.com/lukaszraczylo/focus-reports/models"
)

var reportColumns = []string{"Date", "Score", "Level", "Work", "Breaks", "Rate", "Longest focus"}

// resetReportsTable clears the report list back to its header row
func (ui *ReportsUI) resetReportsTable() {
	ui.reportsTable.Clear()
	for col, name := range reportColumns {
		ui.reportsTable.SetCell(0, col, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
}

// loadMoreReports fetches the next feed page off the UI goroutine and
// appends the cards once it resolves. Results superseded by a refresh are
// silently dropped; a failed fetch keeps the feed retryable on the next
// scroll.
func (ui *ReportsUI) loadMoreReports() {
	go func() {
		cards, exhausted, err := ui.feed.LoadMore(context.Background())
		if err != nil {
			if errors.Is(err, analytics.ErrSuperseded) {
				return
			}
			log.Warn().Err(err).Msg("ui: report page load failed")
			return
		}

		ui.app.QueueUpdateDraw(func() {
			ui.appendReportCards(cards)
			ui.exhausted = exhausted
			if exhausted {
				ui.reportsTable.SetTitle(" Daily reports (complete) ")
			}
		})
	}()
}

// appendReportCards adds one page of cards below the existing rows
func (ui *ReportsUI) appendReportCards(cards []analytics.ReportCard) {
	row := ui.reportsTable.GetRowCount()
	for _, card := range cards {
		ui.reportsTable.SetCell(row, 0, tview.NewTableCell(card.Date.Format("2006-01-02")))
		ui.reportsTable.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%d", card.Score.Score)).
			SetTextColor(scoreColor(card.Score.Level)))
		ui.reportsTable.SetCell(row, 2, tview.NewTableCell(string(card.Score.Level)))
		ui.reportsTable.SetCell(row, 3, tview.NewTableCell(models.FormatSeconds(card.WorkSeconds)))
		ui.reportsTable.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%d/%d", card.CompletedBreaks, card.BreakCount)))
		ui.reportsTable.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%d%%", card.CompletionRate)))
		ui.reportsTable.SetCell(row, 6, tview.NewTableCell(models.FormatSeconds(card.MaxContinuousWork)))
		row++
	}
}

func scoreColor(level analytics.ScoreLevel) tcell.Color {
	switch level {
	case analytics.ScoreLevelExcellent:
		return tcell.ColorGreen
	case analytics.ScoreLevelGood:
		return tcell.ColorOlive
	case analytics.ScoreLevelFair:
		return tcell.ColorOrange
	default:
		return tcell.ColorRed
	}
}
