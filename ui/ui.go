// Package ui is a terminal consumer of the analytics engine: a summary page,
// a completion heatmap, and a backward-scrolling report feed. It renders
// structured engine output only; every number shown here is computed by the
// analytics package.
package ui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/lukaszraczylo/focus-reports/analytics"
	"github.com/lukaszraczylo/focus-reports/config"
	"github.com/lukaszraczylo/focus-reports/models"
	"github.com/lukaszraczylo/focus-reports/storage"
)

// Page names
const (
	pageSummary = "summary"
	pageHeatmap = "heatmap"
	pageReports = "reports"
)

// ReportsUI is the main application UI
type ReportsUI struct {
	app   *tview.Application
	pages *tview.Pages
	store *storage.Storage
	cfg   *config.Config
	feed  *analytics.ReportFeed

	summaryView  *tview.TextView
	heatmapView  *tview.TextView
	reportsTable *tview.Table
	statusBar    *tview.TextView

	exhausted   bool
	unsubscribe func()
}

// NewReportsUI creates the UI over the given session store
func NewReportsUI(store *storage.Storage, cfg *config.Config) *ReportsUI {
	ui := &ReportsUI{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		store: store,
		cfg:   cfg,
	}

	ui.feed = analytics.NewReportFeed(store, analytics.FeedOptions{
		MoreRest: cfg.MoreRestEnabled,
		Logger:   &log.Logger,
	})

	ui.summaryView = tview.NewTextView().SetDynamicColors(true)
	ui.summaryView.SetBorder(true).SetTitle(" Today ")

	ui.heatmapView = tview.NewTextView().SetDynamicColors(true)
	ui.heatmapView.SetBorder(true).SetTitle(" Break completion, last 6 months ")

	ui.reportsTable = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	ui.reportsTable.SetBorder(true).SetTitle(" Daily reports ")

	ui.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText(" [yellow]1[-] summary  [yellow]2[-] heatmap  [yellow]3[-] reports  [yellow]r[-] refresh  [yellow]q[-] quit")

	ui.pages.AddPage(pageSummary, ui.summaryView, true, true)
	ui.pages.AddPage(pageHeatmap, ui.heatmapView, true, false)
	ui.pages.AddPage(pageReports, ui.reportsTable, true, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.statusBar, 1, 0, false)

	ui.app.SetRoot(layout, true).EnableMouse(cfg.EnableMouse)
	ui.app.SetInputCapture(ui.handleKeys)

	ui.reportsTable.SetSelectionChangedFunc(func(row, column int) {
		// Reaching the bottom of the loaded list triggers the next page.
		if row >= ui.reportsTable.GetRowCount()-1 && !ui.exhausted {
			ui.loadMoreReports()
		}
	})

	return ui
}

// Run starts the application
func (ui *ReportsUI) Run() error {
	ui.unsubscribe = ui.store.Subscribe(func() {
		// Sessions changed: restart aggregation and pagination from scratch.
		// Derived views are never patched in place.
		ui.app.QueueUpdateDraw(ui.refresh)
	})
	defer ui.unsubscribe()

	ui.refresh()
	return ui.app.Run()
}

// refresh recomputes every view and restarts the report feed
func (ui *ReportsUI) refresh() {
	ui.renderSummary()
	ui.renderHeatmap()

	ui.feed.Reset(ui.cfg.MoreRestEnabled)
	ui.exhausted = false
	ui.resetReportsTable()
	ui.loadMoreReports()
}

func (ui *ReportsUI) handleKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case '1':
		ui.pages.SwitchToPage(pageSummary)
		return nil
	case '2':
		ui.pages.SwitchToPage(pageHeatmap)
		return nil
	case '3':
		ui.pages.SwitchToPage(pageReports)
		ui.app.SetFocus(ui.reportsTable)
		return nil
	case 'r':
		ui.refresh()
		return nil
	case 'q':
		ui.app.Stop()
		return nil
	}
	return event
}

// querySessions fetches the raw sessions for a window; callers gap-fill as
// needed so the informal-rest total can be derived from the raw list first.
func (ui *ReportsUI) querySessions(start, end time.Time) []*models.Session {
	sessions, err := ui.store.QueryRange(context.Background(), start, end)
	if err != nil {
		log.Warn().Err(err).Msg("ui: session query failed")
		return nil
	}
	return sessions
}
