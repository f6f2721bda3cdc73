package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lukaszraczylo/focus-reports/analytics"
	"github.com/lukaszraczylo/focus-reports/config"
	"github.com/lukaszraczylo/focus-reports/logging"
	"github.com/lukaszraczylo/focus-reports/models"
	"github.com/lukaszraczylo/focus-reports/storage"
	"github.com/lukaszraczylo/focus-reports/ui"
)

// Command line flags
var (
	configFlag    = flag.String("config", "", "Path to configuration file")
	dataFlag      = flag.String("data", "", "Path to data directory")
	statsFlag     = flag.String("stats", "", "Display stats (day, week, month, quarter, year)")
	heatmapFlag   = flag.Bool("heatmap", false, "Display the 6-month completion heatmap")
	reportsFlag   = flag.Int("reports", 0, "Display up to N pages of daily report cards")
	exportFlag    = flag.String("export", "", "Export sessions to a JSON file")
	importFlag    = flag.String("import", "", "Import sessions from a JSON file")
	overwriteFlag = flag.Bool("overwrite", false, "Overwrite existing sessions on import")
	clearFlag     = flag.Bool("clear", false, "Delete all session records")
	versionFlag   = flag.Bool("version", false, "Display version information")
)

// Version information
const (
	AppVersion = "1.0.0"
	AppBuild   = "2026-08-24"
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Focus Reports version %s (build %s)\n", AppVersion, AppBuild)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading configuration: %v\n", err)
		fmt.Fprintln(os.Stderr, "Proceeding with default settings")
	}
	if *dataFlag != "" {
		cfg.DataDirectory = *dataFlag
	}

	logging.Init(cfg.DataDirectory, cfg.Verbose)

	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if handled := handleUtilityOperations(store, cfg); handled {
		os.Exit(0)
	}

	reportsUI := ui.NewReportsUI(store, cfg)
	if err := reportsUI.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration from file or creates default
func loadConfig() (*config.Config, error) {
	if *configFlag != "" {
		return config.LoadConfigFromPath(*configFlag)
	}

	return config.LoadConfig()
}

// handleUtilityOperations processes command-line utility operations
// Returns true if an operation was performed and the app should exit
func handleUtilityOperations(store *storage.Storage, cfg *config.Config) bool {
	ctx := context.Background()

	if *exportFlag != "" {
		fmt.Printf("Exporting sessions to %s...\n", *exportFlag)
		if err := store.ExportJSON(ctx, *exportFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting sessions: %v\n", err)
			return true
		}
		fmt.Println("Export completed successfully.")
		return true
	}

	if *importFlag != "" {
		fmt.Printf("Importing sessions from %s...\n", *importFlag)
		if err := store.ImportJSON(ctx, *importFlag, *overwriteFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing sessions: %v\n", err)
			return true
		}
		fmt.Println("Import completed successfully.")
		return true
	}

	if *clearFlag {
		if err := store.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
			return true
		}
		fmt.Println("All session records deleted.")
		return true
	}

	if *statsFlag != "" {
		displayConsoleStats(ctx, store, cfg, *statsFlag)
		return true
	}

	if *heatmapFlag {
		displayConsoleHeatmap(ctx, store)
		return true
	}

	if *reportsFlag > 0 {
		displayConsoleReports(ctx, store, cfg, *reportsFlag)
		return true
	}

	return false
}

// dateRange resolves a named range to a [start, end) window ending now.
func dateRange(rangeType string, now time.Time) (time.Time, time.Time, error) {
	today := models.DayStart(now, time.Local)

	switch rangeType {
	case "day":
		return today, today.AddDate(0, 0, 1), nil
	case "week":
		// Week starts on Monday
		weekday := int(now.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		return today.AddDate(0, 0, -(weekday - 1)), today.AddDate(0, 0, 1), nil
	case "month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, today.AddDate(0, 0, 1), nil
	case "quarter":
		monthsBack := (int(today.Month()) - 1) % 3
		start := time.Date(today.Year(), today.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, today.Location())
		return start, today.AddDate(0, 0, 1), nil
	case "year":
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		return start, today.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range type: %s", rangeType)
	}
}

// displayConsoleStats shows aggregate statistics in the console (non-UI mode)
func displayConsoleStats(ctx context.Context, store *storage.Storage, cfg *config.Config, rangeType string) {
	now := time.Now()
	start, end, err := dateRange(rangeType, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving range: %v\n", err)
		return
	}

	sessions, err := store.QueryRange(ctx, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying sessions: %v\n", err)
		return
	}
	var informalRest int64
	if cfg.MoreRestEnabled {
		informalRest = analytics.GapSeconds(sessions)
	}
	sessions = analytics.AugmentWithGaps(sessions, cfg.MoreRestEnabled)

	view := analytics.Aggregate(sessions, start, end)
	longest := analytics.MaxContinuousWork(sessions)

	fmt.Printf("Statistics for %s (%s to %s)\n",
		rangeType,
		start.Format("2006-01-02"),
		end.AddDate(0, 0, -1).Format("2006-01-02"))
	fmt.Println(strings.Repeat("-", 50))

	fmt.Printf("Total work time:     %s\n", models.FormatSeconds(view.TotalWorkSeconds))
	fmt.Printf("Total break time:    %s\n", models.FormatSeconds(view.TotalBreakSeconds))
	if informalRest > 0 {
		fmt.Printf("  of which informal: %s\n", models.FormatSeconds(informalRest))
	}
	fmt.Printf("Breaks taken:        %d (%d completed, %d skipped)\n",
		view.BreakCount, view.CompletedBreaks, view.SkippedBreaks)
	fmt.Printf("Completion rate:     %d%%\n", view.CompletionRate)
	fmt.Printf("Longest focus:       %s\n", models.FormatSeconds(longest))

	if rangeType == "day" {
		score := analytics.ScoreDay(analytics.DayStats{
			WorkSeconds:       view.TotalWorkSeconds,
			MaxContinuousWork: longest,
			BreakCount:        view.BreakCount,
		})
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Daily score:         %d / %d (%s)\n", score.Score, analytics.ScoreMax, score.Level)
		printPenaltyTrail(score)
	}
}

// printPenaltyTrail renders the itemized score breakdown
func printPenaltyTrail(score analytics.ScoreDetails) {
	if score.ContinuousPenalty > 0 {
		fmt.Printf("  Continuous work:   -%d (%d x 40min without rest)\n",
			score.ContinuousPenalty, score.ContinuousSteps)
	}
	if score.ScreenBasePenalty > 0 {
		fmt.Printf("  Screen time:       -%d (over 4h of work)\n", score.ScreenBasePenalty)
	}
	if score.ScreenExtraPenalty > 0 {
		fmt.Printf("  Extra screen time: -%d (%d x 2h beyond that)\n",
			score.ScreenExtraPenalty, score.ScreenExtraSteps)
	}
	if score.Capped {
		fmt.Printf("  Penalty capped at %d\n", analytics.ScoreMax-analytics.ScoreMin)
	}
	if score.RawPenalty == 0 {
		fmt.Println("  No penalties")
	}
}

// displayConsoleHeatmap renders the trailing 6-month completion heatmap
func displayConsoleHeatmap(ctx context.Context, store *storage.Storage) {
	now := time.Now()
	start := models.DayStart(now, time.Local).AddDate(0, -analytics.HeatmapWindowMonths, 0)

	sessions, err := store.QueryRange(ctx, start, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying sessions: %v\n", err)
		return
	}

	days := analytics.BuildHeatmap(sessions, analytics.HeatmapWindowMonths, now, time.Local)
	glyphs := []string{" ", "░", "▒", "▓", "█"}

	fmt.Printf("Break completion, last %d months\n", analytics.HeatmapWindowMonths)
	fmt.Println(strings.Repeat("-", 50))

	var week []string
	for _, day := range days {
		week = append(week, glyphs[day.Level])
		if day.Date.Weekday() == time.Sunday {
			fmt.Printf("%s  week of %s\n", strings.Join(week, ""), day.Date.AddDate(0, 0, -6).Format("Jan 02"))
			week = nil
		}
	}
	if len(week) > 0 {
		fmt.Println(strings.Join(week, ""))
	}
}

// displayConsoleReports pages through daily report cards
func displayConsoleReports(ctx context.Context, store *storage.Storage, cfg *config.Config, pages int) {
	feed := analytics.NewReportFeed(store, analytics.FeedOptions{
		MoreRest: cfg.MoreRestEnabled,
		Logger:   &log.Logger,
	})

	for page := 0; page < pages; page++ {
		cards, exhausted, err := feed.LoadMore(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading reports: %v\n", err)
			return
		}

		for _, card := range cards {
			fmt.Printf("%s  score %3d (%-9s)  work %-8s  breaks %d/%d  longest focus %s\n",
				card.Date.Format("2006-01-02"),
				card.Score.Score,
				card.Score.Level,
				models.FormatSeconds(card.WorkSeconds),
				card.CompletedBreaks,
				card.BreakCount,
				models.FormatSeconds(card.MaxContinuousWork))
		}

		if exhausted {
			fmt.Println("(end of history)")
			return
		}
	}
}
