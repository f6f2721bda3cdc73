package analytics

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/lukaszraczylo/focus-reports/models"
)

const (
	// FeedPageSize is how many report cards one LoadMore call delivers.
	FeedPageSize = 15
	// FeedWindowDays is how many trailing days one range query covers.
	// Window size controls fetch granularity, page size controls the UI
	// batch; the two are independent and must not be conflated.
	FeedWindowDays = 15
)

// ErrSuperseded is returned by LoadMore when a Reset invalidated the request
// while it was in flight. The computed result has been discarded; the caller
// should simply drop it.
var ErrSuperseded = errors.New("analytics: request superseded by reset")

// Bounds describes the dataset extent of a session source. A zero
// EarliestStart means the dataset is empty.
type Bounds struct {
	EarliestStart time.Time `json:"earliestStart"`
	LatestEnd     time.Time `json:"latestEnd"`
}

// Empty reports whether the source holds no sessions at all.
func (b Bounds) Empty() bool {
	return b.EarliestStart.IsZero()
}

// SessionSource is the query surface of the external session store. The feed
// only ever reads snapshots through it.
type SessionSource interface {
	// QueryRange returns all sessions whose interval intersects [start, end).
	QueryRange(ctx context.Context, start, end time.Time) ([]*models.Session, error)
	// Bounds returns the dataset extent.
	Bounds(ctx context.Context) (Bounds, error)
}

// ReportCard is one day's aggregated statistics plus its derived score.
type ReportCard struct {
	Date              time.Time    `json:"date"`
	WorkSeconds       int64        `json:"workSeconds"`
	BreakSeconds      int64        `json:"breakSeconds"`
	BreakCount        int          `json:"breakCount"`
	CompletedBreaks   int          `json:"completedBreaks"`
	SkippedBreaks     int          `json:"skippedBreaks"`
	CompletionRate    int          `json:"completionRate"`
	MaxContinuousWork int64        `json:"maxContinuousWork"`
	Score             ScoreDetails `json:"score"`
}

// FeedOptions configures a ReportFeed. The zero value gives real time, the
// local timezone, gap-fill off and a disabled logger.
type FeedOptions struct {
	MoreRest bool
	Location *time.Location
	Now      func() time.Time
	Logger   *zerolog.Logger
}

// ReportFeed serves daily report cards to a consumer scrolling backward
// through history. It lazily fetches day windows from its session source,
// terminates cleanly at the dataset's earliest boundary, and stays correct
// when a Reset supersedes in-flight work: every fetch carries the sequence
// number observed at entry, and its result is discarded unless the sequence
// still matches on completion.
type ReportFeed struct {
	source   SessionSource
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
	moreRest bool

	group singleflight.Group

	mu        sync.Mutex
	seq       uint64
	started   bool
	cursorEnd time.Time // end-of-day boundary the next window ends at
	earliest  time.Time // earliest session start known to the source
	hasMore   bool
}

// NewReportFeed creates a feed over the given source. The feed starts in the
// reset state; the first LoadMore fetches the dataset bounds.
func NewReportFeed(source SessionSource, opts FeedOptions) *ReportFeed {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	return &ReportFeed{
		source:   source,
		loc:      opts.Location,
		now:      opts.Now,
		log:      *opts.Logger,
		moreRest: opts.MoreRest,
		hasMore:  true,
	}
}

// Reset starts a new feed generation, invalidating all in-flight work from
// the previous one. The gap-fill flag may change between generations (a
// filter change in the consumer).
func (f *ReportFeed) Reset(moreRest bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.started = false
	f.moreRest = moreRest
	f.cursorEnd = time.Time{}
	f.earliest = time.Time{}
	f.hasMore = true
}

// HasMore reports whether more report cards may still be loaded in the
// current generation.
func (f *ReportFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

type pageResult struct {
	cards     []ReportCard
	exhausted bool
}

// LoadMore assembles the next page of report cards, scanning backward from
// the cursor. It returns the appended cards and whether the feed is now
// exhausted. Concurrent calls within one generation share a single
// execution; a failed range query leaves the cursor untouched so the same
// window is retried on the next call.
func (f *ReportFeed) LoadMore(ctx context.Context) ([]ReportCard, bool, error) {
	f.mu.Lock()
	seq := f.seq
	f.mu.Unlock()

	v, err, _ := f.group.Do(strconv.FormatUint(seq, 10), func() (interface{}, error) {
		return f.loadPage(ctx, seq)
	})
	if err != nil {
		return nil, false, err
	}
	page := v.(pageResult)
	return page.cards, page.exhausted, nil
}

// loadPage runs the bounded inner loop for one page. All I/O happens outside
// the feed lock; cursor state is committed only after re-checking that seq
// is still current.
func (f *ReportFeed) loadPage(ctx context.Context, seq uint64) (pageResult, error) {
	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		return pageResult{}, ErrSuperseded
	}
	started := f.started
	cursor := f.cursorEnd
	earliest := f.earliest
	hasMore := f.hasMore
	moreRest := f.moreRest
	f.mu.Unlock()

	if !started {
		bounds, err := f.source.Bounds(ctx)
		if err != nil {
			f.log.Warn().Err(err).Msg("report feed: bounds query failed")
			return pageResult{}, err
		}

		// Cursor starts at the end of today; an empty dataset is exhausted
		// immediately with zero cards.
		cursor = models.DayStart(f.now(), f.loc).AddDate(0, 0, 1)
		earliest = bounds.EarliestStart
		hasMore = !bounds.Empty()

		f.mu.Lock()
		if seq != f.seq {
			f.mu.Unlock()
			return pageResult{}, ErrSuperseded
		}
		f.started = true
		f.cursorEnd = cursor
		f.earliest = earliest
		f.hasMore = hasMore
		f.mu.Unlock()
	}

	if !hasMore {
		return pageResult{exhausted: true}, nil
	}

	var cards []ReportCard
	for len(cards) < FeedPageSize && cursor.After(earliest) {
		windowStart := cursor.AddDate(0, 0, -FeedWindowDays)

		sessions, err := f.source.QueryRange(ctx, windowStart, cursor)
		if err != nil {
			f.log.Warn().
				Err(err).
				Time("windowStart", windowStart).
				Time("windowEnd", cursor).
				Msg("report feed: range query failed")
			return pageResult{}, err
		}
		sessions = AugmentWithGaps(sessions, moreRest)

		byDay := make(map[string][]*models.Session)
		for _, session := range sessions {
			key := models.DayKey(session.StartTime, f.loc)
			byDay[key] = append(byDay[key], session)
		}

		// Consume whole days backward from the window's end. Days with no
		// sessions or without meaningful activity are skipped and do not
		// count toward the page.
		for cursor.After(windowStart) && cursor.After(earliest) && len(cards) < FeedPageSize {
			dayStart := cursor.AddDate(0, 0, -1)
			if card, ok := buildReportCard(byDay[models.DayKey(dayStart, f.loc)], dayStart, cursor); ok {
				cards = append(cards, card)
			}
			cursor = dayStart
		}
	}

	if !cursor.After(earliest) {
		hasMore = false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return pageResult{}, ErrSuperseded
	}
	f.cursorEnd = cursor
	f.hasMore = hasMore
	return pageResult{cards: cards, exhausted: !hasMore}, nil
}

// buildReportCard turns one local day's sessions into a report card. It
// returns false for days with no sessions or without meaningful activity.
func buildReportCard(daySessions []*models.Session, dayStart, dayEnd time.Time) (ReportCard, bool) {
	if len(daySessions) == 0 {
		return ReportCard{}, false
	}

	view := Aggregate(daySessions, dayStart, dayEnd)
	stats := DayStats{
		WorkSeconds:       view.TotalWorkSeconds,
		MaxContinuousWork: MaxContinuousWork(daySessions),
		BreakCount:        view.BreakCount,
	}
	if !stats.HasMeaningfulActivity() {
		return ReportCard{}, false
	}

	return ReportCard{
		Date:              dayStart,
		WorkSeconds:       view.TotalWorkSeconds,
		BreakSeconds:      view.TotalBreakSeconds,
		BreakCount:        view.BreakCount,
		CompletedBreaks:   view.CompletedBreaks,
		SkippedBreaks:     view.SkippedBreaks,
		CompletionRate:    view.CompletionRate,
		MaxContinuousWork: stats.MaxContinuousWork,
		Score:             ScoreDay(stats),
	}, true
}
