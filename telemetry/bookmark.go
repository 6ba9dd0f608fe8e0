package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sparks/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkChainStarted     BookmarkType = "chain_started"
	BookmarkChainExtinct     BookmarkType = "chain_extinct"
	BookmarkBacklogSaturated BookmarkType = "backlog_saturated"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkPeakActivity     BookmarkType = "peak_activity"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a chain reaction.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	last    WindowStats
	hasLast bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling average
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.hasLast {
		for _, check := range []func(prev, cur WindowStats) *Bookmark{
			bd.checkChainStarted,
			bd.checkChainExtinct,
			bd.checkBacklogSaturated,
			bd.checkPopulationCrash,
		} {
			if b := check(bd.last, stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}
	if b := bd.checkPeakActivity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.last = stats
	bd.hasLast = true

	return bookmarks
}

// Reset forgets all previous windows.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.last = WindowStats{}
	bd.hasLast = false
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func active(s WindowStats) bool {
	return s.Detonating > 0 || s.Pending > 0
}

func (bd *BookmarkDetector) checkChainStarted(prev, cur WindowStats) *Bookmark {
	if active(prev) || prev.Ignitions > 0 || cur.Ignitions == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkChainStarted,
		Tick:        cur.WindowEndTick,
		Description: fmt.Sprintf("Chain started with %d ignitions from %d external impulses", cur.Ignitions, cur.ExternalImpulses),
	}
}

func (bd *BookmarkDetector) checkChainExtinct(prev, cur WindowStats) *Bookmark {
	if !active(prev) || active(cur) {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkChainExtinct,
		Tick:        cur.WindowEndTick,
		Description: fmt.Sprintf("Chain died out with %d dots left", cur.Live),
	}
}

func (bd *BookmarkDetector) checkBacklogSaturated(prev, cur WindowStats) *Bookmark {
	limit := bd.cfg.BacklogSaturated.MinPending
	if limit <= 0 || prev.Pending >= limit || cur.Pending < limit {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBacklogSaturated,
		Tick:        cur.WindowEndTick,
		Description: fmt.Sprintf("Impulse backlog reached %d (saturated %d ticks)", cur.Pending, cur.SaturatedTicks),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(prev, cur WindowStats) *Bookmark {
	if prev.Live == 0 || bd.cfg.PopulationCrash.DropFraction <= 0 {
		return nil
	}
	drop := 1.0 - float64(cur.Live)/float64(prev.Live)
	if drop < bd.cfg.PopulationCrash.DropFraction {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Tick:        cur.WindowEndTick,
		Description: fmt.Sprintf("Population fell %.0f%% from %d to %d", drop*100, prev.Live, cur.Live),
	}
}

func (bd *BookmarkDetector) checkPeakActivity(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Ignitions < bd.cfg.PeakActivity.MinIgnitions {
		return nil
	}

	var peak int
	var total int
	for _, h := range history {
		total += h.Ignitions
		peak = max(peak, h.Ignitions)
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || stats.Ignitions <= peak || float64(stats.Ignitions) < avg*bd.cfg.PeakActivity.Multiplier {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPeakActivity,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d ignitions is %.1fx the rolling average (%.0f)", stats.Ignitions, float64(stats.Ignitions)/avg, avg),
	}
}
