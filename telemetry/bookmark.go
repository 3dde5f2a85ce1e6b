package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstInk    BookmarkType = "first_ink"
	BookmarkCFLExceeded BookmarkType = "cfl_exceeded"
	BookmarkFlooded     BookmarkType = "flooded"
	BookmarkMassSurge   BookmarkType = "mass_surge"
	BookmarkSettled     BookmarkType = "settled"
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

// BookmarkDetector detects notable moments in a run from window stats.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	sawInk       bool
	cflHigh      bool // Latched while CFL stays above 1
	flooded      bool // Latched while coverage stays above the flood level
	settledCount int  // Consecutive windows with steady mass
}

// Detection thresholds.
const (
	floodCoverage   = 0.5
	surgeMultiplier = 2.0
	settledCV2      = 0.0004 // CV^2 < 0.0004 means CV < 2%
	settledWindows  = 5
)

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstInk(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCFL(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFlooded(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkMassSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
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

// recent returns the last n windows in insertion order.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	h := bd.getHistory()
	if n > len(h) {
		return nil
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkFirstInk(stats WindowStats) *Bookmark {
	if bd.sawInk || stats.Occupied == 0 {
		return nil
	}
	bd.sawInk = true
	return &Bookmark{
		Type:        BookmarkFirstInk,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First ink on the grid: %d cells occupied", stats.Occupied),
	}
}

func (bd *BookmarkDetector) checkCFL(stats WindowStats) *Bookmark {
	if stats.CFL <= 1 {
		bd.cflHigh = false
		return nil
	}
	if bd.cflHigh {
		return nil
	}
	bd.cflHigh = true
	return &Bookmark{
		Type:        BookmarkCFLExceeded,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("CFL %.2f: traces skip cells (peak speed %.1f)", stats.CFL, stats.PeakSpeed),
	}
}

func (bd *BookmarkDetector) checkFlooded(stats WindowStats) *Bookmark {
	if stats.Coverage <= floodCoverage {
		bd.flooded = false
		return nil
	}
	if bd.flooded {
		return nil
	}
	bd.flooded = true
	return &Bookmark{
		Type:        BookmarkFlooded,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Ink covers %.0f%% of the grid", stats.Coverage*100),
	}
}

func (bd *BookmarkDetector) checkMassSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Mass
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.Mass > avg*surgeMultiplier {
		return &Bookmark{
			Type:        BookmarkMassSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mass %.1f is %.1fx average (%.1f)", stats.Mass, stats.Mass/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Mass == 0 {
		bd.settledCount = 0
		return nil
	}

	window := bd.recent(3)
	if window == nil {
		return nil
	}
	window = append(window, stats)

	var sum float64
	for _, h := range window {
		sum += h.Mass
	}
	mean := sum / float64(len(window))

	var variance float64
	for _, h := range window {
		d := h.Mass - mean
		variance += d * d
	}
	variance /= float64(len(window))

	if mean > 0 && variance/(mean*mean) < settledCV2 {
		bd.settledCount++
	} else {
		bd.settledCount = 0
	}

	if bd.settledCount == settledWindows {
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mass steady near %.1f over %d+ windows", mean, settledWindows),
		}
	}
	return nil
}
