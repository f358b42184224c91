package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// watcher.go tracks a running scrape job by polling the backend status
// endpoint. The transition logic is a pure state machine so it can be
// tested without a tea program; the listing model drives it from tick
// messages and owns the actual scheduling.

const (
	// ScrapePollInterval is how often the status endpoint is polled while
	// a job runs.
	ScrapePollInterval = 2 * time.Second

	// MaxPollAttempts bounds how long a job is watched before it is
	// declared failed. At the poll interval this is 30 minutes.
	MaxPollAttempts = 900

	// MaxPollErrors is how many consecutive failed status requests are
	// tolerated before the watch gives up.
	MaxPollErrors = 5
)

// WatcherState is the lifecycle of a watched scrape job.
type WatcherState int

const (
	WatcherIdle WatcherState = iota
	WatcherRunning
	WatcherDone
	WatcherFailed
)

// WatchStep is what the watcher wants after observing one status poll.
type WatchStep int

const (
	// WatchContinue means the job is still running and another poll
	// should be scheduled.
	WatchContinue WatchStep = iota
	// WatchFinished means the job completed and the listing should be
	// refreshed.
	WatchFinished
	// WatchGaveUp means polling stopped without completion.
	WatchGaveUp
)

// ScrapeWatcher polls a scrape job to completion. Zero value is idle.
type ScrapeWatcher struct {
	state       WatcherState
	attempts    int
	errStreak   int
	lastErr     error
	resultCount int
}

// State returns the current lifecycle state.
func (w *ScrapeWatcher) State() WatcherState { return w.state }

// Running reports whether a job is being watched right now.
func (w *ScrapeWatcher) Running() bool { return w.state == WatcherRunning }

// ResultCount returns the product count reported when the job finished.
func (w *ScrapeWatcher) ResultCount() int { return w.resultCount }

// Err returns the error that ended the watch, if any.
func (w *ScrapeWatcher) Err() error { return w.lastErr }

// Start begins watching a freshly triggered job. Starting resets any
// previous outcome so the watcher can be reused across jobs.
func (w *ScrapeWatcher) Start() {
	w.state = WatcherRunning
	w.attempts = 0
	w.errStreak = 0
	w.lastErr = nil
	w.resultCount = 0
}

// Reset returns a finished or failed watcher to idle.
func (w *ScrapeWatcher) Reset() {
	w.state = WatcherIdle
	w.attempts = 0
	w.errStreak = 0
	w.lastErr = nil
}

// Observe feeds one poll result into the watcher and returns what to do
// next. Calls while not running are ignored and report WatchGaveUp so a
// stray late poll never restarts a finished watch.
func (w *ScrapeWatcher) Observe(status models.ScrapeStatus, err error) WatchStep {
	if w.state != WatcherRunning {
		return WatchGaveUp
	}

	w.attempts++

	if err != nil {
		w.errStreak++
		w.lastErr = err
		if w.errStreak >= MaxPollErrors {
			w.state = WatcherFailed
			return WatchGaveUp
		}
		if w.attempts >= MaxPollAttempts {
			w.state = WatcherFailed
			return WatchGaveUp
		}
		return WatchContinue
	}
	w.errStreak = 0
	w.lastErr = nil

	if status.IsRunning() {
		if w.attempts >= MaxPollAttempts {
			w.state = WatcherFailed
			return WatchGaveUp
		}
		return WatchContinue
	}

	// Any non-running status ends the job. The backend reports "done"
	// right after completion and falls back to "idle" once it resets.
	w.state = WatcherDone
	w.resultCount = status.LenProducts
	return WatchFinished
}

// scrapePollMsg carries one status poll result into the tea update loop.
type scrapePollMsg struct {
	status models.ScrapeStatus
	err    error
}

// scrapeTickMsg fires when the poll interval elapses.
type scrapeTickMsg struct{}

// pollScrapeCmd fetches the scrape status once.
func pollScrapeCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		st, err := client.ScrapeStatus()
		return scrapePollMsg{status: st, err: err}
	}
}

// scheduleScrapeTickCmd waits one poll interval before the next poll.
func scheduleScrapeTickCmd() tea.Cmd {
	return tea.Tick(ScrapePollInterval, func(time.Time) tea.Msg {
		return scrapeTickMsg{}
	})
}
