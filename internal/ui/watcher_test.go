package ui

import (
	"errors"
	"testing"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

func running() models.ScrapeStatus {
	return models.ScrapeStatus{Status: models.ScrapeRunning}
}

func TestWatcherZeroValueIsIdle(t *testing.T) {
	var w ScrapeWatcher
	if w.State() != WatcherIdle {
		t.Errorf("expected idle, got %v", w.State())
	}
	if w.Running() {
		t.Error("expected not running")
	}
}

func TestWatcherRunsToCompletion(t *testing.T) {
	var w ScrapeWatcher
	w.Start()

	if step := w.Observe(running(), nil); step != WatchContinue {
		t.Fatalf("expected continue while running, got %v", step)
	}

	done := models.ScrapeStatus{Status: models.ScrapeDone, LenProducts: 42}
	if step := w.Observe(done, nil); step != WatchFinished {
		t.Fatalf("expected finished, got %v", step)
	}
	if w.State() != WatcherDone {
		t.Errorf("expected done state, got %v", w.State())
	}
	if w.ResultCount() != 42 {
		t.Errorf("expected result count 42, got %d", w.ResultCount())
	}
}

func TestWatcherAcceptsBothRunningSpellings(t *testing.T) {
	for _, status := range []string{models.ScrapeRunning, models.ScrapeInProgress} {
		var w ScrapeWatcher
		w.Start()
		st := models.ScrapeStatus{Status: status}
		if step := w.Observe(st, nil); step != WatchContinue {
			t.Errorf("status %q: expected continue, got %v", status, step)
		}
	}
}

func TestWatcherIdleStatusEndsJob(t *testing.T) {
	// The backend resets to idle once the job is consumed; a poll landing
	// after the reset still means the job ended
	var w ScrapeWatcher
	w.Start()
	if step := w.Observe(models.ScrapeStatus{Status: models.ScrapeIdle}, nil); step != WatchFinished {
		t.Errorf("expected finished on idle, got %v", step)
	}
}

func TestWatcherFailsAfterConsecutiveErrors(t *testing.T) {
	var w ScrapeWatcher
	w.Start()

	pollErr := errors.New("connection refused")
	for i := 0; i < MaxPollErrors-1; i++ {
		if step := w.Observe(models.ScrapeStatus{}, pollErr); step != WatchContinue {
			t.Fatalf("error %d: expected continue, got %v", i+1, step)
		}
	}
	if step := w.Observe(models.ScrapeStatus{}, pollErr); step != WatchGaveUp {
		t.Fatalf("expected give up at error %d, got %v", MaxPollErrors, step)
	}
	if w.State() != WatcherFailed {
		t.Errorf("expected failed state, got %v", w.State())
	}
	if w.Err() == nil {
		t.Error("expected the poll error retained")
	}
}

func TestWatcherErrorStreakResetsOnSuccess(t *testing.T) {
	var w ScrapeWatcher
	w.Start()

	pollErr := errors.New("timeout")
	for i := 0; i < MaxPollErrors-1; i++ {
		w.Observe(models.ScrapeStatus{}, pollErr)
	}
	// one good poll clears the streak
	if step := w.Observe(running(), nil); step != WatchContinue {
		t.Fatalf("expected continue, got %v", step)
	}
	if step := w.Observe(models.ScrapeStatus{}, pollErr); step != WatchContinue {
		t.Errorf("expected continue after streak reset, got %v", step)
	}
}

func TestWatcherGivesUpAfterMaxAttempts(t *testing.T) {
	var w ScrapeWatcher
	w.Start()

	for i := 0; i < MaxPollAttempts-1; i++ {
		if step := w.Observe(running(), nil); step != WatchContinue {
			t.Fatalf("attempt %d: expected continue, got %v", i+1, step)
		}
	}
	if step := w.Observe(running(), nil); step != WatchGaveUp {
		t.Fatalf("expected give up at attempt %d, got %v", MaxPollAttempts, step)
	}
	if w.State() != WatcherFailed {
		t.Errorf("expected failed state, got %v", w.State())
	}
}

func TestWatcherIgnoresStrayPolls(t *testing.T) {
	var w ScrapeWatcher
	w.Start()
	w.Observe(models.ScrapeStatus{Status: models.ScrapeDone, LenProducts: 5}, nil)

	// a late poll must not restart or change the finished watch
	if step := w.Observe(running(), nil); step != WatchGaveUp {
		t.Errorf("expected stray poll ignored, got %v", step)
	}
	if w.State() != WatcherDone {
		t.Errorf("expected state unchanged, got %v", w.State())
	}
	if w.ResultCount() != 5 {
		t.Errorf("expected result count unchanged, got %d", w.ResultCount())
	}
}

func TestWatcherStartResetsPreviousOutcome(t *testing.T) {
	var w ScrapeWatcher
	w.Start()
	pollErr := errors.New("down")
	for i := 0; i < MaxPollErrors; i++ {
		w.Observe(models.ScrapeStatus{}, pollErr)
	}
	if w.State() != WatcherFailed {
		t.Fatalf("setup: expected failed, got %v", w.State())
	}

	w.Start()
	if w.State() != WatcherRunning {
		t.Errorf("expected running after restart, got %v", w.State())
	}
	if w.Err() != nil {
		t.Error("expected previous error cleared")
	}
	if step := w.Observe(running(), nil); step != WatchContinue {
		t.Errorf("expected fresh watch to continue, got %v", step)
	}
}
