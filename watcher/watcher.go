// Package watcher refreshes the subscriber's account on a schedule.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/logger"
	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
)

const (
	DefaultInterval = 5 * time.Minute
	refreshTag      = "refresh_account"
)

var logg = logger.NewLogger()

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Watcher struct {
	CronScheduler *gocron.Scheduler

	// Notify, when set, is called after every refresh with its result
	Notify func(err error)

	refresher Refresher
	interval  time.Duration
	timeout   time.Duration

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a watcher that refreshes every interval in the given time zone.
// An unknown time zone falls back to UTC.
func New(refresher Refresher, interval time.Duration, timeZone string) *Watcher {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		location = time.UTC
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.TagsUnique()

	return &Watcher{
		CronScheduler: scheduler,
		refresher:     refresher,
		interval:      interval,
		timeout:       interval,
	}
}

// ParseInterval reads durations like "90s" or "5m"; "" is the default
func ParseInterval(value string) (time.Duration, error) {
	if value == "" {
		return DefaultInterval, nil
	}

	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid watch interval %q", value)
	}

	if interval < time.Second {
		return 0, errors.Errorf("watch interval %q is shorter than a second", value)
	}

	return interval, nil
}

// Start refreshes right away and then every interval until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return errors.New("watcher already started")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	_, err := w.CronScheduler.Every(w.interval).Tag(refreshTag).Do(w.refresh)
	if err != nil {
		w.cancel()
		w.cancel = nil
		return errors.Wrap(err, "unable to schedule refresh")
	}

	w.CronScheduler.StartAsync()
	logg.Infof(colors.Prefix("watcher")+"refreshing every %v", w.interval)

	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return
	}

	w.CronScheduler.Stop()
	w.CronScheduler.RemoveByTag(refreshTag)
	w.cancel()
	w.cancel = nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (w *Watcher) refresh() {
	w.mu.Lock()
	parent := w.ctx
	w.mu.Unlock()

	if parent == nil || parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	err := w.refresher.Refresh(ctx)
	if err != nil {
		logg.Warnf(colors.Prefix("watcher")+"refresh failed: %v", err)
	} else {
		logg.Debug(colors.Prefix("watcher") + "account refreshed")
	}

	if w.Notify != nil {
		w.Notify(err)
	}
}
