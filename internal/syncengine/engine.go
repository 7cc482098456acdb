// Package syncengine periodically pushes the local collection to a remote
// source, pulls the remote snapshot and merges it additively into the store.
package syncengine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bassista/go_quotes/internal/config"
	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/remote"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Trigger names what started a tick.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerStart  Trigger = "start"
	TriggerManual Trigger = "manual"
)

const defaultCategory = "Server"

// Options tune the engine. Zero values fall back to safe defaults where one exists.
type Options struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	Category       string
	PushEnabled    bool
	RunOnStart     bool
}

// OptionsFromConfig maps the sync section of the configuration.
func OptionsFromConfig(cfg config.SyncConfig) Options {
	return Options{
		Interval:       cfg.Interval,
		RequestTimeout: cfg.RequestTimeout,
		Category:       cfg.Category,
		PushEnabled:    cfg.PushEnabled,
		RunOnStart:     cfg.RunOnStart,
	}
}

// Result is the outcome of one tick.
type Result struct {
	TickID     string    `json:"tickId"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Pushed     bool      `json:"pushed"`
	Pulled     int       `json:"pulled"`
	Added      int       `json:"added"`
	Error      string    `json:"error,omitempty"`
}

// Engine owns the sync timer. At most one tick runs at a time; a tick that
// fires while another is in flight is dropped, not queued.
type Engine struct {
	store  store.Merger
	source remote.Source
	opts   Options

	inFlight atomic.Bool
	ticks    sync.WaitGroup

	mu     sync.Mutex // guards cancel and done
	cancel context.CancelFunc
	done   chan struct{}

	resultMu sync.RWMutex
	last     *Result
}

func New(s store.Merger, src remote.Source, opts Options) *Engine {
	if opts.Category == "" {
		opts.Category = defaultCategory
	}
	return &Engine{store: s, source: src, opts: opts}
}

// Start begins the periodic schedule. Calling Start again restarts it.
// Cancelling ctx has the same effect as Stop.
func (e *Engine) Start(ctx context.Context) error {
	if e.opts.Interval <= 0 {
		return errors.NewValidationError("interval", e.opts.Interval, "sync interval must be positive")
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	logger.WithComponent("sync").Infof("sync engine started with interval %v", e.opts.Interval)
	if e.opts.RunOnStart {
		e.fire(loopCtx, TriggerStart)
	}
	go e.loop(loopCtx, done)
	return nil
}

func (e *Engine) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(e.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WithComponent("sync").Info("sync engine stopped")
			return
		case <-ticker.C:
			e.fire(ctx, TriggerTimer)
		}
	}
}

// Stop cancels the schedule. A tick already in flight still completes its merge.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Wait blocks until the schedule has stopped and no tick is in flight.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
	e.ticks.Wait()
}

// InFlight reports whether a tick is running.
func (e *Engine) InFlight() bool {
	return e.inFlight.Load()
}

// Tick fires one tick in the background, exactly as the timer does.
// It reports false when the tick was dropped because another is in flight.
func (e *Engine) Tick() bool {
	return e.fire(context.Background(), TriggerTimer)
}

// SyncNow runs a tick synchronously and returns its outcome. It shares the
// single-flight guard with the timer and returns ErrSyncInFlight when busy.
func (e *Engine) SyncNow(ctx context.Context) (Result, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return Result{}, errors.ErrSyncInFlight
	}
	e.ticks.Add(1)
	defer e.ticks.Done()
	defer e.inFlight.Store(false)

	res, err := e.run(ctx, TriggerManual)
	return res, err
}

// LastResult returns the outcome of the most recent finished tick.
func (e *Engine) LastResult() (Result, bool) {
	e.resultMu.RLock()
	defer e.resultMu.RUnlock()
	if e.last == nil {
		return Result{}, false
	}
	return *e.last, true
}

// fire starts a background tick unless one is in flight. The tick runs on a
// context detached from ctx so stopping the schedule does not abort its merge.
func (e *Engine) fire(ctx context.Context, trigger Trigger) bool {
	if !e.inFlight.CompareAndSwap(false, true) {
		logger.WithComponent("sync").Debugf("%s tick skipped: previous tick still in flight", trigger)
		return false
	}
	e.ticks.Add(1)
	go func() {
		defer e.ticks.Done()
		defer e.inFlight.Store(false)
		_, _ = e.run(context.WithoutCancel(ctx), trigger)
	}()
	return true
}

// run performs push, pull, map and merge. Every failure ends the tick without
// touching the store; the error is logged here and returned for manual ticks.
func (e *Engine) run(ctx context.Context, trigger Trigger) (Result, error) {
	res := Result{TickID: uuid.NewString(), Trigger: trigger, StartedAt: time.Now()}
	log := logger.WithComponent("sync").WithFields(logrus.Fields{"tick": res.TickID, "trigger": trigger})
	log.Debug("tick started")

	if e.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.RequestTimeout)
		defer cancel()
	}

	err := e.exchange(ctx, log, &res)
	res.FinishedAt = time.Now()
	if err != nil {
		res.Error = err.Error()
		log.Errorf("tick failed: %v", err)
	} else {
		log.Infof("tick finished: pulled %d, added %d", res.Pulled, res.Added)
	}

	e.resultMu.Lock()
	e.last = &res
	e.resultMu.Unlock()
	return res, err
}

func (e *Engine) exchange(ctx context.Context, log *logrus.Entry, res *Result) error {
	if e.opts.PushEnabled {
		if err := e.source.Push(ctx, e.store.All()); err != nil {
			log.Warnf("push failed, continuing with pull: %v", err)
		} else {
			res.Pushed = true
		}
	}

	items, err := e.source.Pull(ctx)
	if err != nil {
		return err
	}
	incoming, err := remote.ToQuotes(items, e.opts.Category)
	if err != nil {
		return err
	}
	res.Pulled = len(incoming)

	added, err := e.store.Merge(ctx, events.ReasonSync, incoming)
	if err != nil {
		return err
	}
	res.Added = len(added)
	return nil
}
