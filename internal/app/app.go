package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bassista/go_quotes/internal/category"
	"github.com/bassista/go_quotes/internal/codec"
	"github.com/bassista/go_quotes/internal/config"
	"github.com/bassista/go_quotes/internal/display"
	qerrors "github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/remote"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/schema"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/bassista/go_quotes/internal/syncengine"
)

// LastQuoteKey is the session key holding the quote shown most recently.
const LastQuoteKey = "lastQuote"

const eventQueueSize = 64

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config  *config.Config
	Storage repository.WatchableStorage
	Session *repository.MemoryStorage
	Events  *events.Broker

	Store  *store.QuoteStore
	Index  *category.Index
	Picker *display.Picker
	Codec  *codec.Codec
	Sync   *syncengine.Engine // nil when sync is disabled

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// NewFromConfig wires file storage and the configured remote source.
func NewFromConfig(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	durable, err := repository.NewFileStorage(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	var src remote.Source
	if cfg.Sync.Enabled {
		if src, err = remote.NewSourceFromConfig(cfg.Sync); err != nil {
			return nil, err
		}
	}
	return New(cfg, durable, src)
}

// New builds the container. source may be nil only when sync is disabled.
func New(cfg *config.Config, durable repository.WatchableStorage, source remote.Source) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if durable == nil {
		return nil, errors.New("storage is nil")
	}
	if cfg.Sync.Enabled && source == nil {
		return nil, errors.New("sync source is nil")
	}

	broker := events.NewBroker(eventQueueSize)
	session := repository.NewMemoryStorage()

	st := store.NewQuoteStore(durable, cfg.Data.QuotesKey, broker)
	idx := category.NewIndex(durable, cfg.Data.FilterKey, broker)
	st.OnChange(idx.Refresh)

	a := &App{
		Config:  cfg,
		Storage: durable,
		Session: session,
		Events:  broker,
		Store:   st,
		Index:   idx,
		Picker:  display.NewPicker(idx, session, LastQuoteKey, cfg.Misc.RandomSeed),
		Codec:   codec.New(st, schema.NewValidator()),
	}
	if cfg.Sync.Enabled {
		a.Sync = syncengine.New(st, source, syncengine.OptionsFromConfig(cfg.Sync))
	}

	a.BaseCtx, a.Cancel = context.WithCancel(context.Background())
	return a, nil
}

// Init loads the collection and restores the filter selection.
func (a *App) Init(ctx context.Context) error {
	if err := a.Store.Load(ctx); err != nil {
		return err
	}
	selected, err := a.Index.Restore(ctx)
	if err != nil {
		logger.WithComponent("app").Warnf("filter not restored: %v", err)
	}
	logger.WithComponent("app").Infof("ready with %d quotes, filter '%s'", a.Store.Len(), selected)
	return nil
}

// StartWatchers starts the durable file watcher and the sync schedule.
func (a *App) StartWatchers() error {
	if a.Config.Data.Watch {
		if err := a.Store.StartWatcher(a.BaseCtx, a.Storage); err != nil {
			return fmt.Errorf("cannot start quotes file watcher: %w", err)
		}
	}
	if a.Sync != nil {
		if err := a.Sync.Start(a.BaseCtx); err != nil {
			return fmt.Errorf("cannot start sync engine: %w", err)
		}
	}
	return nil
}

// SyncNow runs a manual sync tick.
func (a *App) SyncNow(ctx context.Context) (syncengine.Result, error) {
	if a.Sync == nil {
		return syncengine.Result{}, qerrors.ErrSyncDisabled
	}
	return a.Sync.SyncNow(ctx)
}

// Shutdown stops background work and lets an in-flight sync tick finish.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
	if a.Sync != nil {
		a.Sync.Stop()
		a.Sync.Wait()
	}
	if a.Events != nil {
		a.Events.Close()
	}
}

// SyncEnabled reports whether a sync engine is wired.
func (a *App) SyncEnabled() bool {
	return a.Sync != nil
}

// LastSyncResult returns the most recent tick outcome, if any.
func (a *App) LastSyncResult() (syncengine.Result, bool) {
	if a.Sync == nil {
		return syncengine.Result{}, false
	}
	return a.Sync.LastResult()
}
