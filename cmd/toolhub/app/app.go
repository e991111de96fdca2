// Package app wires configuration, logging, storage and commands for the
// toolhub CLI.
package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/query"
)

// App is the running CLI with its lazily opened dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu        sync.RWMutex
	store     store.Store
	analytics analytics.Log
	closers   []func() error
}

var _ application.Application = (*App)(nil)

// New creates an App with configuration loaded from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// GeminiAPIKey returns the key used for description enrichment.
func (a *App) GeminiAPIKey() string { return a.config.GeminiAPIKey }

// GeminiModel returns the model used for description enrichment.
func (a *App) GeminiModel() string { return a.config.GeminiModel }

// APIKey returns the admin key for the HTTP server.
func (a *App) APIKey() string { return a.config.APIKey }

// AnalyticsSchedule returns the cron spec for the nightly rollup.
func (a *App) AnalyticsSchedule() string { return a.config.AnalyticsSchedule }

// AnalyticsRetention returns how long raw analytics events are kept.
func (a *App) AnalyticsRetention() time.Duration { return a.config.AnalyticsRetention }

// Engine returns a query engine for kind using the configured page sizes.
func (a *App) Engine(kind catalog.Kind) *query.Engine {
	cfg := query.ConfigFor(kind)
	size := a.config.ToolPageSize
	if kind == catalog.KindGuide {
		size = a.config.GuidePageSize
	}
	if size > 0 {
		cfg.PageSize = size
	}
	cfg.PaginateSearch = a.config.PaginateSearch
	return query.New(cfg)
}

// Store returns the catalog store, opening the database on first use.
// Reads are retried and cached in front of bbolt.
func (a *App) Store() (store.Store, error) {
	a.mu.RLock()
	if a.store != nil {
		s := a.store
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.openLocked(); err != nil {
		return nil, err
	}
	return a.store, nil
}

// Analytics returns the analytics log kept in the same database.
func (a *App) Analytics() (analytics.Log, error) {
	a.mu.RLock()
	if a.analytics != nil {
		l := a.analytics
		a.mu.RUnlock()
		return l, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.openLocked(); err != nil {
		return nil, err
	}
	return a.analytics, nil
}

// openLocked opens the database once. Callers hold a.mu.
func (a *App) openLocked() error {
	if a.store != nil && a.analytics != nil {
		return nil
	}

	path := a.config.DBPath
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	db, err := store.OpenBolt(path)
	if err != nil {
		return err
	}
	log, err := analytics.NewBoltLog(db.DB())
	if err != nil {
		_ = db.Close()
		return err
	}

	if a.store == nil {
		retrying := store.NewRetrying(db, constants.MaxRetries, constants.RetryBackoff)
		a.store = store.NewCached(retrying, a.config.CacheTTL)
	}
	if a.analytics == nil {
		a.analytics = log
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Debug().Str("path", path).Msg("Opened database")
	return nil
}

// Shutdown releases the database.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets the store and analytics log, skipping the database.
func WithStore(s store.Store, log analytics.Log) Option {
	return func(a *App) error {
		a.store = s
		a.analytics = log
		return nil
	}
}
