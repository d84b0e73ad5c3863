package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/artpar/mockdeck/internal/config"
	"github.com/artpar/mockdeck/internal/filter"
	"github.com/artpar/mockdeck/internal/logging"
	"github.com/artpar/mockdeck/internal/mockapi"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/artpar/mockdeck/internal/storage"
	"github.com/artpar/mockdeck/internal/storage/filesystem"
	"github.com/artpar/mockdeck/internal/storage/sqlite"
	"github.com/charmbracelet/log"
)

// App is the main application container with dependency injection.
type App struct {
	config config.Config
	logger *log.Logger
	store  storage.Store
	api    *mockapi.API
}

// Option is a function that configures the App.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStore uses store instead of opening the configured backend.
func WithStore(store storage.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// New opens the store and loads the data API.
func New(ctx context.Context, opts ...Option) (*App, error) {
	a := &App{
		config: config.Default(config.DefaultDataDir()),
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		store, err := OpenStore(a.config)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	api, err := mockapi.New(ctx, a.store, mockapi.WithLogger(a.logger))
	if err != nil {
		a.store.Close()
		return nil, err
	}
	a.api = api

	a.logger.Debug("app ready", "backend", a.config.Storage.Backend, "path", a.config.Storage.Path)
	return a, nil
}

// OpenStore opens the backend named in cfg.
func OpenStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		store, err := sqlite.New(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.BackendYAML:
		store, err := filesystem.NewWorkspaceStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open yaml store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Config returns the application configuration.
func (a *App) Config() config.Config {
	return a.config
}

// Logger returns the shared logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// API returns the data API.
func (a *App) API() *mockapi.API {
	return a.api
}

// StartupFilter builds the sidebar filter from the configured preset.
func (a *App) StartupFilter() (sidebar.Filter, error) {
	p, err := filter.Preset(a.config.Sidebar.Filter)
	if err != nil {
		return sidebar.Filter{}, fmt.Errorf("sidebar.filter: %w", err)
	}
	return sidebar.Filter{Predicate: p}, nil
}

// NewHost creates a sidebar host over the data API using the configured
// strictness and startup filter. The caller activates and closes it.
func (a *App) NewHost(opts ...sidebar.Option) (*sidebar.Host, error) {
	f, err := a.StartupFilter()
	if err != nil {
		return nil, err
	}

	base := []sidebar.Option{
		sidebar.WithLogger(a.logger),
		sidebar.WithStrict(a.config.Sidebar.Strict),
		sidebar.WithFilter(f),
	}
	return sidebar.NewHost(a.api, append(base, opts...)...), nil
}

// Close closes the store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	if errors.Is(err, storage.ErrStoreClosed) {
		return nil
	}
	return err
}
