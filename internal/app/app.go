package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/basket/internal/config"
	"github.com/five82/basket/internal/logging"
	"github.com/five82/basket/internal/prefs"
	"github.com/five82/basket/internal/shop"
	"github.com/five82/basket/internal/state"
	"github.com/five82/basket/internal/stockcheck"
	"github.com/five82/basket/internal/ui"
)

// Options configure the basket TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/basket/prefs.toml
	PollEvery  int    // catalog refresh in seconds; zero uses the config value
}

// Session is one wired cart: API client, catalog, store and stock checks.
type Session struct {
	Config  config.Config
	Logger  *zap.Logger
	Client  *shop.Client
	Catalog *state.Catalog
	Store   *state.Store
	Checks  *stockcheck.Orchestrator
}

// NewSession wires a cart against the API in cfg. Outstanding stock checks
// fail once ctx is cancelled.
func NewSession(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := shop.NewClient(cfg.APIBind,
		shop.WithTimeout(cfg.RequestTimeout),
		shop.WithLogger(logger.Named("shop")),
	)
	if err != nil {
		return nil, fmt.Errorf("init shop client: %w", err)
	}

	checks := stockcheck.New(client,
		stockcheck.WithContext(ctx),
		stockcheck.WithTimeout(cfg.RequestTimeout),
		stockcheck.WithLogger(logger.Named("stockcheck")),
	)
	store := state.New(
		state.WithLogger(logger.Named("store")),
		state.WithEffects(checks),
	)

	return &Session{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Catalog: &state.Catalog{},
		Store:   store,
		Checks:  checks,
	}, nil
}

// RefreshCatalog loads the product list once.
func (s *Session) RefreshCatalog(ctx context.Context) state.CatalogSnapshot {
	refresh(ctx, s.Catalog, s.Client, s.Logger)
	return s.Catalog.Snapshot()
}

// Run boots the basket TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Path: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := NewSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	interval := cfg.CatalogRefresh
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the catalog before the first frame.
	session.RefreshCatalog(ctx)

	logger.Info("basket started", zap.String("api_bind", cfg.APIBind), zap.Duration("catalog_refresh", interval))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pollCatalog(gctx, session.Catalog, session.Client, interval, logger.Named("catalog"))
	})
	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:   gctx,
			Store:     session.Store,
			Catalog:   session.Catalog,
			Checks:    session.Checks,
			Config:    &cfg,
			Logger:    logger.Named("ui"),
			ThemeName: userPrefs.Theme,
			ShowLogs:  userPrefs.ShowLogs,
			PrefsPath: opts.PrefsPath,
			LogPath:   cfg.LogFile,
		})
	})

	err = g.Wait()
	session.Checks.Wait()
	logger.Info("basket stopped")
	return err
}
