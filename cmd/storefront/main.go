package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wpinocho/style-storefront/internal/cart"
	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/config"
	"github.com/wpinocho/style-storefront/internal/httpserver"
	"github.com/wpinocho/style-storefront/internal/i18n"
	"github.com/wpinocho/style-storefront/internal/metrics"
	custommw "github.com/wpinocho/style-storefront/internal/middleware"
	"github.com/wpinocho/style-storefront/internal/observability"
	"github.com/wpinocho/style-storefront/internal/season"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "YAML config file (overrides STOREFRONT_CONFIG_FILE)")
	flag.Parse()

	if err := run(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.LoggerConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	src, err := loadCatalog(cfg.Catalog.File)
	if err != nil {
		return err
	}
	m := metrics.New()
	catalogSvc := catalog.NewService(src,
		catalog.WithPageSize(cfg.Catalog.PageSize),
		catalog.WithSimulationFactor(cfg.Catalog.SimulationFactor),
		catalog.WithCache(cfg.Catalog.SearchCacheSize, cfg.Catalog.SearchCacheTTL),
		catalog.WithRecorder(m),
	)

	bundle, err := i18n.Embedded(cfg.I18N.Default, cfg.I18N.Supported)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	var pinned *season.Date
	if month, day, ok := cfg.Theme.PinnedDate(); ok {
		pinned = &season.Date{Month: month, Day: day}
		logger.Info("seasonal calendar pinned", zap.String("date", cfg.Theme.Date))
	}

	signingKey := []byte(cfg.Session.SigningKey)
	if len(signingKey) == 0 {
		logger.Warn("session signing key not set; sessions will not survive a restart")
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:        cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
		Bundle:         bundle,
		Catalog:        catalogSvc,
		Cart: cart.NewMemoryLogic(src,
			cart.WithCurrency(cfg.Store.Currency),
			cart.WithCheckoutURL(cfg.Store.CheckoutURL),
		),
		Metrics:    m,
		Themes:     season.NewResolver(),
		Clock:      season.SystemClock(),
		Location:   cfg.Theme.Location(),
		PinnedDate: pinned,
		Session: custommw.SessionConfig{
			SigningKey: signingKey,
			Secure:     cfg.Session.Secure,
		},
		Store: httpserver.StoreInfo{
			Name:     cfg.Store.Name,
			Currency: cfg.Store.Currency,
			BaseURL:  cfg.Store.BaseURL,
		},
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("env", cfg.Env),
			zap.Strings("languages", bundle.Supported()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadCatalog(path string) (*catalog.StaticSource, error) {
	if path == "" {
		return catalog.SeedSource()
	}
	src, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return src, nil
}
