package httpserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wpinocho/style-storefront/internal/cart"
	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/i18n"
	"github.com/wpinocho/style-storefront/internal/metrics"
	custommw "github.com/wpinocho/style-storefront/internal/middleware"
	"github.com/wpinocho/style-storefront/internal/newsletter"
	"github.com/wpinocho/style-storefront/internal/observability"
	"github.com/wpinocho/style-storefront/internal/season"
	"github.com/wpinocho/style-storefront/internal/templates"
	"github.com/wpinocho/style-storefront/public"
)

// StoreInfo is the storefront identity shown in pages and structured data.
type StoreInfo struct {
	Name     string
	Currency string
	BaseURL  string
}

// Config holds runtime options and collaborators for the storefront HTTP server.
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Logger     *zap.Logger
	Bundle     *i18n.Bundle
	Catalog    *catalog.Service
	Cart       cart.Logic
	Newsletter newsletter.Subscriber
	Metrics    *metrics.Metrics

	Themes *season.Resolver
	Clock  season.Clock
	// Location is the store time zone used to pick the calendar day.
	Location *time.Location
	// PinnedDate forces the theme calendar to one day when set.
	PinnedDate *season.Date

	Session custommw.SessionConfig
	Store   StoreInfo
	// Assets overrides the embedded static files.
	Assets fs.FS
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	cfg, err := withDefaults(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := templates.New(cfg.Bundle)
	if err != nil {
		return nil, err
	}
	assets := cfg.Assets
	if assets == nil {
		if assets, err = public.StaticFS(); err != nil {
			return nil, fmt.Errorf("embed static: %w", err)
		}
	}

	var observer observability.RequestObserver
	var recorder storeRecorder = nopRecorder{}
	if cfg.Metrics != nil {
		observer = cfg.Metrics
		recorder = cfg.Metrics
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(cfg.Logger))
	router.Use(observability.RequestLogger(observer))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(cfg.RequestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler())
	}
	router.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(assets)))

	h := &handlers{
		cfg:      cfg,
		renderer: renderer,
		recorder: recorder,
	}

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX)
		r.Use(custommw.Session(cfg.Session))
		r.Use(custommw.Locale(cfg.Bundle, cfg.Session.Secure))
		r.Use(custommw.CSRF(cfg.Session.Secure))
		r.Use(custommw.VaryLocale)

		r.Get("/", h.home)
		r.Get("/fragments/products", h.productsFragment)
		r.Get("/cart", h.cartPage)
		r.Post("/cart/items", h.addItem)
		r.Post("/cart/items/{key}/quantity", h.updateQuantity)
		r.Post("/cart/items/{key}/remove", h.removeItem)
		r.Post("/cart/checkout", h.checkout)
		r.Get("/checkout", h.checkoutStarted)
		r.Post("/newsletter", h.subscribe)
		r.NotFound(h.notFound)
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}, nil
}

func withDefaults(cfg Config) (Config, error) {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Store.Currency == "" {
		cfg.Store.Currency = "MXN"
	}
	if cfg.Bundle == nil {
		bundle, err := i18n.Embedded(i18n.DefaultLanguage, nil)
		if err != nil {
			return cfg, fmt.Errorf("load locales: %w", err)
		}
		cfg.Bundle = bundle
	}
	if cfg.Catalog == nil {
		src, err := catalog.SeedSource()
		if err != nil {
			return cfg, fmt.Errorf("load seed catalog: %w", err)
		}
		cfg.Catalog = catalog.NewService(src)
	}
	if cfg.Cart == nil {
		cfg.Cart = cart.NewMemoryLogic(cfg.Catalog.Source(), cart.WithCurrency(cfg.Store.Currency))
	}
	if cfg.Newsletter == nil {
		cfg.Newsletter = newsletter.LogSubscriber{}
	}
	if cfg.Themes == nil {
		cfg.Themes = season.NewResolver()
	}
	if cfg.Clock == nil {
		cfg.Clock = season.SystemClock()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return cfg, nil
}

// storeRecorder receives storefront usage signals.
type storeRecorder interface {
	ThemeRendered(key string)
	CartMutation(op string, err error)
	NewsletterSignup()
}

type nopRecorder struct{}

func (nopRecorder) ThemeRendered(string)        {}
func (nopRecorder) CartMutation(string, error) {}
func (nopRecorder) NewsletterSignup()           {}
