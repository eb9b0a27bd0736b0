package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wpinocho/style-storefront/internal/cart"
	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/httpserver"
	"github.com/wpinocho/style-storefront/internal/metrics"
	"github.com/wpinocho/style-storefront/internal/middleware"
	"github.com/wpinocho/style-storefront/internal/newsletter"
	"github.com/wpinocho/style-storefront/internal/season"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithCatalog overrides the catalog service.
func WithCatalog(svc *catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Catalog = svc
	}
}

// WithCart wires a custom cart logic implementation.
func WithCart(logic cart.Logic) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Cart = logic
	}
}

// WithNewsletter wires a custom subscriber.
func WithNewsletter(sub newsletter.Subscriber) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Newsletter = sub
	}
}

// WithMetrics exposes collectors at /metrics.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// WithDate pins the clock to the given calendar day in UTC.
func WithDate(month time.Month, day int) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Clock = season.FixedClock(time.Date(2025, month, day, 12, 0, 0, 0, time.UTC))
		cfg.Location = time.UTC
	}
}

// WithPinnedDate forces the seasonal calendar to the given day regardless of the clock.
func WithPinnedDate(month time.Month, day int) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.PinnedDate = &season.Date{Month: month, Day: day}
	}
}

// NewServer constructs an httptest server running the storefront HTTP stack with sensible defaults.
// The clock defaults to September 10th, a day without a seasonal theme.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	src, err := catalog.SeedSource()
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc := catalog.NewService(src)
	cfg := httpserver.Config{
		Address:  ":0",
		Catalog:  svc,
		Cart:     cart.NewMemoryLogic(src, cart.WithCurrency("MXN")),
		Clock:    season.FixedClock(time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)),
		Location: time.UTC,
		Session:  middleware.SessionConfig{SigningKey: []byte("test-signing-key-0123456789")},
		Store:    httpserver.StoreInfo{Name: "STYLE", Currency: "MXN", BaseURL: "https://style.example"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client with a cookie jar that does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// CSRFToken returns the csrf cookie the jar holds for ts.
func CSRFToken(t testing.TB, client *http.Client, ts *httptest.Server) string {
	t.Helper()

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}
	t.Fatalf("no csrf cookie")
	return ""
}

// PostForm submits form values with the csrf token taken from the jar.
func PostForm(t testing.TB, client *http.Client, ts *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()

	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFormField, CSRFToken(t, client, ts))
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
