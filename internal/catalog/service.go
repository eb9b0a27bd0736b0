package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"
)

const (
	// DefaultPageSize matches the page size the storefront ships with.
	DefaultPageSize = 50
	// MaxPageSize caps caller supplied page sizes.
	MaxPageSize = 100
	// DefaultSimulationFactor multiplies the real item count for the counters strip.
	DefaultSimulationFactor = 2500

	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// Search outcomes reported to the Recorder.
const (
	OutcomeBrowse  = "browse"
	OutcomeHit     = "results"
	OutcomeNoMatch = "empty"
)

var tracer = otel.Tracer("github.com/wpinocho/style-storefront/internal/catalog")

// Recorder receives catalog usage signals. Implementations must be safe for concurrent use.
type Recorder interface {
	SearchPerformed(outcome string)
	CacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) SearchPerformed(string) {}
func (nopRecorder) CacheLookup(bool)       {}

// Query is the caller-held browsing cursor.
type Query struct {
	Search       string
	CollectionID string
	Page         int
	PageSize     int
}

// Listing is everything the products section needs for one render.
type Listing struct {
	Query       Query
	Collections []Collection
	Selected    *Collection
	Items       []Product
	Meta        PageMeta
	Counters    Counters
}

// Empty reports whether the filtered list has no items at all.
func (l Listing) Empty() bool { return l.Meta.TotalItems == 0 }

// Service filters, paginates and decorates catalog listings.
type Service struct {
	source   Source
	factor   int64
	pageSize int
	cache    *expirable.LRU[string, []Product]
	recorder Recorder
}

// Option customises a Service.
type Option func(*Service)

// WithPageSize sets the default page size used when a query omits one.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = min(size, MaxPageSize)
		}
	}
}

// WithSimulationFactor sets the multiplier for InflateCounters.
func WithSimulationFactor(factor int64) Option {
	return func(s *Service) {
		if factor > 0 {
			s.factor = factor
		}
	}
}

// WithCache sizes the filtered-result cache. A non-positive size disables it.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size <= 0 {
			s.cache = nil
			return
		}
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		s.cache = expirable.NewLRU[string, []Product](size, nil, ttl)
	}
}

// WithRecorder wires usage reporting.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService builds a Service over src.
func NewService(src Source, opts ...Option) *Service {
	s := &Service{
		source:   src,
		factor:   DefaultSimulationFactor,
		pageSize: DefaultPageSize,
		cache:    expirable.NewLRU[string, []Product](defaultCacheSize, nil, defaultCacheTTL),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source exposes the underlying catalog source.
func (s *Service) Source() Source { return s.source }

// Collections lists all collections.
func (s *Service) Collections(ctx context.Context) ([]Collection, error) {
	return s.source.Collections(ctx)
}

// Browse resolves a query into a page of products. The requested page is
// clamped into range before slicing; an unknown collection id is ignored.
func (s *Service) Browse(ctx context.Context, q Query) (listing Listing, err error) {
	ctx, span := tracer.Start(ctx, "catalog.Browse")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	q.Search = strings.TrimSpace(q.Search)
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	q.PageSize = min(q.PageSize, MaxPageSize)

	collections, err := s.source.Collections(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("catalog: list collections: %w", err)
	}
	var selected *Collection
	if q.CollectionID != "" {
		for i := range collections {
			if collections[i].ID == q.CollectionID {
				selected = &collections[i]
				break
			}
		}
		if selected == nil {
			q.CollectionID = ""
		}
	}

	filtered, err := s.filtered(ctx, q)
	if err != nil {
		return Listing{}, err
	}

	q.Page = ClampPage(q.Page, TotalPages(len(filtered), q.PageSize))
	items, meta := Paginate(filtered, q.PageSize, q.Page)

	switch {
	case q.Search == "":
		s.recorder.SearchPerformed(OutcomeBrowse)
	case len(filtered) == 0:
		s.recorder.SearchPerformed(OutcomeNoMatch)
	default:
		s.recorder.SearchPerformed(OutcomeHit)
	}

	span.SetAttributes(
		attribute.Int("catalog.total_items", meta.TotalItems),
		attribute.Int("catalog.page", meta.Page),
		attribute.Bool("catalog.search", q.Search != ""),
		attribute.String("catalog.collection", q.CollectionID),
	)

	return Listing{
		Query:       q,
		Collections: collections,
		Selected:    selected,
		Items:       items,
		Meta:        meta,
		Counters:    InflateCounters(meta.TotalItems, s.factor),
	}, nil
}

func (s *Service) filtered(ctx context.Context, q Query) ([]Product, error) {
	key := cacheKey(q)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.recorder.CacheLookup(true)
			return hit, nil
		}
		s.recorder.CacheLookup(false)
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	if q.CollectionID != "" {
		scoped := make([]Product, 0, len(products))
		for _, p := range products {
			if p.CollectionID == q.CollectionID {
				scoped = append(scoped, p)
			}
		}
		products = scoped
	}
	products = FilterBySearch(products, q.Search)

	if s.cache != nil {
		s.cache.Add(key, products)
	}
	return products, nil
}

// Purge drops every cached result.
func (s *Service) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func cacheKey(q Query) string {
	return q.CollectionID + "\x00" + cases.Fold().String(q.Search)
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
