package cart

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wpinocho/style-storefront/internal/catalog"
)

const defaultCheckoutURL = "/checkout"

// MemoryLogic keeps carts in process memory. Safe for concurrent use.
type MemoryLogic struct {
	source      catalog.Source
	currency    string
	checkoutURL string
	now         func() time.Time

	mu    sync.Mutex
	carts map[string]*Cart
}

// MemoryOption customises MemoryLogic.
type MemoryOption func(*MemoryLogic)

// WithCurrency sets the ISO 4217 code carried by carts.
func WithCurrency(code string) MemoryOption {
	return func(m *MemoryLogic) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			m.currency = code
		}
	}
}

// WithCheckoutURL sets the hosted checkout base URL. The checkout id is appended as a query parameter.
func WithCheckoutURL(raw string) MemoryOption {
	return func(m *MemoryLogic) {
		if raw = strings.TrimSpace(raw); raw != "" {
			m.checkoutURL = raw
		}
	}
}

// WithNow overrides the clock used for checkout timestamps.
func WithNow(now func() time.Time) MemoryOption {
	return func(m *MemoryLogic) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryLogic builds an in-memory cart backed by the catalog source for product lookups.
func NewMemoryLogic(src catalog.Source, opts ...MemoryOption) *MemoryLogic {
	m := &MemoryLogic{
		source:      src,
		currency:    "MXN",
		checkoutURL: defaultCheckoutURL,
		now:         time.Now,
		carts:       make(map[string]*Cart),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryLogic) Cart(_ context.Context, cartID string) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[cartID]; ok {
		return snapshot(c), nil
	}
	return Cart{ID: cartID, Currency: m.currency}, nil
}

func (m *MemoryLogic) Add(ctx context.Context, cartID, productID, variantID string, qty int) (Cart, error) {
	if qty <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	product, err := catalog.FindProduct(ctx, m.source, productID)
	if err != nil {
		return Cart{}, err
	}
	if product.SoldOut {
		return Cart{}, ErrSoldOut
	}
	variant, hasVariant := product.Variant(variantID)
	if variantID != "" && !hasVariant {
		return Cart{}, fmt.Errorf("variant %q: %w", variantID, catalog.ErrNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[cartID]
	if !ok {
		c = &Cart{ID: ulid.Make().String(), Currency: m.currency}
		m.carts[c.ID] = c
	}

	idx := slices.IndexFunc(c.Lines, func(l Line) bool {
		return l.ProductID == product.ID && l.VariantID == variantID
	})
	if idx >= 0 {
		c.Lines[idx].Quantity = min(c.Lines[idx].Quantity+qty, MaxLineQuantity)
		return snapshot(c), nil
	}

	c.Lines = append(c.Lines, Line{
		Key:          ulid.Make().String(),
		ProductID:    product.ID,
		VariantID:    variantID,
		Title:        product.Title,
		VariantTitle: variant.Title,
		Image:        product.Image,
		UnitPrice:    product.UnitPrice(variantID),
		Quantity:     min(qty, MaxLineQuantity),
	})
	return snapshot(c), nil
}

func (m *MemoryLogic) UpdateQuantity(_ context.Context, cartID, key string, qty int) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, idx, err := m.lineLocked(cartID, key)
	if err != nil {
		return Cart{}, err
	}
	if qty <= 0 {
		c.Lines = slices.Delete(c.Lines, idx, idx+1)
		return snapshot(c), nil
	}
	c.Lines[idx].Quantity = min(qty, MaxLineQuantity)
	return snapshot(c), nil
}

func (m *MemoryLogic) Remove(_ context.Context, cartID, key string) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, idx, err := m.lineLocked(cartID, key)
	if err != nil {
		return Cart{}, err
	}
	c.Lines = slices.Delete(c.Lines, idx, idx+1)
	return snapshot(c), nil
}

// CreateCheckout hands the cart off and clears it.
func (m *MemoryLogic) CreateCheckout(_ context.Context, cartID, locale string) (Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[cartID]
	if !ok || len(c.Lines) == 0 {
		return Checkout{}, ErrEmptyCart
	}

	id := ulid.Make().String()
	target, err := checkoutTarget(m.checkoutURL, id, locale)
	if err != nil {
		return Checkout{}, err
	}
	out := Checkout{
		ID:        id,
		URL:       target,
		Amount:    c.Total(),
		Currency:  c.Currency,
		CreatedAt: m.now().UTC(),
	}
	delete(m.carts, cartID)
	return out, nil
}

func (m *MemoryLogic) lineLocked(cartID, key string) (*Cart, int, error) {
	c, ok := m.carts[cartID]
	if !ok {
		return nil, -1, ErrLineNotFound
	}
	idx := slices.IndexFunc(c.Lines, func(l Line) bool { return l.Key == key })
	if idx < 0 {
		return nil, -1, ErrLineNotFound
	}
	return c, idx, nil
}

func checkoutTarget(base, id, locale string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("cart: parse checkout url: %w", err)
	}
	q := u.Query()
	q.Set("checkout", id)
	if locale != "" {
		q.Set("locale", locale)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func snapshot(c *Cart) Cart {
	return Cart{ID: c.ID, Currency: c.Currency, Lines: slices.Clone(c.Lines)}
}
