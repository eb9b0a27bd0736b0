package cart

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLineNotFound indicates the cart has no line with the given key.
	ErrLineNotFound = errors.New("cart: line not found")
	// ErrInvalidQuantity indicates a non-positive quantity was added.
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
	// ErrEmptyCart indicates checkout was requested for a cart without lines.
	ErrEmptyCart = errors.New("cart: cart is empty")
	// ErrSoldOut indicates the product cannot be added.
	ErrSoldOut = errors.New("cart: product sold out")
)

// MaxLineQuantity bounds the quantity of a single line.
const MaxLineQuantity = 99

// Line is one product/variant pairing in a cart.
type Line struct {
	Key          string
	ProductID    string
	VariantID    string
	Title        string
	VariantTitle string
	Image        string
	UnitPrice    int64
	Quantity     int
}

// Total is the unit price times quantity.
func (l Line) Total() int64 { return l.UnitPrice * int64(l.Quantity) }

// Cart is a snapshot of a shopping cart. Amounts are in minor units of Currency.
type Cart struct {
	ID       string
	Currency string
	Lines    []Line
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// ItemCount sums line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total sums line totals.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Checkout is the result of starting checkout for a cart.
type Checkout struct {
	ID        string
	URL       string
	Amount    int64
	Currency  string
	CreatedAt time.Time
}

// Logic owns cart state and checkout creation. The storefront renders its results
// and never mutates carts itself.
type Logic interface {
	// Cart returns the cart for id. Unknown or empty ids yield an empty cart.
	Cart(ctx context.Context, cartID string) (Cart, error)
	// Add adds qty of a product variant, creating the cart when cartID is unknown.
	Add(ctx context.Context, cartID, productID, variantID string, qty int) (Cart, error)
	// UpdateQuantity sets the quantity of a line; qty <= 0 removes it.
	UpdateQuantity(ctx context.Context, cartID, key string, qty int) (Cart, error)
	// Remove deletes a line.
	Remove(ctx context.Context, cartID, key string) (Cart, error)
	// CreateCheckout starts checkout and returns where to send the shopper.
	CreateCheckout(ctx context.Context, cartID, locale string) (Checkout, error)
}
