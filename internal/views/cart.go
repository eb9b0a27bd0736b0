package views

import (
	"github.com/wpinocho/style-storefront/internal/cart"
	"github.com/wpinocho/style-storefront/internal/format"
)

// CartLine is one row of the cart page.
type CartLine struct {
	Key          string
	Title        string
	VariantTitle string
	Image        string
	Quantity     int
	Decrease     int
	Increase     int
	LinePrice    string
	CanIncrease  bool
}

// Cart is the cart page model.
type Cart struct {
	Layout
	Empty         bool
	Lines         []CartLine
	ItemCount     int
	Subtotal      string
	Total         string
	CheckoutError bool
}

// NewCart builds the cart page body for c.
func NewCart(layout Layout, c cart.Cart, checkoutFailed bool) Cart {
	v := Cart{
		Layout:        layout,
		Empty:         c.IsEmpty(),
		ItemCount:     c.ItemCount(),
		Subtotal:      format.Money(c.Total(), c.Currency, layout.Lang),
		Total:         format.Money(c.Total(), c.Currency, layout.Lang),
		CheckoutError: checkoutFailed,
	}
	for _, l := range c.Lines {
		v.Lines = append(v.Lines, CartLine{
			Key:          l.Key,
			Title:        l.Title,
			VariantTitle: l.VariantTitle,
			Image:        l.Image,
			Quantity:     l.Quantity,
			Decrease:     l.Quantity - 1,
			Increase:     l.Quantity + 1,
			LinePrice:    format.Money(l.Total(), c.Currency, layout.Lang),
			CanIncrease:  l.Quantity < cart.MaxLineQuantity,
		})
	}
	return v
}

// CheckoutStarted confirms a checkout handed off by the cart logic.
type CheckoutStarted struct {
	Layout
	Reference string
}

// Error is the model for error pages.
type Error struct {
	Layout
	Status  int
	Heading string
	Message string
}
