package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested product or collection does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidCatalog indicates the catalog source failed validation.
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
)

// Product is a sellable item as shown on the storefront. Prices are in minor units.
type Product struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Description  string    `yaml:"description"`
	Price        int64     `yaml:"price"`
	Image        string    `yaml:"image"`
	CollectionID string    `yaml:"collection"`
	Featured     bool      `yaml:"featured"`
	SoldOut      bool      `yaml:"soldOut"`
	Variants     []Variant `yaml:"variants"`
}

// Variant is a purchasable option of a product. A nil Price inherits the product price.
type Variant struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Price *int64 `yaml:"price"`
}

// Collection groups products for the home page grid.
type Collection struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// SearchFields exposes the text matched by FilterBySearch.
func (p Product) SearchFields() (string, string) { return p.Title, p.Description }

// Variant returns the variant with id, if any.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// UnitPrice returns the variant price when set, otherwise the product price.
func (p Product) UnitPrice(variantID string) int64 {
	if v, ok := p.Variant(variantID); ok && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// Source provides the raw product and collection lists.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Collections(ctx context.Context) ([]Collection, error)
}

// FindProduct looks a product up by id.
func FindProduct(ctx context.Context, src Source, id string) (Product, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// FindCollection looks a collection up by id.
func FindCollection(ctx context.Context, src Source, id string) (Collection, error) {
	collections, err := src.Collections(ctx)
	if err != nil {
		return Collection{}, err
	}
	for _, c := range collections {
		if c.ID == id {
			return c, nil
		}
	}
	return Collection{}, ErrNotFound
}
