package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

type catalogFile struct {
	Collections []Collection `yaml:"collections"`
	Products    []Product    `yaml:"products"`
}

// StaticSource serves a fixed catalog held in memory.
type StaticSource struct {
	products    []Product
	collections []Collection
}

// NewStaticSource wraps the provided lists. Slices are copied.
func NewStaticSource(products []Product, collections []Collection) *StaticSource {
	return &StaticSource{
		products:    append([]Product(nil), products...),
		collections: append([]Collection(nil), collections...),
	}
}

// SeedSource returns the catalog bundled with the binary.
func SeedSource() (*StaticSource, error) {
	return ParseYAML(seedCatalog)
}

// LoadFile reads a YAML catalog from path. An empty path loads the bundled seed.
func LoadFile(path string) (*StaticSource, error) {
	if strings.TrimSpace(path) == "" {
		return SeedSource()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseYAML(raw)
}

// ParseYAML decodes and validates a YAML catalog document.
func ParseYAML(raw []byte) (*StaticSource, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return NewStaticSource(doc.Products, doc.Collections), nil
}

func validate(doc catalogFile) error {
	collections := make(map[string]struct{}, len(doc.Collections))
	for i, c := range doc.Collections {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: collection %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := collections[c.ID]; dup {
			return fmt.Errorf("%w: duplicate collection %q", ErrInvalidCatalog, c.ID)
		}
		collections[c.ID] = struct{}{}
	}
	products := make(map[string]struct{}, len(doc.Products))
	for i, p := range doc.Products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: product %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %q", ErrInvalidCatalog, p.ID)
		}
		products[p.ID] = struct{}{}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %q has negative price", ErrInvalidCatalog, p.ID)
		}
		if p.CollectionID != "" {
			if _, ok := collections[p.CollectionID]; !ok {
				return fmt.Errorf("%w: product %q references unknown collection %q", ErrInvalidCatalog, p.ID, p.CollectionID)
			}
		}
	}
	return nil
}

// Products implements Source.
func (s *StaticSource) Products(context.Context) ([]Product, error) {
	return append([]Product(nil), s.products...), nil
}

// Collections implements Source.
func (s *StaticSource) Collections(context.Context) ([]Collection, error) {
	return append([]Collection(nil), s.collections...), nil
}
