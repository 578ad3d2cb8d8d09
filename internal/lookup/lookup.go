// Package lookup implements the interactive product search used when
// recording a sale: a pure, synchronous, restartable filter over an
// in-memory catalog snapshot.
package lookup

import (
	"strings"

	"madeh-desk/internal/domain"

	"github.com/google/uuid"
)

// Catalog is a fixed-at-construction product list to filter against.
type Catalog struct {
	products []*domain.Product
}

// NewCatalog snapshots the given products.
func NewCatalog(products []*domain.Product) *Catalog {
	return &Catalog{products: products}
}

// Suggest returns the products whose name contains the query as a
// case-insensitive substring and that have stock available. An empty
// query yields no suggestions; out-of-stock products are never offered.
func (c *Catalog) Suggest(query string) []*domain.Product {
	if query == "" {
		return []*domain.Product{}
	}

	needle := strings.ToLower(query)
	matches := []*domain.Product{}
	for _, product := range c.products {
		if product.Quantity <= 0 {
			continue
		}
		if strings.Contains(strings.ToLower(product.Name), needle) {
			matches = append(matches, product)
		}
	}
	return matches
}

// Selector tracks the query text and the resolved selection for one
// sale-entry interaction.
type Selector struct {
	catalog  *Catalog
	query    string
	selected *uuid.UUID
}

// NewSelector creates a selector over the catalog with no selection.
func NewSelector(catalog *Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// SetQuery updates the query text and returns the current suggestions.
// Clearing the text clears any existing selection.
func (s *Selector) SetQuery(query string) []*domain.Product {
	s.query = query
	if query == "" {
		s.selected = nil
	}
	return s.catalog.Suggest(query)
}

// Select resolves the interaction to a single product id.
func (s *Selector) Select(id uuid.UUID) {
	s.selected = &id
}

// Selected returns the currently selected product id, if any.
func (s *Selector) Selected() (uuid.UUID, bool) {
	if s.selected == nil {
		return uuid.Nil, false
	}
	return *s.selected, true
}
