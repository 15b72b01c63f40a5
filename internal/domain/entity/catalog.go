package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct es un producto del catálogo de un negocio.
// Nunca se borra físicamente: las ventas históricas referencian Key.
type CatalogProduct struct {
	ID           string
	BusinessID   string
	Key          string
	Label        string
	DefaultPrice decimal.Decimal
	Position     int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claves del catálogo inicial.
const (
	ProductBidon20L  = "bidon_20L"
	ProductBidon12L  = "bidon_12L"
	ProductSoda      = "soda"
	ProductDispenser = "dispenser"
)

// DefaultCatalog devuelve el catálogo con el que nace un negocio (precios en cero,
// el admin los completa en el onboarding).
func DefaultCatalog(businessID string, now time.Time) []*CatalogProduct {
	seed := []struct{ key, label string }{
		{ProductBidon20L, "Bidón 20L"},
		{ProductBidon12L, "Bidón 12L"},
		{ProductSoda, "Soda"},
		{ProductDispenser, "Dispenser"},
	}
	out := make([]*CatalogProduct, 0, len(seed))
	for i, s := range seed {
		out = append(out, &CatalogProduct{
			BusinessID:   businessID,
			Key:          s.key,
			Label:        s.label,
			DefaultPrice: decimal.Zero,
			Position:     i,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out
}
