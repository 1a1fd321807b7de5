package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados posibles de un producto.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// DefaultReorderLevel umbral de reorden por defecto para productos nuevos.
const DefaultReorderLevel = 10

// ValidProductStatus indica si el estado pertenece al enum permitido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product representa un SKU del catálogo. StockQuantity es el balance actual
// y solo se modifica vía movimientos de stock (nunca por update directo).
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Description   string
	CategoryID    string
	Price         decimal.Decimal // > 0
	StockQuantity int             // invariante: >= 0
	ReorderLevel  int             // >= 0
	Status        string          // active, inactive, discontinued
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NeedsReorder es derivado, nunca se persiste: stock en o por debajo del umbral.
func (p *Product) NeedsReorder() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// IsInStock es derivado, nunca se persiste.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}
