package repository

import (
	"context"

	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      entity.MovementType
	Limit     int
	Offset    int
}

// MovementWithProduct movimiento más sku y nombre del producto (payload de la API).
type MovementWithProduct struct {
	Movement    entity.StockMovement
	ProductSKU  string
	ProductName string
}

// StockMovementRepository define el puerto para el ledger de movimientos.
// Solo inserta y lee: los movimientos son hechos inmutables.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*MovementWithProduct, int, error)
}
