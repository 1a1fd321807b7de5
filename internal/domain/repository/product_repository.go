package repository

import (
	"context"

	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CategoryID string
	Status     string
	Search     string // busca en name, sku y description (término ya normalizado)
	LowStock   bool   // solo productos con stock_quantity <= reorder_level
	OrderBy    string // name | price | stock_quantity | created_at
	Limit      int
	Offset     int
}

// ProductWithCategory producto más el nombre de su categoría (para respuestas de lista/detalle).
type ProductWithCategory struct {
	Product      entity.Product
	CategoryName string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*ProductWithCategory, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar el ciclo leer-evaluar-escribir del balance dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste el nuevo balance y refresca updated_at.
	UpdateStock(ctx context.Context, id string, quantity int) error
	List(ctx context.Context, filter ProductFilter) ([]*ProductWithCategory, int, error)
	// ListLowStock evalúa stock_quantity <= reorder_level en la base
	// (comparación por conjunto, nunca filtrado en memoria).
	ListLowStock(ctx context.Context, limit, offset int) ([]*ProductWithCategory, int, error)
	Delete(ctx context.Context, id string) error
}
