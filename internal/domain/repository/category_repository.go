package repository

import (
	"context"

	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// CategoryFilter filtros del listado de categorías.
type CategoryFilter struct {
	Search  string // busca en name y description
	OrderBy string // name | created_at
	Limit   int
	Offset  int
}

// CategoryWithCount categoría más el número de productos que la referencian.
type CategoryWithCount struct {
	Category     entity.Category
	ProductCount int
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, filter CategoryFilter) ([]*CategoryWithCount, int, error)
	CountProducts(ctx context.Context, categoryID string) (int, error)
	// Delete devuelve domain.ErrCategoryInUse si hay productos asociados (FK RESTRICT).
	Delete(ctx context.Context, id string) error
}
