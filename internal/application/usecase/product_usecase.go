package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockroom-api/internal/application/dto"
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
	"github.com/tu-usuario/stockroom-api/pkg/textnorm"
)

// ProductUseCase casos de uso CRUD para productos. StockQuantity solo cambia
// vía el ledger de movimientos, nunca por update directo.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un producto. SKU único, precio > 0, categoría obligatoria,
// reorder_level por defecto 10.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	if !entity.ValidProductStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	stockQty := 0
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		stockQty = *in.StockQuantity
	}
	reorder := entity.DefaultReorderLevel
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		reorder = *in.ReorderLevel
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Price:         in.Price,
		StockQuantity: stockQty,
		ReorderLevel:  reorder,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, category.Name), nil
}

// GetByID obtiene un producto por ID (con nombre de categoría).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	pc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, nil
	}
	return toProductResponse(&pc.Product, pc.CategoryName), nil
}

// Update actualiza un producto. StockQuantity queda fuera: el balance solo
// se mueve con movimientos de stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	pc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, nil
	}
	product := pc.Product
	categoryName := pc.CategoryName

	if in.SKU != nil && *in.SKU != product.SKU {
		existing, err := uc.repo.GetBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		category, err := uc.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
		categoryName = category.Name
	}
	if in.Price != nil {
		if !in.Price.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, &product); err != nil {
		return nil, err
	}
	return toProductResponse(&product, categoryName), nil
}

// List lista productos con filtros (categoría, estado, búsqueda, low_stock) y orden.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !entity.ValidProductStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		CategoryID: in.CategoryID,
		Status:     in.Status,
		Search:     textnorm.Fold(in.Search),
		LowStock:   in.LowStock,
		OrderBy:    in.OrderBy,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toProductListResponse(list, in.Limit, in.Offset, total), nil
}

// ListLowStock productos que necesitan reorden: stock_quantity <= reorder_level,
// evaluado por la base (nunca filtrado en memoria).
func (uc *ProductUseCase) ListLowStock(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.ListLowStock(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(list, page.Limit, page.Offset, total), nil
}

// Delete elimina un producto; sus movimientos caen en cascada (FK).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	pc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pc == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toProductListResponse(list []*repository.ProductWithCategory, limit, offset, total int) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, pc := range list {
		items = append(items, *toProductResponse(&pc.Product, pc.CategoryName))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
}

func toProductResponse(p *entity.Product, categoryName string) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CategoryName:  categoryName,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		Status:        p.Status,
		NeedsReorder:  p.NeedsReorder(),
		IsInStock:     p.IsInStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
