package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockroom-api/internal/application/dto"
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
	domstock "github.com/tu-usuario/stockroom-api/internal/domain/stock"
)

// LedgerUseCase aplica movimientos de stock de forma transaccional: bloquea la
// fila del producto (SELECT FOR UPDATE), evalúa el balance con
// stock.NextBalance y persiste movimiento + balance en la misma transacción.
// Movimientos sobre productos distintos corren en paralelo; sobre el mismo
// producto se serializan por el lock de fila.
type LedgerUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movementRepo: movementRepo}
}

// MovementInput entrada para aplicar un movimiento.
type MovementInput struct {
	ProductID string
	Type      entity.MovementType
	Quantity  int
	Notes     string
}

// ApplyMovement valida la entrada, y dentro de una transacción: bloquea el
// producto, evalúa el balance y — solo si pasa — inserta el movimiento
// inmutable y actualiza stock_quantity/updated_at. Cualquier error deshace
// ambas escrituras.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	// Validación previa: nada toca la base si la entrada es inválida.
	if _, ok := entity.ParseMovementType(string(input.Type)); !ok {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Lock de fila: serializa leer-evaluar-escribir por producto.
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newBalance, err := domstock.NextBalance(product.StockQuantity, input.Type, input.Quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		movement := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Notes:     input.Notes,
			CreatedAt: now,
		}
		if err := movementRepo.Create(ctx, movement); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, product.ID, newBalance); err != nil {
			return err
		}

		resp = &dto.MovementResponse{
			ID:          movement.ID,
			ProductID:   product.ID,
			ProductSKU:  product.SKU,
			ProductName: product.Name,
			Type:        string(movement.Type),
			Quantity:    movement.Quantity,
			Notes:       movement.Notes,
			CreatedAt:   movement.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// StockIn atajo para POST /api/products/:id/stock-in.
func (uc *LedgerUseCase) StockIn(ctx context.Context, productID string, in dto.StockUpdateRequest) (*dto.MovementResponse, error) {
	return uc.ApplyMovement(ctx, MovementInput{
		ProductID: productID,
		Type:      entity.MovementIn,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
}

// StockOut atajo para POST /api/products/:id/stock-out.
func (uc *LedgerUseCase) StockOut(ctx context.Context, productID string, in dto.StockUpdateRequest) (*dto.MovementResponse, error) {
	return uc.ApplyMovement(ctx, MovementInput{
		ProductID: productID,
		Type:      entity.MovementOut,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
}

// ListMovements lista movimientos (lectura pura, fuera de transacción).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter := repository.MovementFilter{
		ProductID: in.ProductID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Type != "" {
		mt, ok := entity.ParseMovementType(in.Type)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		filter.Type = mt
	}
	list, total, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:          m.Movement.ID,
			ProductID:   m.Movement.ProductID,
			ProductSKU:  m.ProductSKU,
			ProductName: m.ProductName,
			Type:        string(m.Movement.Type),
			Quantity:    m.Movement.Quantity,
			Notes:       m.Movement.Notes,
			CreatedAt:   m.Movement.CreatedAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// ValidateCreateMovement valida el body del create general y devuelve errores
// por campo (vacío si todo está bien). La superficie bulk de la API los
// devuelve tal cual con HTTP 400.
func ValidateCreateMovement(in dto.CreateMovementRequest) map[string]string {
	errs := map[string]string{}
	if in.ProductID == "" {
		errs["product_id"] = "es requerido"
	}
	if _, ok := entity.ParseMovementType(in.Type); !ok {
		errs["movement_type"] = "debe ser in, out o adjustment"
	}
	if in.Quantity < 1 {
		errs["quantity"] = "debe ser un entero mayor o igual a 1"
	}
	return errs
}
