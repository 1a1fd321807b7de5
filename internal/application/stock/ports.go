package stock

import (
	"context"

	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el insert del movimiento y la
// actualización del balance se hagan visibles juntos o ninguno (unidad atómica).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
