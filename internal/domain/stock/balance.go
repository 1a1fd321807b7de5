package stock

import (
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// NextBalance decide si un movimiento puede aplicarse sobre el balance actual
// y calcula el balance resultante (servicio de dominio, sin efectos).
//
//   - in:         current + quantity
//   - out:        current - quantity; falla con InsufficientStockError si quantity > current
//   - adjustment: fija el balance absoluto en quantity (no es un delta)
//
// Todos los tipos comparten el validador quantity >= 1, por lo que un ajuste
// solo puede fijar balances positivos.
func NextBalance(current int, movementType entity.MovementType, quantity int) (int, error) {
	if quantity < 1 {
		return 0, domain.ErrInvalidQuantity
	}
	switch movementType {
	case entity.MovementIn:
		return current + quantity, nil
	case entity.MovementOut:
		if quantity > current {
			return 0, &domain.InsufficientStockError{Available: current}
		}
		return current - quantity, nil
	case entity.MovementAdjustment:
		return quantity, nil
	}
	return 0, domain.ErrInvalidInput
}
