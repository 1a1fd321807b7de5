package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock (hecho inmutable).
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, string(movement.Type),
		movement.Quantity, movement.Notes, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List lista movimientos (más recientes primero) con sku y nombre del producto.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*repository.MovementWithProduct, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		where += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND m.movement_type = $%d", pos)
		args = append(args, string(filter.Type))
		pos++
	}

	var total int
	countQuery := `SELECT count(*) FROM stock_movements m` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `
		SELECT m.id, m.product_id, m.movement_type, m.quantity, m.notes, m.created_at, p.sku, p.name
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id` + where +
		fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*repository.MovementWithProduct
	for rows.Next() {
		var mp repository.MovementWithProduct
		m := &mp.Movement
		var movType string
		if err := rows.Scan(&m.ID, &m.ProductID, &movType, &m.Quantity, &m.Notes, &m.CreatedAt,
			&mp.ProductSKU, &mp.ProductName); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(movType)
		list = append(list, &mp)
	}
	return list, total, rows.Err()
}
