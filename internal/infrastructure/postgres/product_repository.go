package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, category_id, price, stock_quantity, reorder_level, status, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, category_id, price, stock_quantity, reorder_level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.CategoryID,
		product.Price, product.StockQuantity, product.ReorderLevel, product.Status,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound // category_id no existe
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con el nombre de su categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*repository.ProductWithCategory, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.description, p.category_id, p.price, p.stock_quantity, p.reorder_level, p.status, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`
	pc, err := scanProductWithCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return pc, nil
}

// GetBySKU obtiene un producto por SKU (para validar unicidad).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, sku).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.Price,
		&p.StockQuantity, &p.ReorderLevel, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Serializa el ciclo leer-evaluar-escribir del balance dentro de la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.Price,
		&p.StockQuantity, &p.ReorderLevel, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return &p, nil
}

// Update actualiza un producto existente. No toca stock_quantity: el balance
// solo cambia vía UpdateStock dentro del ledger.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, category_id = $5, price = $6, reorder_level = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.CategoryID,
		product.Price, product.ReorderLevel, product.Status, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock persiste el nuevo balance y refresca updated_at (usado por el ledger).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, quantity int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// productOrderBy whitelist de columnas de orden (evita inyección por query param).
var productOrderBy = map[string]string{
	"name":           "p.name ASC",
	"price":          "p.price ASC",
	"stock_quantity": "p.stock_quantity ASC",
	"created_at":     "p.created_at DESC",
}

// List lista productos con filtros y total.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*repository.ProductWithCategory, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.CategoryID != "" {
		where += fmt.Sprintf(" AND p.category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND p.status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.Search != "" {
		// El término llega plegado (minúsculas, sin tildes); unaccent pliega
		// igual el lado de la base para que "café" encuentre "Café Premium".
		where += fmt.Sprintf(" AND (unaccent(lower(p.name)) LIKE $%d OR unaccent(lower(p.sku)) LIKE $%d OR unaccent(lower(p.description)) LIKE $%d)", pos, pos, pos)
		args = append(args, likePattern(filter.Search))
		pos++
	}
	if filter.LowStock {
		// Comparación por conjunto en la base, nunca filtrado en memoria.
		where += " AND p.stock_quantity <= p.reorder_level"
	}

	var total int
	countQuery := `SELECT count(*) FROM products p` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy, ok := productOrderBy[filter.OrderBy]
	if !ok {
		orderBy = "p.created_at DESC"
	}
	query := `
		SELECT p.id, p.sku, p.name, p.description, p.category_id, p.price, p.stock_quantity, p.reorder_level, p.status, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id` + where +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*repository.ProductWithCategory
	for rows.Next() {
		pc, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, pc)
	}
	return list, total, rows.Err()
}

// ListLowStock productos con stock_quantity <= reorder_level, los más críticos primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*repository.ProductWithCategory, int, error) {
	return r.List(ctx, repository.ProductFilter{
		LowStock: true,
		OrderBy:  "stock_quantity",
		Limit:    limit,
		Offset:   offset,
	})
}

// Delete elimina un producto; sus movimientos caen en cascada (ON DELETE CASCADE).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanProductWithCategory(row pgxScanner) (*repository.ProductWithCategory, error) {
	var pc repository.ProductWithCategory
	p := &pc.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.Price,
		&p.StockQuantity, &p.ReorderLevel, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&pc.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &pc, nil
}
