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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría. Name único (constraint en la base).
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.Name, category.Description, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza una categoría existente.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	query := `UPDATE categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, category.ID, category.Name, category.Description, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// categoryOrderBy whitelist de columnas de orden.
var categoryOrderBy = map[string]string{
	"name":       "c.name ASC",
	"created_at": "c.created_at DESC",
}

// List lista categorías con su conteo de productos, búsqueda y total.
func (r *CategoryRepo) List(ctx context.Context, filter repository.CategoryFilter) ([]*repository.CategoryWithCount, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.Search != "" {
		// Mismo plegado en ambos lados que en productos: término ya normalizado,
		// columnas con unaccent(lower(...)).
		where += fmt.Sprintf(" AND (unaccent(lower(c.name)) LIKE $%d OR unaccent(lower(c.description)) LIKE $%d)", pos, pos)
		args = append(args, likePattern(filter.Search))
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM categories c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	orderBy, ok := categoryOrderBy[filter.OrderBy]
	if !ok {
		orderBy = "c.name ASC"
	}
	query := `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at, count(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id` + where +
		fmt.Sprintf(" GROUP BY c.id ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*repository.CategoryWithCount
	for rows.Next() {
		var cc repository.CategoryWithCount
		c := &cc.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &cc.ProductCount); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &cc)
	}
	return list, total, rows.Err()
}

// CountProducts cuenta los productos que referencian la categoría.
func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category products: %w", err)
	}
	return count, nil
}

// Delete elimina una categoría. La FK con RESTRICT la protege mientras tenga
// productos: la violación se traduce a ErrCategoryInUse.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
