package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
	"github.com/tu-usuario/stockroom-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/stockroom-api/pkg/textnorm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Querier que captura el SQL y los argumentos generados por los repositorios.
// Corta la ejecución en el primer Scan para inspeccionar la consulta sin base.
// ──────────────────────────────────────────────────────────────────────────────

var errIntercepted = errors.New("consulta interceptada")

type capturedQuery struct {
	sql  string
	args []any
}

type captureQuerier struct {
	queries []capturedQuery
}

func (q *captureQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, capturedQuery{sql: sql, args: args})
	return pgconn.CommandTag{}, errIntercepted
}

func (q *captureQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, capturedQuery{sql: sql, args: args})
	return nil, errIntercepted
}

func (q *captureQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, capturedQuery{sql: sql, args: args})
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(dest ...any) error { return errIntercepted }

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda: ambos lados plegados
//
// El término llega normalizado (textnorm.Fold) y la consulta debe plegar
// igual las columnas con unaccent(lower(...)). Si solo se pliega un lado,
// "café" nunca encuentra un producto guardado como "Café Premium".
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_BusquedaPliegaAmbosLados(t *testing.T) {
	q := &captureQuerier{}
	repo := postgres.NewProductRepository(q)

	term := textnorm.Fold("café") // "cafe", como lo entrega el caso de uso
	_, _, err := repo.List(context.Background(), repository.ProductFilter{Search: term})
	require.Error(t, err)
	require.NotEmpty(t, q.queries)

	count := q.queries[0]
	assert.Contains(t, count.sql, "unaccent(lower(p.name))",
		"la columna name debe plegarse en la base")
	assert.Contains(t, count.sql, "unaccent(lower(p.sku))")
	assert.Contains(t, count.sql, "unaccent(lower(p.description))")
	require.Len(t, count.args, 1)
	assert.Equal(t, "%cafe%", count.args[0],
		"el patrón debe llevar el término ya plegado")
}

func TestCategoryList_BusquedaPliegaAmbosLados(t *testing.T) {
	q := &captureQuerier{}
	repo := postgres.NewCategoryRepository(q)

	_, _, err := repo.List(context.Background(), repository.CategoryFilter{Search: textnorm.Fold("Lácteos")})
	require.Error(t, err)
	require.NotEmpty(t, q.queries)

	count := q.queries[0]
	assert.Contains(t, count.sql, "unaccent(lower(c.name))")
	assert.Contains(t, count.sql, "unaccent(lower(c.description))")
	require.Len(t, count.args, 1)
	assert.Equal(t, "%lacteos%", count.args[0])
}

// El plegado del término y el de la base coinciden: el contenido plegado
// contiene el término plegado, con o sin tildes en la entrada.
func TestFold_TerminoYContenidoCoinciden(t *testing.T) {
	content := textnorm.Fold("Café Premium")
	assert.Contains(t, content, textnorm.Fold("café"))
	assert.Contains(t, content, textnorm.Fold("cafe"))
	assert.Contains(t, content, textnorm.Fold("PREMIUM"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Comodines de LIKE: % y _ del usuario se buscan literales
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_EscapaComodinesDeLike(t *testing.T) {
	q := &captureQuerier{}
	repo := postgres.NewProductRepository(q)

	_, _, err := repo.List(context.Background(), repository.ProductFilter{Search: "50%_off\\x"})
	require.Error(t, err)
	require.NotEmpty(t, q.queries)

	count := q.queries[0]
	require.Len(t, count.args, 1)
	assert.Equal(t, `%50\%\_off\\x%`, count.args[0],
		"%, _ y \\ del término deben escaparse para buscarse literales")
}

func TestCategoryList_EscapaComodinesDeLike(t *testing.T) {
	q := &captureQuerier{}
	repo := postgres.NewCategoryRepository(q)

	_, _, err := repo.List(context.Background(), repository.CategoryFilter{Search: "_bebidas%"})
	require.Error(t, err)
	require.NotEmpty(t, q.queries)

	count := q.queries[0]
	require.Len(t, count.args, 1)
	assert.Equal(t, `%\_bebidas\%%`, count.args[0])
}
