package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockroom-api/internal/application/dto"
	appstock "github.com/tu-usuario/stockroom-api/internal/application/stock"
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
	apphttp "github.com/tu-usuario/stockroom-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para ejercitar el handler end-to-end (sin base de datos)
// ──────────────────────────────────────────────────────────────────────────────

type handlerStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

type handlerProductRepo struct{ s *handlerStore }

func (r *handlerProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *handlerProductRepo) GetByID(ctx context.Context, id string) (*repository.ProductWithCategory, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &repository.ProductWithCategory{Product: *p}, nil
}

func (r *handlerProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return nil, nil
}

func (r *handlerProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *handlerProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }

func (r *handlerProductRepo) UpdateStock(ctx context.Context, id string, quantity int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	return nil
}

func (r *handlerProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*repository.ProductWithCategory, int, error) {
	return nil, 0, nil
}

func (r *handlerProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*repository.ProductWithCategory, int, error) {
	return nil, 0, nil
}

func (r *handlerProductRepo) Delete(ctx context.Context, id string) error { return nil }

type handlerMovementRepo struct{ s *handlerStore }

func (r *handlerMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *handlerMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*repository.MovementWithProduct, int, error) {
	var out []*repository.MovementWithProduct
	for _, m := range r.s.movements {
		out = append(out, &repository.MovementWithProduct{Movement: *m})
	}
	return out, len(out), nil
}

type handlerTxRunner struct{ s *handlerStore }

func (tr *handlerTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tr.s.mu.Lock()
	defer tr.s.mu.Unlock()
	snap := len(tr.s.movements)
	err := fn(&handlerProductRepo{s: tr.s}, &handlerMovementRepo{s: tr.s})
	if err != nil {
		tr.s.movements = tr.s.movements[:snap]
		return err
	}
	return nil
}

// buildStockApp registra las rutas de stock sin middlewares de auth para
// probar solo el mapeo de estados HTTP.
func buildStockApp(products ...*entity.Product) (*fiber.App, *handlerStore) {
	s := &handlerStore{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	uc := appstock.NewLedgerUseCase(&handlerTxRunner{s: s}, &handlerMovementRepo{s: s})
	h := apphttp.NewStockHandler(uc)

	app := fiber.New()
	app.Post("/api/stock-movements", h.CreateMovement)
	app.Get("/api/stock-movements", h.ListMovements)
	app.Post("/api/products/:id/stock-in", h.StockIn)
	app.Post("/api/products/:id/stock-out", h.StockOut)
	return app, s
}

func stockProduct(id string, balance int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:            id,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		StockQuantity: balance,
		ReorderLevel:  10,
		Status:        entity.ProductStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/stock-movements — mapeo de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_SalidaValida_Retorna200(t *testing.T) {
	app, s := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/stock-movements", dto.CreateMovementRequest{
		ProductID: "p1", Type: "out", Quantity: 4, Notes: "venta mostrador",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.MovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "p1", out.ProductID)
	assert.Equal(t, "SKU-p1", out.ProductSKU)
	assert.Equal(t, "out", out.Type)
	assert.Equal(t, 4, out.Quantity)
	assert.Equal(t, 6, s.products["p1"].StockQuantity, "el balance debe quedar en 6")
}

func TestCreateMovement_StockInsuficiente_Retorna400ConDisponible(t *testing.T) {
	app, s := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/stock-movements", dto.CreateMovementRequest{
		ProductID: "p1", Type: "out", Quantity: 15,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Contains(t, out.Message, "10", "el mensaje debe incluir el disponible actual")

	assert.Equal(t, 10, s.products["p1"].StockQuantity, "el balance no debe cambiar")
	assert.Empty(t, s.movements, "no debe quedar ningún movimiento en el ledger")
}

func TestCreateMovement_CamposInvalidos_Retorna400PorCampo(t *testing.T) {
	app, _ := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/stock-movements", dto.CreateMovementRequest{
		Type: "transfer", Quantity: 0,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Errors, "product_id")
	assert.Contains(t, out.Errors, "movement_type")
	assert.Contains(t, out.Errors, "quantity")
}

func TestCreateMovement_ProductoInexistente_Retorna404(t *testing.T) {
	app, _ := buildStockApp()

	resp := postJSON(t, app, "/api/stock-movements", dto.CreateMovementRequest{
		ProductID: "no-existe", Type: "in", Quantity: 5,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateMovement_AjusteFijaBalance_Retorna200(t *testing.T) {
	app, s := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/stock-movements", dto.CreateMovementRequest{
		ProductID: "p1", Type: "adjustment", Quantity: 3, Notes: "conteo físico",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, s.products["p1"].StockQuantity, "adjustment fija el balance en 3")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atajos por producto: stock-in / stock-out
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_Retorna200YActualizaBalance(t *testing.T) {
	app, s := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/products/p1/stock-in", dto.StockUpdateRequest{Quantity: 5})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 15, s.products["p1"].StockQuantity)
}

func TestStockOut_CantidadCero_Retorna400(t *testing.T) {
	app, s := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/products/p1/stock-out", dto.StockUpdateRequest{Quantity: 0})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INVALID_QUANTITY", out.Code)
	assert.Equal(t, 10, s.products["p1"].StockQuantity)
}

func TestStockOut_ProductoInexistente_Retorna404(t *testing.T) {
	app, _ := buildStockApp()

	resp := postJSON(t, app, "/api/products/no-existe/stock-out", dto.StockUpdateRequest{Quantity: 1})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/stock-movements
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_TipoInvalido_Retorna400(t *testing.T) {
	app, _ := buildStockApp()

	req := httptest.NewRequest(http.MethodGet, "/api/stock-movements?movement_type=transfer", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMovements_Retorna200ConItems(t *testing.T) {
	app, _ := buildStockApp(stockProduct("p1", 10))

	resp := postJSON(t, app, "/api/products/p1/stock-in", dto.StockUpdateRequest{Quantity: 2})
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/stock-movements", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer listResp.Body.Close()

	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var out dto.MovementListResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&out))
	assert.Equal(t, 1, out.Page.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "in", out.Items[0].Type)
}
