package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockroom-api/internal/application/dto"
	appstock "github.com/tu-usuario/stockroom-api/internal/application/stock"
	"github.com/tu-usuario/stockroom-api/internal/domain"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
	"github.com/tu-usuario/stockroom-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional
//
// memStore simula la base: productos + ledger de movimientos. memTxRunner
// serializa las transacciones con un mutex (equivalente al lock de fila en una
// sola fila caliente) y aplica rollback restaurando un snapshot si fn falla.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement

	// inyección de fallo para probar atomicidad
	failUpdateStock bool
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) balance(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.StockQuantity
	}
	return -1
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// memProductRepo implementa repository.ProductRepository sobre memStore.
type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*repository.ProductWithCategory, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &repository.ProductWithCategory{Product: *p}, nil
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateStock(ctx context.Context, id string, quantity int) error {
	if r.s.failUpdateStock {
		return errors.New("fallo inyectado en UpdateStock")
	}
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

func (r *memProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*repository.ProductWithCategory, int, error) {
	return nil, 0, nil
}

func (r *memProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*repository.ProductWithCategory, int, error) {
	return nil, 0, nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.products, id)
	return nil
}

// memMovementRepo implementa repository.StockMovementRepository sobre memStore.
type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*repository.MovementWithProduct, int, error) {
	var out []*repository.MovementWithProduct
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, &repository.MovementWithProduct{Movement: *m})
	}
	total := len(out)
	if filter.Offset > len(out) {
		out = nil
	} else {
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

// memTxRunner serializa transacciones y hace rollback por snapshot si fn falla.
type memTxRunner struct{ s *memStore }

func (tr *memTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tr.s.mu.Lock()
	defer tr.s.mu.Unlock()

	// snapshot para rollback
	prodSnap := make(map[string]*entity.Product, len(tr.s.products))
	for id, p := range tr.s.products {
		cp := *p
		prodSnap[id] = &cp
	}
	movSnap := make([]*entity.StockMovement, len(tr.s.movements))
	copy(movSnap, tr.s.movements)

	err := fn(&memProductRepo{s: tr.s}, &memMovementRepo{s: tr.s})
	if err != nil {
		tr.s.products = prodSnap
		tr.s.movements = movSnap
		return err
	}
	return nil
}

func newLedger(s *memStore) *appstock.LedgerUseCase {
	return appstock.NewLedgerUseCase(&memTxRunner{s: s}, &memMovementRepo{s: s})
}

func testProduct(id string, stock int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:            id,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		StockQuantity: stock,
		ReorderLevel:  10,
		Status:        entity.ProductStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement — semántica del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaActualizaBalanceYRegistraMovimiento(t *testing.T) {
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	resp, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "p1", Type: entity.MovementIn, Quantity: 5, Notes: "reposición",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, s.balance("p1"), "in debe dejar el balance en 15")
	assert.Equal(t, 1, s.movementCount(), "debe quedar exactamente un movimiento en el ledger")
	assert.Equal(t, "p1", resp.ProductID)
	assert.Equal(t, "SKU-p1", resp.ProductSKU)
	assert.Equal(t, "in", resp.Type)
	assert.Equal(t, 5, resp.Quantity)
	assert.NotEmpty(t, resp.ID)
}

func TestApplyMovement_SalidaExcesivaNoDejaRastro(t *testing.T) {
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	_, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "p1", Type: entity.MovementOut, Quantity: 15,
	})
	require.Error(t, err)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, 10, insErr.Available, "el error debe reportar el disponible")

	// Nada cambió: ni balance ni ledger.
	assert.Equal(t, 10, s.balance("p1"), "un movimiento rechazado no debe tocar el balance")
	assert.Equal(t, 0, s.movementCount(), "un movimiento rechazado no debe quedar en el ledger")
}

func TestApplyMovement_AjusteFijaBalanceAbsoluto(t *testing.T) {
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	resp, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "p1", Type: entity.MovementAdjustment, Quantity: 3, Notes: "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, s.balance("p1"), "adjustment debe fijar el balance en 3, no en 13")
	assert.Equal(t, "adjustment", resp.Type)
}

func TestApplyMovement_ProductoInexistenteRetorna404SinEscribir(t *testing.T) {
	s := newMemStore()
	uc := newLedger(s)

	_, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "no-existe", Type: entity.MovementIn, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.movementCount())
}

func TestApplyMovement_CantidadInvalidaFallaAntesDeLaTransaccion(t *testing.T) {
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	for _, qty := range []int{0, -3} {
		_, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
			ProductID: "p1", Type: entity.MovementOut, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, 10, s.balance("p1"))
	assert.Equal(t, 0, s.movementCount())
}

func TestApplyMovement_TipoInvalidoFalla(t *testing.T) {
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	_, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "p1", Type: entity.MovementType("transfer"), Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad — movimiento y balance se escriben juntos o ninguno
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_FalloTrasInsertarMovimientoDeshaceTodo(t *testing.T) {
	// El movimiento se inserta antes que el balance. Si la actualización del
	// balance falla, el rollback debe borrar también el movimiento insertado.
	s := newMemStore(testProduct("p1", 10))
	s.failUpdateStock = true
	uc := newLedger(s)

	_, err := uc.ApplyMovement(context.Background(), appstock.MovementInput{
		ProductID: "p1", Type: entity.MovementIn, Quantity: 5,
	})
	require.Error(t, err)

	assert.Equal(t, 10, s.balance("p1"), "el balance no debe cambiar si la transacción falla")
	assert.Equal(t, 0, s.movementCount(), "el movimiento insertado debe deshacerse con el rollback")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia — dos salidas simultáneas sobre el mismo producto
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidasConcurrentes_SoloUnaExcedeElDisponible(t *testing.T) {
	// Balance 10, out 5 y out 8 en paralelo. Las transacciones se serializan,
	// así que gane quien gane, la segunda siempre excede el disponible:
	// exactamente una debe tener éxito y el balance nunca puede ser negativo.
	s := newMemStore(testProduct("p1", 10))
	uc := newLedger(s)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, qty := range []int{5, 8} {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyMovement(context.Background(), appstock.MovementInput{
				ProductID: "p1", Type: entity.MovementOut, Quantity: qty,
			})
		}(i, qty)
	}
	wg.Wait()

	var okCount, insCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			insCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una salida debe tener éxito")
	assert.Equal(t, 1, insCount, "la otra debe fallar por stock insuficiente")

	final := s.balance("p1")
	assert.Contains(t, []int{5, 2}, final, "el balance final debe ser 10-5 o 10-8")
	assert.GreaterOrEqual(t, final, 0, "el balance nunca puede ser negativo")
	assert.Equal(t, 1, s.movementCount(), "solo la salida exitosa queda en el ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// ListMovements y validación por campo
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorProductoYTipo(t *testing.T) {
	s := newMemStore(testProduct("p1", 10), testProduct("p2", 10))
	uc := newLedger(s)
	ctx := context.Background()

	for _, in := range []appstock.MovementInput{
		{ProductID: "p1", Type: entity.MovementIn, Quantity: 5},
		{ProductID: "p1", Type: entity.MovementOut, Quantity: 2},
		{ProductID: "p2", Type: entity.MovementIn, Quantity: 7},
	} {
		_, err := uc.ApplyMovement(ctx, in)
		require.NoError(t, err)
	}

	out, err := uc.ListMovements(ctx, dto.ListMovementsRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	assert.Len(t, out.Items, 2)

	out, err = uc.ListMovements(ctx, dto.ListMovementsRequest{Type: "in"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
}

func TestListMovements_TipoInvalidoFalla(t *testing.T) {
	s := newMemStore()
	uc := newLedger(s)

	_, err := uc.ListMovements(context.Background(), dto.ListMovementsRequest{Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateCreateMovement_ErroresPorCampo(t *testing.T) {
	errs := appstock.ValidateCreateMovement(dto.CreateMovementRequest{})
	assert.Contains(t, errs, "product_id")
	assert.Contains(t, errs, "movement_type")
	assert.Contains(t, errs, "quantity")

	errs = appstock.ValidateCreateMovement(dto.CreateMovementRequest{
		ProductID: "p1", Type: "in", Quantity: 1,
	})
	assert.Empty(t, errs, "una entrada válida no debe producir errores de campo")
}
