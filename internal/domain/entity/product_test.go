package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// NeedsReorder / IsInStock — derivados del balance, con frontera inclusiva
// ──────────────────────────────────────────────────────────────────────────────

func TestNeedsReorder_FronteraInclusiva(t *testing.T) {
	cases := []struct {
		name    string
		stock   int
		reorder int
		want    bool
	}{
		{"por debajo del umbral", 5, 10, true},
		{"exactamente en el umbral", 10, 10, true},
		{"por encima del umbral", 11, 10, false},
		{"stock cero con umbral cero", 0, 0, true},
		{"stock uno con umbral cero", 1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.Product{StockQuantity: tc.stock, ReorderLevel: tc.reorder}
			assert.Equal(t, tc.want, p.NeedsReorder(),
				"stock %d con umbral %d", tc.stock, tc.reorder)
		})
	}
}

func TestIsInStock_FronteraEnCero(t *testing.T) {
	assert.False(t, (&entity.Product{StockQuantity: 0}).IsInStock(),
		"balance 0 no está en stock")
	assert.True(t, (&entity.Product{StockQuantity: 1}).IsInStock(),
		"balance 1 está en stock")
}
