package dto

import "time"

// CreateMovementRequest body para POST /api/stock-movements.
type CreateMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"movement_type"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// StockUpdateRequest body para los atajos stock-in / stock-out por producto.
type StockUpdateRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// MovementResponse payload de un movimiento persistido.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductSKU  string    `json:"product_sku"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"movement_type"`
	Quantity    int       `json:"quantity"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ListMovementsRequest query params del listado de movimientos.
type ListMovementsRequest struct {
	ProductID string `query:"product_id"`
	Type      string `query:"movement_type"`
	PageRequest
}
