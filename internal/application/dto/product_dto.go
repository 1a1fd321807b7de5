package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// StockQuantity inicial es opcional (>= 0); ReorderLevel por defecto es 10.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity *int            `json:"stock_quantity"`
	ReorderLevel  *int            `json:"reorder_level"`
	Status        string          `json:"status"`
}

// UpdateProductRequest entrada para actualizar un producto.
// No permite tocar StockQuantity: el balance solo cambia vía movimientos.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"`
	Price        *decimal.Decimal `json:"price"`
	ReorderLevel *int             `json:"reorder_level"`
	Status       *string          `json:"status"`
}

// ProductResponse salida de un producto. NeedsReorder e IsInStock son
// derivados del balance, nunca columnas.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	Status        string          `json:"status"`
	NeedsReorder  bool            `json:"needs_reorder"`
	IsInStock     bool            `json:"is_in_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ListProductsRequest query params del listado de productos.
type ListProductsRequest struct {
	CategoryID string `query:"category_id"`
	Status     string `query:"status"`
	Search     string `query:"search"`
	LowStock   bool   `query:"low_stock"`
	OrderBy    string `query:"order_by"`
	PageRequest
}
