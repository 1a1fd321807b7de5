package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockroom-api/internal/application/auth"
	"github.com/tu-usuario/stockroom-api/internal/application/stock"
	"github.com/tu-usuario/stockroom-api/internal/application/usecase"
	"github.com/tu-usuario/stockroom-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *stock.LedgerUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token; admin y operador)
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleOperador),
	)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products (protegido). low-stock va antes de :id para que no lo capture.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.LedgerUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/stock-in", stockHandler.StockIn)
	products.Post("/:id/stock-out", stockHandler.StockOut)

	// Stock movements (protegido)
	movements := protected.Group("/stock-movements")
	movements.Get("/", stockHandler.ListMovements)
	movements.Post("/", stockHandler.CreateMovement)
}
