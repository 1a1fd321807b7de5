package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("la cantidad debe ser mayor o igual a 1")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrCategoryInUse      = errors.New("la categoría tiene productos asociados")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrConcurrencyConflict: la transacción no pudo serializarse frente a otra
	// actualización del mismo producto; el cliente debe reintentar la operación.
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// InsufficientStockError indica que una salida excede el balance actual.
// Lleva el stock disponible para que el cliente pueda mostrarlo.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d", e.Available)
}

// Is permite detectar el error con errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
