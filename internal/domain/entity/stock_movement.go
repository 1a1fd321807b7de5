package entity

import "time"

// MovementType es un enum cerrado: el enforcer de balance hace switch
// exhaustivo sobre estos tres valores.
type MovementType string

const (
	MovementIn         MovementType = "in"         // entrada
	MovementOut        MovementType = "out"        // salida
	MovementAdjustment MovementType = "adjustment" // ajuste: fija el balance absoluto
)

// ParseMovementType valida el valor recibido por la API.
func ParseMovementType(s string) (MovementType, bool) {
	switch MovementType(s) {
	case MovementIn, MovementOut, MovementAdjustment:
		return MovementType(s), true
	}
	return "", false
}

// StockMovement es un hecho inmutable: se crea una vez, nunca se actualiza ni
// se borra vía API (solo cae en cascada si se elimina el producto).
// Por eso no tiene UpdatedAt.
type StockMovement struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int // >= 1 para todos los tipos; en adjustment es el balance objetivo
	Notes     string
	CreatedAt time.Time
}
