package entity

import "time"

// Roles de usuario para el middleware RBAC.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User usuario de la API (toda la superficie está detrás de auth).
type User struct {
	ID           string
	Email        string // único
	PasswordHash string
	Name         string
	Role         string // admin, operador
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
