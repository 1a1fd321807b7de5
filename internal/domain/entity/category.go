package entity

import "time"

// Category agrupa productos. Name es único; no puede eliminarse mientras
// existan productos que la referencien (FK protegida).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
