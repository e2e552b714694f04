package entity

import "time"

// Unit representa una unidad de medida (kg, litro, caja).
// Mismo esquema de unicidad y archivado que Resource.
type Unit struct {
	ID         string
	Name       string
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
