package entity

import "time"

// Resource representa un recurso almacenable (materia prima, producto, insumo).
// El nombre es único entre los no archivados; archivar lo saca de los listados
// sin romper las referencias de documentos y balances existentes.
type Resource struct {
	ID         string
	Name       string
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
