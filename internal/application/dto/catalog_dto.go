package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateResourceRequest alta de recurso.
type CreateResourceRequest struct {
	Name string `json:"name"`
}

// UpdateResourceRequest renombrado de recurso.
type UpdateResourceRequest struct {
	Name string `json:"name"`
}

// ResourceResponse recurso del catálogo.
type ResourceResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromResource convierte la entidad a respuesta.
func FromResource(r *entity.Resource) ResourceResponse {
	return ResourceResponse{
		ID:         r.ID,
		Name:       r.Name,
		IsArchived: r.IsArchived,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromResources convierte una lista de recursos.
func FromResources(list []*entity.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromResource(r))
	}
	return out
}

// CreateUnitRequest alta de unidad de medida.
type CreateUnitRequest struct {
	Name string `json:"name"`
}

// UpdateUnitRequest renombrado de unidad de medida.
type UpdateUnitRequest struct {
	Name string `json:"name"`
}

// UnitResponse unidad de medida.
type UnitResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromUnit convierte la entidad a respuesta.
func FromUnit(u *entity.Unit) UnitResponse {
	return UnitResponse{
		ID:         u.ID,
		Name:       u.Name,
		IsArchived: u.IsArchived,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// FromUnits convierte una lista de unidades.
func FromUnits(list []*entity.Unit) []UnitResponse {
	out := make([]UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, FromUnit(u))
	}
	return out
}

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateClientRequest actualización de cliente.
type UpdateClientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ClientResponse cliente destinatario de envíos.
type ClientResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromClient convierte la entidad a respuesta.
func FromClient(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		IsArchived: c.IsArchived,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// FromClients convierte una lista de clientes.
func FromClients(list []*entity.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, FromClient(c))
	}
	return out
}
