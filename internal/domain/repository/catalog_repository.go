package repository

import (
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ResourceRepository define el puerto de persistencia para recursos del catálogo.
type ResourceRepository interface {
	Create(resource *entity.Resource) error
	GetByID(id string) (*entity.Resource, error)
	// GetByActiveName busca por nombre entre los no archivados (unicidad de nombre).
	GetByActiveName(name string) (*entity.Resource, error)
	List(includeArchived bool) ([]*entity.Resource, error)
	Update(resource *entity.Resource) error
	Delete(id string) error
}

// UnitRepository define el puerto de persistencia para unidades de medida.
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	GetByActiveName(name string) (*entity.Unit, error)
	List(includeArchived bool) ([]*entity.Unit, error)
	Update(unit *entity.Unit) error
	Delete(id string) error
}

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByActiveName(name string) (*entity.Client, error)
	List(includeArchived bool) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
}
