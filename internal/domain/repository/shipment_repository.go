package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ShipmentFilter filtro para listados de envíos.
type ShipmentFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Numbers     []string
	ClientIDs   []string
	ResourceIDs []string
	UnitIDs     []string
	Statuses    []entity.ShipmentStatus
}

// ShipmentRepository define el puerto de persistencia para documentos de envío.
type ShipmentRepository interface {
	Create(shipment *entity.Shipment) error
	GetByID(id string) (*entity.Shipment, error)
	// GetByIDForUpdate bloquea la cabecera del documento (SELECT FOR UPDATE)
	// para serializar firmas y anulaciones concurrentes del mismo documento.
	GetByIDForUpdate(id string) (*entity.Shipment, error)
	GetByNumber(number string) (*entity.Shipment, error)
	List(filter ShipmentFilter) ([]*entity.Shipment, error)
	// Update actualiza cabecera y reemplaza el juego de líneas completo.
	Update(shipment *entity.Shipment) error
	// UpdateStatus solo cambia el estado (firma/anulación).
	UpdateStatus(id string, status entity.ShipmentStatus) error
	Delete(id string) error
	UsesResource(resourceID string) (bool, error)
	UsesUnit(unitID string) (bool, error)
	UsesClient(clientID string) (bool, error)
}
