package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ReceiptFilter filtro para listados de recepciones.
type ReceiptFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Numbers     []string
	ResourceIDs []string
	UnitIDs     []string
}

// ReceiptRepository define el puerto de persistencia para documentos de recepción.
type ReceiptRepository interface {
	Create(receipt *entity.Receipt) error
	GetByID(id string) (*entity.Receipt, error)
	// GetByIDForUpdate bloquea la cabecera del documento (SELECT FOR UPDATE)
	// para serializar ediciones y borrados concurrentes del mismo documento.
	GetByIDForUpdate(id string) (*entity.Receipt, error)
	GetByNumber(number string) (*entity.Receipt, error)
	List(filter ReceiptFilter) ([]*entity.Receipt, error)
	// Update actualiza cabecera y reemplaza el juego de líneas completo.
	Update(receipt *entity.Receipt) error
	Delete(id string) error
	// UsesResource / UsesUnit indican si alguna línea referencia el recurso/unidad.
	UsesResource(resourceID string) (bool, error)
	UsesUnit(unitID string) (bool, error)
}
