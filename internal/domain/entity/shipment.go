package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentStatus estado del documento de envío. Máquina de estados cerrada:
// Draft -> Signed -> Cancelled; Signed puede además eliminarse revirtiendo el ledger.
// Cancelled es terminal.
type ShipmentStatus string

const (
	StatusDraft     ShipmentStatus = "draft"
	StatusSigned    ShipmentStatus = "signed"
	StatusCancelled ShipmentStatus = "cancelled"
)

// Valid indica si el valor corresponde a un estado conocido.
func (s ShipmentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSigned, StatusCancelled:
		return true
	}
	return false
}

// CanUpdate solo los borradores se pueden editar.
func (s ShipmentStatus) CanUpdate() bool { return s == StatusDraft }

// CanSign solo los borradores se pueden firmar.
func (s ShipmentStatus) CanSign() bool { return s == StatusDraft }

// CanCancel solo los firmados se pueden anular.
func (s ShipmentStatus) CanCancel() bool { return s == StatusSigned }

// ShipmentLine línea de un documento de envío: (recurso, unidad, cantidad > 0).
// Inmutable una vez que el documento deja el estado Draft.
type ShipmentLine struct {
	ID         string
	ShipmentID string
	ResourceID string
	UnitID     string
	Quantity   decimal.Decimal
	Position   int
}

// Shipment documento de envío: salida de stock hacia un cliente.
// Debe contener al menos una línea en todo momento. Solo la firma consume
// stock; crear o editar un borrador no toca el ledger.
type Shipment struct {
	ID        string
	Number    string
	Date      time.Time
	ClientID  string
	Status    ShipmentStatus
	Lines     []ShipmentLine
	CreatedAt time.Time
	UpdatedAt time.Time
}
