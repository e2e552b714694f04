package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine línea de un documento de recepción: (recurso, unidad, cantidad > 0).
type ReceiptLine struct {
	ID         string
	ReceiptID  string
	ResourceID string
	UnitID     string
	Quantity   decimal.Decimal
	Position   int
}

// Receipt documento de recepción: entrada de stock al almacén.
// El número es único entre recepciones. Las líneas se reemplazan en bloque al editar.
type Receipt struct {
	ID        string
	Number    string
	Date      time.Time
	Lines     []ReceiptLine
	CreatedAt time.Time
	UpdatedAt time.Time
}
