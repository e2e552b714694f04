package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLine línea de entrada para documentos de recepción y envío.
type DocumentLine struct {
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseDate acepta fechas "2006-01-02" o RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
