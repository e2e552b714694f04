package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateReceiptRequest alta de documento de recepción.
type CreateReceiptRequest struct {
	Number string         `json:"number"`
	Date   string         `json:"date"`
	Lines  []DocumentLine `json:"lines"`
}

// UpdateReceiptRequest edición de documento de recepción (reemplaza las líneas).
type UpdateReceiptRequest struct {
	Number string         `json:"number"`
	Date   string         `json:"date"`
	Lines  []DocumentLine `json:"lines"`
}

// ReceiptLineResponse línea de recepción.
type ReceiptLineResponse struct {
	ID         string          `json:"id"`
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReceiptResponse documento de recepción con líneas.
type ReceiptResponse struct {
	ID        string                `json:"id"`
	Number    string                `json:"number"`
	Date      time.Time             `json:"date"`
	Lines     []ReceiptLineResponse `json:"lines"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FromReceipt convierte la entidad a respuesta.
func FromReceipt(r *entity.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, ReceiptLineResponse{
			ID:         l.ID,
			ResourceID: l.ResourceID,
			UnitID:     l.UnitID,
			Quantity:   l.Quantity,
		})
	}
	return ReceiptResponse{
		ID:        r.ID,
		Number:    r.Number,
		Date:      r.Date,
		Lines:     lines,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromReceipts convierte una lista de recepciones.
func FromReceipts(list []*entity.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromReceipt(r))
	}
	return out
}

// CreateShipmentRequest alta de documento de envío (nace en borrador).
type CreateShipmentRequest struct {
	Number   string         `json:"number"`
	Date     string         `json:"date"`
	ClientID string         `json:"client_id"`
	Lines    []DocumentLine `json:"lines"`
}

// UpdateShipmentRequest edición de documento de envío en borrador.
type UpdateShipmentRequest struct {
	Number   string         `json:"number"`
	Date     string         `json:"date"`
	ClientID string         `json:"client_id"`
	Lines    []DocumentLine `json:"lines"`
}

// ShipmentLineResponse línea de envío.
type ShipmentLineResponse struct {
	ID         string          `json:"id"`
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ShipmentResponse documento de envío con estado y líneas.
type ShipmentResponse struct {
	ID        string                 `json:"id"`
	Number    string                 `json:"number"`
	Date      time.Time              `json:"date"`
	ClientID  string                 `json:"client_id"`
	Status    string                 `json:"status"`
	Lines     []ShipmentLineResponse `json:"lines"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// FromShipment convierte la entidad a respuesta.
func FromShipment(s *entity.Shipment) ShipmentResponse {
	lines := make([]ShipmentLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, ShipmentLineResponse{
			ID:         l.ID,
			ResourceID: l.ResourceID,
			UnitID:     l.UnitID,
			Quantity:   l.Quantity,
		})
	}
	return ShipmentResponse{
		ID:        s.ID,
		Number:    s.Number,
		Date:      s.Date,
		ClientID:  s.ClientID,
		Status:    string(s.Status),
		Lines:     lines,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromShipments convierte una lista de envíos.
func FromShipments(list []*entity.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromShipment(s))
	}
	return out
}

// BalanceResponse fila de balance con nombres resueltos.
type BalanceResponse struct {
	ResourceID   string          `json:"resource_id"`
	ResourceName string          `json:"resource_name"`
	UnitID       string          `json:"unit_id"`
	UnitName     string          `json:"unit_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	IsArchived   bool            `json:"is_archived"`
}

// FromBalances convierte las vistas de balance a respuesta.
func FromBalances(list []*entity.BalanceView) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, BalanceResponse{
			ResourceID:   b.ResourceID,
			ResourceName: b.ResourceName,
			UnitID:       b.UnitID,
			UnitName:     b.UnitName,
			Quantity:     b.Quantity,
			IsArchived:   b.IsArchived,
		})
	}
	return out
}
