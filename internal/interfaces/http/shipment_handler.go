package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/shipment"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ShipmentHandler maneja las peticiones HTTP de documentos de envío.
type ShipmentHandler struct {
	uc *shipment.UseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipment.UseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create POST /api/shipments
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return badDate(c)
	}
	doc, err := h.uc.Create(c.UserContext(), in.Number, date, in.ClientID, in.Lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromShipment(doc))
}

// GetByID GET /api/shipments/:id
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShipment(doc))
}

// List GET /api/shipments?from=...&to=...&numbers=...&client_ids=...&statuses=draft,signed
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	from, ok := dateParam(c, "from")
	if !ok {
		return badDate(c)
	}
	to, ok := dateParam(c, "to")
	if !ok {
		return badDate(c)
	}
	var statuses []entity.ShipmentStatus
	for _, s := range csvParam(c, "statuses") {
		status := entity.ShipmentStatus(s)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido: " + s})
		}
		statuses = append(statuses, status)
	}
	filter := repository.ShipmentFilter{
		DateFrom:    from,
		DateTo:      to,
		Numbers:     csvParam(c, "numbers"),
		ClientIDs:   csvParam(c, "client_ids"),
		ResourceIDs: csvParam(c, "resource_ids"),
		UnitIDs:     csvParam(c, "unit_ids"),
		Statuses:    statuses,
	}
	list, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShipments(list))
}

// Update PUT /api/shipments/:id
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return badDate(c)
	}
	doc, err := h.uc.Update(c.UserContext(), c.Params("id"), in.Number, date, in.ClientID, in.Lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShipment(doc))
}

// Delete DELETE /api/shipments/:id
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sign POST /api/shipments/:id/sign
func (h *ShipmentHandler) Sign(c *fiber.Ctx) error {
	doc, err := h.uc.Sign(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShipment(doc))
}

// Cancel POST /api/shipments/:id/cancel
func (h *ShipmentHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromShipment(doc))
}
