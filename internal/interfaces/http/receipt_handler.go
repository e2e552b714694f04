package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReceiptHandler maneja las peticiones HTTP de documentos de recepción.
type ReceiptHandler struct {
	uc *receipt.UseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receipt.UseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Create POST /api/receipts
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return badDate(c)
	}
	doc, err := h.uc.Create(c.UserContext(), in.Number, date, in.Lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReceipt(doc))
}

// GetByID GET /api/receipts/:id
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceipt(doc))
}

// List GET /api/receipts?from=...&to=...&numbers=...&resource_ids=...&unit_ids=...
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	from, ok := dateParam(c, "from")
	if !ok {
		return badDate(c)
	}
	to, ok := dateParam(c, "to")
	if !ok {
		return badDate(c)
	}
	filter := repository.ReceiptFilter{
		DateFrom:    from,
		DateTo:      to,
		Numbers:     csvParam(c, "numbers"),
		ResourceIDs: csvParam(c, "resource_ids"),
		UnitIDs:     csvParam(c, "unit_ids"),
	}
	list, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceipts(list))
}

// Update PUT /api/receipts/:id
func (h *ReceiptHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return badDate(c)
	}
	doc, err := h.uc.Update(c.UserContext(), c.Params("id"), in.Number, date, in.Lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceipt(doc))
}

// Delete DELETE /api/receipts/:id
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
