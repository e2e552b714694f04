package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// UnitHandler maneja las peticiones HTTP del catálogo de unidades de medida.
type UnitHandler struct {
	uc *catalog.UseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *catalog.UseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Create POST /api/units
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	unit, err := h.uc.CreateUnit(c.UserContext(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromUnit(unit))
}

// GetByID GET /api/units/:id
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	unit, err := h.uc.GetUnit(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromUnit(unit))
}

// List GET /api/units?include_archived=true
func (h *UnitHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListUnits(c.UserContext(), c.QueryBool("include_archived", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromUnits(list))
}

// Update PUT /api/units/:id
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	unit, err := h.uc.UpdateUnit(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromUnit(unit))
}

// Archive POST /api/units/:id/archive
func (h *UnitHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.ArchiveUnit(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /api/units/:id
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteUnit(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
