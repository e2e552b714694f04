package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// ResourceHandler maneja las peticiones HTTP del catálogo de recursos.
type ResourceHandler struct {
	uc *catalog.UseCase
}

// NewResourceHandler construye el handler.
func NewResourceHandler(uc *catalog.UseCase) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

// Create POST /api/resources
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateResourceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resource, err := h.uc.CreateResource(c.UserContext(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromResource(resource))
}

// GetByID GET /api/resources/:id
func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	resource, err := h.uc.GetResource(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromResource(resource))
}

// List GET /api/resources?include_archived=true
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListResources(c.UserContext(), c.QueryBool("include_archived", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromResources(list))
}

// Update PUT /api/resources/:id
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateResourceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resource, err := h.uc.UpdateResource(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromResource(resource))
}

// Archive POST /api/resources/:id/archive
func (h *ResourceHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.ArchiveResource(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /api/resources/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteResource(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
