package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// ClientHandler maneja las peticiones HTTP del catálogo de clientes.
type ClientHandler struct {
	uc *catalog.UseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *catalog.UseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.uc.CreateClient(c.UserContext(), in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromClient(client))
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromClient(client))
}

// List GET /api/clients?include_archived=true
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListClients(c.UserContext(), c.QueryBool("include_archived", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromClients(list))
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.uc.UpdateClient(c.UserContext(), c.Params("id"), in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromClient(client))
}

// Archive POST /api/clients/:id/archive
func (h *ClientHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.ArchiveClient(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteClient(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
