package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// BalanceHandler maneja las consultas del ledger de balances.
type BalanceHandler struct {
	svc *ledger.Service
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(svc *ledger.Service) *BalanceHandler {
	return &BalanceHandler{svc: svc}
}

// List GET /api/balances?resource_ids=a,b&unit_ids=c&include_zero=true
func (h *BalanceHandler) List(c *fiber.Ctx) error {
	filter := repository.BalanceFilter{
		ResourceIDs: csvParam(c, "resource_ids"),
		UnitIDs:     csvParam(c, "unit_ids"),
		IncludeZero: c.QueryBool("include_zero", false),
	}
	list, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromBalances(list))
}
