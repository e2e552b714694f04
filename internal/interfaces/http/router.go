package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/shipment"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerSvc      *ledger.Service
	CatalogUC      *catalog.UseCase
	ReceiptUC      *receipt.UseCase
	ShipmentUC     *shipment.UseCase
	JWTSecret      string
	MetricsEnabled bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Balances (consulta del ledger)
	balances := protected.Group("/balances")
	balanceHandler := NewBalanceHandler(deps.LedgerSvc)
	balances.Get("/", balanceHandler.List)

	// Resources (catálogo)
	resources := protected.Group("/resources")
	resourceHandler := NewResourceHandler(deps.CatalogUC)
	resources.Post("/", resourceHandler.Create)
	resources.Get("/", resourceHandler.List)
	resources.Get("/:id", resourceHandler.GetByID)
	resources.Put("/:id", resourceHandler.Update)
	resources.Post("/:id/archive", resourceHandler.Archive)
	resources.Delete("/:id", resourceHandler.Delete)

	// Units of measurement (catálogo)
	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.CatalogUC)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)
	units.Post("/:id/archive", unitHandler.Archive)
	units.Delete("/:id", unitHandler.Delete)

	// Clients (catálogo)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.CatalogUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Post("/:id/archive", clientHandler.Archive)
	clients.Delete("/:id", clientHandler.Delete)

	// Receipt documents (entradas de stock)
	receipts := protected.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.ReceiptUC)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Put("/:id", receiptHandler.Update)
	receipts.Delete("/:id", receiptHandler.Delete)

	// Shipment documents (salidas de stock, con firma y anulación)
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments.Post("/", shipmentHandler.Create)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Put("/:id", shipmentHandler.Update)
	shipments.Delete("/:id", shipmentHandler.Delete)
	shipments.Post("/:id/sign", shipmentHandler.Sign)
	shipments.Post("/:id/cancel", shipmentHandler.Cancel)
}
