package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas Prometheus de la aplicación, expuestas en /metrics.
var (
	// BalanceAdjustments ajustes de balance aplicados, por dirección (increase/decrease).
	BalanceAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "balance_adjustments_total",
		Help:      "Ajustes de balance aplicados por el ledger.",
	}, []string{"direction"})

	// DocumentOperations operaciones de ciclo de vida completadas, por tipo de
	// documento (receipt/shipment) y operación (create/update/delete/sign/cancel).
	DocumentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "document_operations_total",
		Help:      "Operaciones de documentos completadas con éxito.",
	}, []string{"document", "operation"})

	// InsufficientStockRejections operaciones rechazadas por stock insuficiente.
	InsufficientStockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "insufficient_stock_rejections_total",
		Help:      "Operaciones rechazadas porque dejarían un balance en negativo.",
	})
)
