package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// Pair identifica un balance: par (recurso, unidad de medida).
type Pair struct {
	ResourceID string
	UnitID     string
}

// Service es el punto único por el que pasa todo cambio de cantidad.
// Aplica deltas con bloqueo de fila (SELECT FOR UPDATE) y garantiza que
// ningún balance quede en negativo.
type Service struct {
	txRunner  TxRunner
	balances  repository.BalanceRepository
	resources repository.ResourceRepository
	units     repository.UnitRepository
	log       *logger.Logger
}

// NewService construye el ledger de balances.
func NewService(
	txRunner TxRunner,
	balances repository.BalanceRepository,
	resources repository.ResourceRepository,
	units repository.UnitRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:  txRunner,
		balances:  balances,
		resources: resources,
		units:     units,
		log:       log,
	}
}

// Adjust aplica delta (positivo o negativo) al balance del par dentro de una
// transacción propia, creando la fila si no existe (cantidad inicial 0).
// Falla con InsufficientStock si el resultado quedaría negativo; en ese caso
// no se crea ni muta ninguna fila.
func (s *Service) Adjust(ctx context.Context, resourceID, unitID string, delta decimal.Decimal, reason string) (*entity.Balance, error) {
	res, err := s.resources.GetByID(resourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.NewNotFound("Resource", resourceID)
	}
	unit, err := s.units.GetByID(unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.NewNotFound("Unit of Measurement", unitID)
	}

	var adjusted *entity.Balance
	err = s.txRunner.Run(ctx, func(balRepo repository.BalanceRepository) error {
		adjusted, err = s.AdjustInTx(balRepo, resourceID, unitID, delta, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

// AdjustInTx aplica delta usando el repositorio de balances del caller (misma
// transacción). La fila queda bloqueada (FOR UPDATE); si no existía se crea en
// cero dentro de la tx, de modo que un fallo posterior la revierte con el rollback.
func (s *Service) AdjustInTx(balRepo repository.BalanceRepository, resourceID, unitID string, delta decimal.Decimal, reason string) (*entity.Balance, error) {
	bal, err := balRepo.GetForUpdate(resourceID, unitID)
	if err != nil {
		return nil, err
	}
	newQty := bal.Quantity.Add(delta)
	if newQty.IsNegative() {
		metrics.InsufficientStockRejections.Inc()
		return nil, domain.NewInsufficientStock(s.ResourceName(resourceID), delta.Neg(), bal.Quantity)
	}
	now := time.Now()
	if bal.ID == "" {
		bal.ID = uuid.New().String()
		bal.CreatedAt = now
	}
	bal.Quantity = newQty
	bal.UpdatedAt = now
	if err := balRepo.Upsert(bal); err != nil {
		return nil, err
	}

	direction := "increase"
	if delta.IsNegative() {
		direction = "decrease"
	}
	metrics.BalanceAdjustments.WithLabelValues(direction).Inc()
	s.log.Info().
		Str("resource_id", resourceID).
		Str("unit_id", unitID).
		Str("delta", delta.String()).
		Str("quantity", newQty.String()).
		Str("reason", reason).
		Msg("ajuste de balance aplicado")
	return bal, nil
}

// GetQuantity devuelve la cantidad actual del par (0 si no hay fila, nunca falla por ausencia).
func (s *Service) GetQuantity(ctx context.Context, resourceID, unitID string) (decimal.Decimal, error) {
	bal, err := s.balances.Get(resourceID, unitID)
	if err != nil {
		return decimal.Zero, err
	}
	return bal.Quantity, nil
}

// HasSufficient indica si la cantidad actual del par cubre la requerida.
func (s *Service) HasSufficient(ctx context.Context, resourceID, unitID string, required decimal.Decimal) (bool, error) {
	qty, err := s.GetQuantity(ctx, resourceID, unitID)
	if err != nil {
		return false, err
	}
	return qty.GreaterThanOrEqual(required), nil
}

// List devuelve los balances con nombres resueltos, según filtro.
func (s *Service) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.BalanceView, error) {
	return s.balances.List(filter)
}

// LockPairs bloquea las filas de los pares dados en orden estable
// (resource_id, unit_id) para que operaciones concurrentes sobre varios pares
// no se crucen en órdenes distintos. Devuelve los balances bloqueados por par.
func (s *Service) LockPairs(balRepo repository.BalanceRepository, pairs []Pair) (map[Pair]*entity.Balance, error) {
	uniq := make(map[Pair]struct{}, len(pairs))
	ordered := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := uniq[p]; ok {
			continue
		}
		uniq[p] = struct{}{}
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ResourceID != ordered[j].ResourceID {
			return ordered[i].ResourceID < ordered[j].ResourceID
		}
		return ordered[i].UnitID < ordered[j].UnitID
	})

	locked := make(map[Pair]*entity.Balance, len(ordered))
	for _, p := range ordered {
		bal, err := balRepo.GetForUpdate(p.ResourceID, p.UnitID)
		if err != nil {
			return nil, err
		}
		locked[p] = bal
	}
	return locked, nil
}

// ResourceName resuelve el nombre del recurso para mensajes de error.
func (s *Service) ResourceName(resourceID string) string {
	res, err := s.resources.GetByID(resourceID)
	if err != nil || res == nil {
		return "Resource"
	}
	return res.Name
}
