package shipment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de balances y envíos atados a esa tx.
type TxRunner interface {
	RunShipment(ctx context.Context, fn func(
		balRepo repository.BalanceRepository,
		shipmentRepo repository.ShipmentRepository,
	) error) error
}

// UseCase gestiona el ciclo de vida de los documentos de envío y su máquina
// de estados Draft -> Signed -> Cancelled. Solo la firma consume stock; la
// anulación y el borrado de un firmado lo devuelven. Los borradores nunca
// tocan el ledger.
type UseCase struct {
	txRunner  TxRunner
	ledger    *ledger.Service
	shipments repository.ShipmentRepository
	validator ledger.ReferenceValidator
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de envíos.
func NewUseCase(
	txRunner TxRunner,
	ledgerSvc *ledger.Service,
	shipments repository.ShipmentRepository,
	validator ledger.ReferenceValidator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		ledger:    ledgerSvc,
		shipments: shipments,
		validator: validator,
		log:       log,
	}
}

// Create registra un envío en estado Draft, sin efecto sobre el ledger.
// El documento debe tener al menos una línea.
func (uc *UseCase) Create(ctx context.Context, number string, date time.Time, clientID string, lines []dto.DocumentLine) (*entity.Shipment, error) {
	if len(lines) == 0 {
		return nil, domain.NewBusiness("Shipment document cannot be empty")
	}
	if err := uc.validateReferences(ctx, clientID, lines); err != nil {
		return nil, err
	}
	existing, err := uc.shipments.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicate("Shipment Document", "number", number)
	}

	now := time.Now()
	shipment := &entity.Shipment{
		ID:        uuid.New().String(),
		Number:    number,
		Date:      date,
		ClientID:  clientID,
		Status:    entity.StatusDraft,
		Lines:     buildLines(lines),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range shipment.Lines {
		shipment.Lines[i].ShipmentID = shipment.ID
	}

	err = uc.txRunner.RunShipment(ctx, func(_ repository.BalanceRepository, shipmentRepo repository.ShipmentRepository) error {
		return shipmentRepo.Create(shipment)
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("shipment", "create").Inc()
	uc.log.Info().Str("shipment_id", shipment.ID).Str("number", shipment.Number).Msg("envío creado")
	return shipment, nil
}

// Update reemplaza cabecera y líneas de un borrador. Los documentos firmados
// o anulados son inmutables; un Draft nunca ha tocado el ledger, así que el
// reemplazo es puro.
func (uc *UseCase) Update(ctx context.Context, id, number string, date time.Time, clientID string, lines []dto.DocumentLine) (*entity.Shipment, error) {
	if len(lines) == 0 {
		return nil, domain.NewBusiness("Shipment document cannot be empty")
	}
	if err := uc.validateReferences(ctx, clientID, lines); err != nil {
		return nil, err
	}
	byNumber, err := uc.shipments.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if byNumber != nil && byNumber.ID != id {
		return nil, domain.NewDuplicate("Shipment Document", "number", number)
	}

	var updated *entity.Shipment
	err = uc.txRunner.RunShipment(ctx, func(_ repository.BalanceRepository, shipmentRepo repository.ShipmentRepository) error {
		current, err := shipmentRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NewNotFound("Shipment Document", id)
		}
		if !current.Status.CanUpdate() {
			if current.Status == entity.StatusCancelled {
				return domain.NewBusiness("Cannot update cancelled shipment document")
			}
			return domain.NewBusiness("Cannot update signed shipment document")
		}

		newLines := buildLines(lines)
		for i := range newLines {
			newLines[i].ShipmentID = id
		}
		current.Number = number
		current.Date = date
		current.ClientID = clientID
		current.Lines = newLines
		current.UpdatedAt = time.Now()
		if err := shipmentRepo.Update(current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("shipment", "update").Inc()
	uc.log.Info().Str("shipment_id", id).Str("number", number).Msg("envío actualizado")
	return updated, nil
}

// Delete elimina el envío. Si está firmado, devuelve al ledger la cantidad de
// cada línea en la misma transacción que el borrado; Draft y Cancelled se
// eliminan sin efecto sobre balances.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.RunShipment(ctx, func(balRepo repository.BalanceRepository, shipmentRepo repository.ShipmentRepository) error {
		shipment, err := shipmentRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.NewNotFound("Shipment Document", id)
		}

		if shipment.Status == entity.StatusSigned {
			if _, err := uc.ledger.LockPairs(balRepo, pairsOf(shipment.Lines)); err != nil {
				return err
			}
			for _, line := range shipment.Lines {
				reason := fmt.Sprintf("Shipment %s (deleted after signing)", shipment.Number)
				if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity, reason); err != nil {
					return err
				}
			}
		}
		return shipmentRepo.Delete(id)
	})
	if err != nil {
		return err
	}

	metrics.DocumentOperations.WithLabelValues("shipment", "delete").Inc()
	uc.log.Info().Str("shipment_id", id).Msg("envío eliminado")
	return nil
}

// Sign firma el envío consumiendo stock. En una sola transacción: bloquea la
// cabecera y todas las filas de balance de sus líneas, valida la suficiencia
// de todas (la primera insuficiente aborta sin mutar nada) y solo entonces
// descuenta cada línea y marca el documento como Signed.
func (uc *UseCase) Sign(ctx context.Context, id string) (*entity.Shipment, error) {
	var signed *entity.Shipment
	err := uc.txRunner.RunShipment(ctx, func(balRepo repository.BalanceRepository, shipmentRepo repository.ShipmentRepository) error {
		shipment, err := shipmentRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.NewNotFound("Shipment Document", id)
		}
		if shipment.Status == entity.StatusSigned {
			return domain.NewBusiness("Shipment document is already signed")
		}
		if !shipment.Status.CanSign() {
			return domain.NewBusiness("Cancelled shipment document cannot be signed")
		}

		locked, err := uc.ledger.LockPairs(balRepo, pairsOf(shipment.Lines))
		if err != nil {
			return err
		}
		// Suficiencia por par acumulado: varias líneas del mismo par deben
		// caber juntas. Se reporta la primera línea insuficiente en orden de
		// documento.
		required := make(map[ledger.Pair]decimal.Decimal)
		for _, line := range shipment.Lines {
			p := ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID}
			required[p] = required[p].Add(line.Quantity)
		}
		for _, line := range shipment.Lines {
			p := ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID}
			if locked[p].Quantity.LessThan(required[p]) {
				metrics.InsufficientStockRejections.Inc()
				return domain.NewInsufficientStock(uc.ledger.ResourceName(line.ResourceID), required[p], locked[p].Quantity)
			}
		}

		for _, line := range shipment.Lines {
			reason := fmt.Sprintf("Shipment %s (signed)", shipment.Number)
			if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity.Neg(), reason); err != nil {
				return err
			}
		}
		if err := shipmentRepo.UpdateStatus(id, entity.StatusSigned); err != nil {
			return err
		}
		shipment.Status = entity.StatusSigned
		signed = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("shipment", "sign").Inc()
	uc.log.Info().Str("shipment_id", id).Str("number", signed.Number).Msg("envío firmado")
	return signed, nil
}

// Cancel anula un envío firmado devolviendo al ledger la cantidad de cada
// línea. Cancelled es terminal: anular dos veces falla en la segunda llamada.
func (uc *UseCase) Cancel(ctx context.Context, id string) (*entity.Shipment, error) {
	var cancelled *entity.Shipment
	err := uc.txRunner.RunShipment(ctx, func(balRepo repository.BalanceRepository, shipmentRepo repository.ShipmentRepository) error {
		shipment, err := shipmentRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.NewNotFound("Shipment Document", id)
		}
		if !shipment.Status.CanCancel() {
			return domain.NewBusiness("Only signed shipment documents can be cancelled")
		}

		if _, err := uc.ledger.LockPairs(balRepo, pairsOf(shipment.Lines)); err != nil {
			return err
		}
		for _, line := range shipment.Lines {
			reason := fmt.Sprintf("Shipment %s (cancelled)", shipment.Number)
			if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity, reason); err != nil {
				return err
			}
		}
		if err := shipmentRepo.UpdateStatus(id, entity.StatusCancelled); err != nil {
			return err
		}
		shipment.Status = entity.StatusCancelled
		cancelled = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("shipment", "cancel").Inc()
	uc.log.Info().Str("shipment_id", id).Str("number", cancelled.Number).Msg("envío anulado")
	return cancelled, nil
}

// GetByID devuelve un envío con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	shipment, err := uc.shipments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, domain.NewNotFound("Shipment Document", id)
	}
	return shipment, nil
}

// List devuelve envíos según filtro.
func (uc *UseCase) List(ctx context.Context, filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	return uc.shipments.List(filter)
}

// validateReferences verifica cliente, recursos y unidades, y cantidad > 0 por línea.
func (uc *UseCase) validateReferences(ctx context.Context, clientID string, lines []dto.DocumentLine) error {
	ok, err := uc.validator.ClientExists(ctx, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFound("Client", clientID)
	}
	for _, line := range lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewBusiness("Quantity must be greater than zero")
		}
		ok, err := uc.validator.ResourceExists(ctx, line.ResourceID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Resource", line.ResourceID)
		}
		ok, err = uc.validator.UnitExists(ctx, line.UnitID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Unit of Measurement", line.UnitID)
		}
	}
	return nil
}

// buildLines materializa las líneas de entrada con IDs y posición.
func buildLines(lines []dto.DocumentLine) []entity.ShipmentLine {
	out := make([]entity.ShipmentLine, 0, len(lines))
	for i, line := range lines {
		out = append(out, entity.ShipmentLine{
			ID:         uuid.New().String(),
			ResourceID: line.ResourceID,
			UnitID:     line.UnitID,
			Quantity:   line.Quantity,
			Position:   i,
		})
	}
	return out
}

func pairsOf(lines []entity.ShipmentLine) []ledger.Pair {
	pairs := make([]ledger.Pair, 0, len(lines))
	for _, line := range lines {
		pairs = append(pairs, ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID})
	}
	return pairs
}
