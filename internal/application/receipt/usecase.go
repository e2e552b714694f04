package receipt

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
// repositorios de balances y recepciones atados a esa tx.
type TxRunner interface {
	RunReceipt(ctx context.Context, fn func(
		balRepo repository.BalanceRepository,
		receiptRepo repository.ReceiptRepository,
	) error) error
}

// UseCase gestiona el ciclo de vida de los documentos de recepción.
// Toda entrada de stock pasa por aquí: crear aplica +cantidad por línea,
// editar revierte las líneas viejas y aplica las nuevas, y eliminar revierte
// todas las contribuciones — siempre en una sola transacción con el documento.
type UseCase struct {
	txRunner  TxRunner
	ledger    *ledger.Service
	receipts  repository.ReceiptRepository
	validator ledger.ReferenceValidator
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de recepciones.
func NewUseCase(
	txRunner TxRunner,
	ledgerSvc *ledger.Service,
	receipts repository.ReceiptRepository,
	validator ledger.ReferenceValidator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		ledger:    ledgerSvc,
		receipts:  receipts,
		validator: validator,
		log:       log,
	}
}

// Create registra una recepción y aplica +cantidad por cada línea.
// El insert del documento y todos los ajustes forman una unidad: si algo
// falla no queda estado parcial observable.
func (uc *UseCase) Create(ctx context.Context, number string, date time.Time, lines []dto.DocumentLine) (*entity.Receipt, error) {
	if err := uc.validateLines(ctx, lines); err != nil {
		return nil, err
	}
	existing, err := uc.receipts.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicate("Receipt Document", "number", number)
	}

	now := time.Now()
	receipt := &entity.Receipt{
		ID:        uuid.New().String(),
		Number:    number,
		Date:      date,
		Lines:     buildLines(lines),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range receipt.Lines {
		receipt.Lines[i].ReceiptID = receipt.ID
	}

	err = uc.txRunner.RunReceipt(ctx, func(balRepo repository.BalanceRepository, receiptRepo repository.ReceiptRepository) error {
		if err := receiptRepo.Create(receipt); err != nil {
			return err
		}
		if _, err := uc.ledger.LockPairs(balRepo, pairsOf(receipt.Lines)); err != nil {
			return err
		}
		for _, line := range receipt.Lines {
			reason := fmt.Sprintf("Receipt %s", receipt.Number)
			if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity, reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("receipt", "create").Inc()
	uc.log.Info().Str("receipt_id", receipt.ID).Str("number", receipt.Number).Msg("recepción creada")
	return receipt, nil
}

// Update reemplaza cabecera y líneas. En una sola transacción: revierte la
// contribución de cada línea vieja (puede fallar con InsufficientStock si un
// envío ya consumió ese stock — entonces no muta nada), reemplaza el juego de
// líneas y aplica las nuevas.
func (uc *UseCase) Update(ctx context.Context, id, number string, date time.Time, lines []dto.DocumentLine) (*entity.Receipt, error) {
	if err := uc.validateLines(ctx, lines); err != nil {
		return nil, err
	}
	byNumber, err := uc.receipts.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if byNumber != nil && byNumber.ID != id {
		return nil, domain.NewDuplicate("Receipt Document", "number", number)
	}

	var updated *entity.Receipt
	err = uc.txRunner.RunReceipt(ctx, func(balRepo repository.BalanceRepository, receiptRepo repository.ReceiptRepository) error {
		// Bloquear la cabecera serializa ediciones/borrados concurrentes del
		// mismo documento; las líneas viejas leídas son entonces las vigentes.
		current, err := receiptRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NewNotFound("Receipt Document", id)
		}

		newLines := buildLines(lines)
		for i := range newLines {
			newLines[i].ReceiptID = id
		}

		// Bloquear de una vez todas las filas tocadas por el juego viejo y el nuevo.
		all := append(pairsOf(current.Lines), pairsOf(newLines)...)
		if _, err := uc.ledger.LockPairs(balRepo, all); err != nil {
			return err
		}

		for _, old := range current.Lines {
			reason := fmt.Sprintf("Receipt %s (reversal for update)", current.Number)
			if _, err := uc.ledger.AdjustInTx(balRepo, old.ResourceID, old.UnitID, old.Quantity.Neg(), reason); err != nil {
				return err
			}
		}

		current.Number = number
		current.Date = date
		current.Lines = newLines
		current.UpdatedAt = time.Now()
		if err := receiptRepo.Update(current); err != nil {
			return err
		}

		for _, line := range newLines {
			reason := fmt.Sprintf("Receipt %s (updated)", number)
			if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity, reason); err != nil {
				return err
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentOperations.WithLabelValues("receipt", "update").Inc()
	uc.log.Info().Str("receipt_id", id).Str("number", number).Msg("recepción actualizada")
	return updated, nil
}

// Delete elimina la recepción revirtiendo todas sus líneas. Primero valida
// cada línea contra el balance bloqueado (si alguna no alcanza, falla con
// InsufficientStock y no muta nada); solo después revierte y borra.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.RunReceipt(ctx, func(balRepo repository.BalanceRepository, receiptRepo repository.ReceiptRepository) error {
		receipt, err := receiptRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.NewNotFound("Receipt Document", id)
		}

		locked, err := uc.ledger.LockPairs(balRepo, pairsOf(receipt.Lines))
		if err != nil {
			return err
		}
		// Pasada de validación completa antes de mutar balance alguno.
		// Las cantidades se acumulan por par: dos líneas del mismo par deben
		// caber juntas, no solo cada una por separado.
		required := make(map[ledger.Pair]decimal.Decimal)
		for _, line := range receipt.Lines {
			p := ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID}
			required[p] = required[p].Add(line.Quantity)
		}
		for _, line := range receipt.Lines {
			p := ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID}
			if locked[p].Quantity.LessThan(required[p]) {
				return domain.NewInsufficientStock(uc.ledger.ResourceName(line.ResourceID), required[p], locked[p].Quantity)
			}
		}

		for _, line := range receipt.Lines {
			reason := fmt.Sprintf("Receipt %s (deleted)", receipt.Number)
			if _, err := uc.ledger.AdjustInTx(balRepo, line.ResourceID, line.UnitID, line.Quantity.Neg(), reason); err != nil {
				return err
			}
		}
		return receiptRepo.Delete(id)
	})
	if err != nil {
		return err
	}

	metrics.DocumentOperations.WithLabelValues("receipt", "delete").Inc()
	uc.log.Info().Str("receipt_id", id).Msg("recepción eliminada")
	return nil
}

// GetByID devuelve una recepción con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	receipt, err := uc.receipts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.NewNotFound("Receipt Document", id)
	}
	return receipt, nil
}

// List devuelve recepciones según filtro.
func (uc *UseCase) List(ctx context.Context, filter repository.ReceiptFilter) ([]*entity.Receipt, error) {
	return uc.receipts.List(filter)
}

// validateLines verifica cantidad > 0 y existencia de recurso/unidad por línea.
func (uc *UseCase) validateLines(ctx context.Context, lines []dto.DocumentLine) error {
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
func buildLines(lines []dto.DocumentLine) []entity.ReceiptLine {
	out := make([]entity.ReceiptLine, 0, len(lines))
	for i, line := range lines {
		out = append(out, entity.ReceiptLine{
			ID:         uuid.New().String(),
			ResourceID: line.ResourceID,
			UnitID:     line.UnitID,
			Quantity:   line.Quantity,
			Position:   i,
		})
	}
	return out
}

func pairsOf(lines []entity.ReceiptLine) []ledger.Pair {
	pairs := make([]ledger.Pair, 0, len(lines))
	for _, line := range lines {
		pairs = append(pairs, ledger.Pair{ResourceID: line.ResourceID, UnitID: line.UnitID})
	}
	return pairs
}
