package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/shipment"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements los runners de cada caso de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ receipt.TxRunner = (*TxRunner)(nil)
var _ shipment.TxRunner = (*TxRunner)(nil)

// Intentos máximos ante abortos por serialización o deadlock.
const maxTxAttempts = 3

// txBeginner abre transacciones; *pgxpool.Pool lo satisface.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los abortos por conflicto de bloqueo (40001/40P01) se reintentan de forma
// acotada antes de propagar el error.
type TxRunner struct {
	pool txBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción y ejecuta fn con el repositorio de balances atado a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(balRepo repository.BalanceRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewBalanceRepository(tx))
	})
}

// RunReceipt inicia una transacción con repos de balances y recepciones.
func (r *TxRunner) RunReceipt(ctx context.Context, fn func(
	balRepo repository.BalanceRepository,
	receiptRepo repository.ReceiptRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewBalanceRepository(tx), NewReceiptRepository(tx))
	})
}

// RunShipment inicia una transacción con repos de balances y envíos.
func (r *TxRunner) RunShipment(ctx context.Context, fn func(
	balRepo repository.BalanceRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewBalanceRepository(tx), NewShipmentRepository(tx))
	})
}

// inTx ejecuta fn con Begin/Commit y Rollback diferido; reintenta la
// transacción completa si el commit o el callback abortan por conflicto.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := r.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryableTxError(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("transaction aborted after %d attempts: %w", maxTxAttempts, lastErr)
}

func (r *TxRunner) attempt(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
