package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx satisface pgx.Tx para los tests del runner; solo Commit y Rollback
// se invocan, el resto del contrato queda sin implementar.
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeBeginner struct {
	begins int
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	b.begins++
	return fakeTx{}, nil
}

// Un aborto por serialización (40001) reintenta la transacción completa; el
// segundo intento exitoso no propaga el error del primero.
func TestTxRunner_ReintentaAbortoPorSerializacion(t *testing.T) {
	beginner := &fakeBeginner{}
	runner := &TxRunner{pool: beginner}

	llamadas := 0
	err := runner.inTx(context.Background(), func(tx pgx.Tx) error {
		llamadas++
		if llamadas == 1 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, llamadas)
	assert.Equal(t, 2, beginner.begins, "cada intento abre su propia transacción")
}

func TestTxRunner_ReintentaDeadlock(t *testing.T) {
	runner := &TxRunner{pool: &fakeBeginner{}}

	llamadas := 0
	err := runner.inTx(context.Background(), func(tx pgx.Tx) error {
		llamadas++
		if llamadas == 1 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, llamadas)
}

// Un error no reintentable se propaga en el primer intento, sin reintentos.
func TestTxRunner_ErrorNoReintentableNoSeReintenta(t *testing.T) {
	beginner := &fakeBeginner{}
	runner := &TxRunner{pool: beginner}

	fallo := errors.New("violación de regla")
	llamadas := 0
	err := runner.inTx(context.Background(), func(tx pgx.Tx) error {
		llamadas++
		return fallo
	})
	require.ErrorIs(t, err, fallo)
	assert.Equal(t, 1, llamadas)
	assert.Equal(t, 1, beginner.begins)
}

// Conflictos persistentes agotan los intentos y propagan el último error.
func TestTxRunner_AgotaIntentos(t *testing.T) {
	runner := &TxRunner{pool: &fakeBeginner{}}

	llamadas := 0
	err := runner.inTx(context.Background(), func(tx pgx.Tx) error {
		llamadas++
		return &pgconn.PgError{Code: "40001"}
	})
	require.Error(t, err)
	assert.Equal(t, maxTxAttempts, llamadas)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "40001", pgErr.Code)
	assert.Contains(t, err.Error(), "transaction aborted after 3 attempts")
}
