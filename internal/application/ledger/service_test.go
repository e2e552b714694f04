package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/testutil"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const (
	resHierro = "res-hierro"
	resCobre  = "res-cobre"
	unitKg    = "unit-kg"
	unitTon   = "unit-ton"
)

func newLedger(t *testing.T) (*ledger.Service, *testutil.BalanceRepo) {
	t.Helper()
	resources := testutil.NewResourceRepo()
	resources.Seed(resHierro, "Hierro")
	resources.Seed(resCobre, "Cobre")
	units := testutil.NewUnitRepo()
	units.Seed(unitKg, "kg")
	units.Seed(unitTon, "tonelada")

	balances := testutil.NewBalanceRepo()
	balances.Resources = resources
	balances.Units = units
	runner := &testutil.TxRunner{Balances: balances}
	return ledger.NewService(runner, balances, resources, units, logger.Nop()), balances
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Un ajuste positivo sobre un par sin fila la crea con la cantidad del delta.
func TestAdjust_CreaFilaPerezosamente(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	bal, err := svc.Adjust(ctx, resHierro, unitKg, qty("10.5"), "test")
	require.NoError(t, err)
	assert.NotEmpty(t, bal.ID, "la fila creada debe recibir ID")
	assert.True(t, bal.Quantity.Equal(qty("10.5")))

	got, err := svc.GetQuantity(ctx, resHierro, unitKg)
	require.NoError(t, err)
	assert.True(t, got.Equal(qty("10.5")))
}

// Secuencia de ajustes: el balance es la suma de los deltas aplicados.
func TestAdjust_Secuencia(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("10"), "entrada")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, resHierro, unitKg, qty("-4"), "salida")
	require.NoError(t, err)
	bal, err := svc.Adjust(ctx, resHierro, unitKg, qty("1.25"), "entrada")
	require.NoError(t, err)

	assert.True(t, bal.Quantity.Equal(qty("7.25")))
}

// Un delta que dejaría el balance negativo falla con InsufficientStock y no muta nada.
func TestAdjust_RechazaNegativo(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("3"), "entrada")
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, resHierro, unitKg, qty("-5"), "salida")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Hierro", insufficient.Resource)
	assert.True(t, insufficient.Required.Equal(qty("5")))
	assert.True(t, insufficient.Available.Equal(qty("3")))

	got, err := svc.GetQuantity(ctx, resHierro, unitKg)
	require.NoError(t, err)
	assert.True(t, got.Equal(qty("3")), "el balance no debe mutar tras el rechazo")
}

// Retirar exactamente el total deja el balance en cero, no falla.
func TestAdjust_RetiroExactoValido(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("7"), "entrada")
	require.NoError(t, err)
	bal, err := svc.Adjust(ctx, resHierro, unitKg, qty("-7"), "salida")
	require.NoError(t, err)

	assert.True(t, bal.Quantity.IsZero())
}

// Un ajuste negativo sobre un par inexistente (cantidad implícita 0) se rechaza.
func TestAdjust_NegativoSobreParInexistente(t *testing.T) {
	svc, _ := newLedger(t)

	_, err := svc.Adjust(context.Background(), resHierro, unitKg, qty("-1"), "salida")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Recurso o unidad inexistentes fallan con NotFound antes de tocar balances.
func TestAdjust_ReferenciaInexistente(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, "res-fantasma", unitKg, qty("1"), "entrada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Adjust(ctx, resHierro, "unit-fantasma", qty("1"), "entrada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El mismo recurso en unidades distintas lleva balances independientes.
func TestAdjust_ParesIndependientes(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("100"), "entrada")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, resHierro, unitTon, qty("2"), "entrada")
	require.NoError(t, err)

	kg, _ := svc.GetQuantity(ctx, resHierro, unitKg)
	ton, _ := svc.GetQuantity(ctx, resHierro, unitTon)
	assert.True(t, kg.Equal(qty("100")))
	assert.True(t, ton.Equal(qty("2")))
}

func TestHasSufficient(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("5"), "entrada")
	require.NoError(t, err)

	ok, err := svc.HasSufficient(ctx, resHierro, unitKg, qty("5"))
	require.NoError(t, err)
	assert.True(t, ok, "cobertura exacta debe ser suficiente")

	ok, err = svc.HasSufficient(ctx, resHierro, unitKg, qty("5.001"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasSufficient(ctx, resCobre, unitKg, qty("0"))
	require.NoError(t, err)
	assert.True(t, ok, "par inexistente cubre cero")
}

// List por defecto oculta los pares en cero; include_zero los muestra.
func TestList_FiltroCeros(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("10"), "entrada")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, resCobre, unitKg, qty("4"), "entrada")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, resCobre, unitKg, qty("-4"), "salida")
	require.NoError(t, err)

	visible, err := svc.List(ctx, repository.BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Hierro", visible[0].ResourceName)
	assert.Equal(t, "kg", visible[0].UnitName)

	all, err := svc.List(ctx, repository.BalanceFilter{IncludeZero: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestList_FiltroPorRecurso(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, resHierro, unitKg, qty("10"), "entrada")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, resCobre, unitKg, qty("4"), "entrada")
	require.NoError(t, err)

	got, err := svc.List(ctx, repository.BalanceFilter{ResourceIDs: []string{resCobre}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, resCobre, got[0].ResourceID)
}
