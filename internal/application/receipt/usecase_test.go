package receipt_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/testutil"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const (
	resHierro = "res-hierro"
	resCobre  = "res-cobre"
	unitKg    = "unit-kg"
)

type fixture struct {
	uc       *receipt.UseCase
	ledger   *ledger.Service
	balances *testutil.BalanceRepo
	receipts *testutil.ReceiptRepo
}

// validatorAdapter implementa ledger.ReferenceValidator sobre los repos en memoria.
type validatorAdapter struct {
	resources *testutil.ResourceRepo
	units     *testutil.UnitRepo
	clients   *testutil.ClientRepo
}

func (v *validatorAdapter) ResourceExists(ctx context.Context, id string) (bool, error) {
	r, err := v.resources.GetByID(id)
	return r != nil, err
}

func (v *validatorAdapter) UnitExists(ctx context.Context, id string) (bool, error) {
	u, err := v.units.GetByID(id)
	return u != nil, err
}

func (v *validatorAdapter) ClientExists(ctx context.Context, id string) (bool, error) {
	c, err := v.clients.GetByID(id)
	return c != nil, err
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resources := testutil.NewResourceRepo()
	resources.Seed(resHierro, "Hierro")
	resources.Seed(resCobre, "Cobre")
	units := testutil.NewUnitRepo()
	units.Seed(unitKg, "kg")

	balances := testutil.NewBalanceRepo()
	receipts := testutil.NewReceiptRepo()
	runner := &testutil.TxRunner{Balances: balances, Receipts: receipts}
	validator := &validatorAdapter{resources: resources, units: units, clients: testutil.NewClientRepo()}

	ledgerSvc := ledger.NewService(runner, balances, resources, units, logger.Nop())
	return &fixture{
		uc:       receipt.NewUseCase(runner, ledgerSvc, receipts, validator, logger.Nop()),
		ledger:   ledgerSvc,
		balances: balances,
		receipts: receipts,
	}
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(resourceID, unitID, quantity string) dto.DocumentLine {
	return dto.DocumentLine{ResourceID: resourceID, UnitID: unitID, Quantity: qty(quantity)}
}

func balanceOf(t *testing.T, f *fixture, resourceID, unitID string) decimal.Decimal {
	t.Helper()
	q, err := f.ledger.GetQuantity(context.Background(), resourceID, unitID)
	require.NoError(t, err)
	return q
}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// Crear una recepción aplica +cantidad por línea en la misma transacción.
func TestCreate_AplicaEntradas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{
		line(resHierro, unitKg, "10"),
		line(resCobre, unitKg, "2.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "R-100", doc.Number)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 0, doc.Lines[0].Position)
	assert.Equal(t, 1, doc.Lines[1].Position)

	assert.True(t, balanceOf(t, f, resHierro, unitKg).Equal(qty("10")))
	assert.True(t, balanceOf(t, f, resCobre, unitKg).Equal(qty("2.5")))
}

// Una recepción sin líneas es válida y no toca balances.
func TestCreate_SinLineasEsValida(t *testing.T) {
	f := newFixture(t)

	doc, err := f.uc.Create(context.Background(), "R-101", testDate, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
}

// Número duplicado entre recepciones se rechaza.
func TestCreate_NumeroDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "1")})
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resCobre, unitKg, "1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Cantidad cero o negativa en una línea se rechaza con regla de negocio.
func TestCreate_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "R-102", testDate, []dto.DocumentLine{line(resHierro, unitKg, "0")})
	require.ErrorIs(t, err, domain.ErrBusiness)
	assert.EqualError(t, err, "Quantity must be greater than zero")

	_, err = f.uc.Create(ctx, "R-102", testDate, []dto.DocumentLine{line(resHierro, unitKg, "-3")})
	assert.ErrorIs(t, err, domain.ErrBusiness)
}

// Recurso o unidad inexistentes en una línea fallan con NotFound.
func TestCreate_ReferenciaInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "R-103", testDate, []dto.DocumentLine{line("res-fantasma", unitKg, "1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, "R-103", testDate, []dto.DocumentLine{line(resHierro, "unit-fantasma", "1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Editar una recepción revierte las líneas viejas y aplica las nuevas:
// una línea de 10 editada a 4 deja el balance en 4.
func TestUpdate_ReviertYAplica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "10")})
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, doc.ID, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "4")})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Lines[0].Quantity.Equal(qty("4")))

	assert.True(t, balanceOf(t, f, resHierro, unitKg).Equal(qty("4")))
}

// Editar puede cambiar el par: el viejo vuelve a cero y el nuevo recibe la cantidad.
func TestUpdate_CambiaDePar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "6")})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, doc.ID, "R-100", testDate, []dto.DocumentLine{line(resCobre, unitKg, "6")})
	require.NoError(t, err)

	assert.True(t, balanceOf(t, f, resHierro, unitKg).IsZero())
	assert.True(t, balanceOf(t, f, resCobre, unitKg).Equal(qty("6")))
}

// La edición falla si la reversión dejaría el balance negativo (stock ya consumido).
func TestUpdate_BloqueadaPorStockConsumido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "10")})
	require.NoError(t, err)

	// Simula un envío firmado que consumió 7 de los 10.
	_, err = f.ledger.Adjust(ctx, resHierro, unitKg, qty("-7"), "consumo")
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, doc.ID, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "2")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Renumerar a un número ocupado por otra recepción se rechaza; conservar el
// propio número no cuenta como duplicado.
func TestUpdate_Renumeracion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, "R-1", testDate, []dto.DocumentLine{line(resHierro, unitKg, "1")})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "R-2", testDate, []dto.DocumentLine{line(resHierro, unitKg, "1")})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, a.ID, "R-2", testDate, []dto.DocumentLine{line(resHierro, unitKg, "1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.Update(ctx, a.ID, "R-1", testDate, []dto.DocumentLine{line(resHierro, unitKg, "2")})
	assert.NoError(t, err)
}

func TestUpdate_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Update(context.Background(), "no-such", "R-9", testDate, []dto.DocumentLine{line(resHierro, unitKg, "1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Eliminar una recepción revierte todas sus líneas.
func TestDelete_RevierteEntradas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{
		line(resHierro, unitKg, "10"),
		line(resCobre, unitKg, "3"),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, doc.ID))

	assert.True(t, balanceOf(t, f, resHierro, unitKg).IsZero())
	assert.True(t, balanceOf(t, f, resCobre, unitKg).IsZero())

	_, err = f.uc.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Si el stock aportado ya fue consumido, la eliminación se bloquea con
// InsufficientStock (required = aporte, available = saldo actual) y el
// documento sigue existiendo.
func TestDelete_BloqueadaPorStockConsumido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{line(resHierro, unitKg, "10")})
	require.NoError(t, err)

	// Simula un envío firmado que consumió 7 de los 10.
	_, err = f.ledger.Adjust(ctx, resHierro, unitKg, qty("-7"), "consumo")
	require.NoError(t, err)

	err = f.uc.Delete(ctx, doc.ID)
	require.Error(t, err)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Hierro", insufficient.Resource)
	assert.True(t, insufficient.Required.Equal(qty("10")))
	assert.True(t, insufficient.Available.Equal(qty("3")))

	got, err := f.uc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "R-100", got.Number)
	assert.True(t, balanceOf(t, f, resHierro, unitKg).Equal(qty("3")), "el balance no debe mutar")
}

// Dos líneas del mismo par deben caber juntas en la reversión, no cada una por separado.
func TestDelete_SuficienciaAgregadaPorPar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, "R-100", testDate, []dto.DocumentLine{
		line(resHierro, unitKg, "4"),
		line(resHierro, unitKg, "4"),
	})
	require.NoError(t, err)

	// Quedan 5: cada línea de 4 cabría sola, pero juntas suman 8.
	_, err = f.ledger.Adjust(ctx, resHierro, unitKg, qty("-3"), "consumo")
	require.NoError(t, err)

	err = f.uc.Delete(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, balanceOf(t, f, resHierro, unitKg).Equal(qty("5")))
}

func TestDelete_NoExiste(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Delete(context.Background(), "no-such")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
