package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/testutil"
)

type fixture struct {
	uc        *catalog.UseCase
	balances  *testutil.BalanceRepo
	receipts  *testutil.ReceiptRepo
	shipments *testutil.ShipmentRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	balances := testutil.NewBalanceRepo()
	receipts := testutil.NewReceiptRepo()
	shipments := testutil.NewShipmentRepo()
	uc := catalog.NewUseCase(
		testutil.NewResourceRepo(),
		testutil.NewUnitRepo(),
		testutil.NewClientRepo(),
		balances,
		receipts,
		shipments,
	)
	return &fixture{uc: uc, balances: balances, receipts: receipts, shipments: shipments}
}

// Crear y renombrar recursos respeta la unicidad del nombre entre no archivados.
func TestResource_UnicidadDeNombre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hierro, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)
	assert.NotEmpty(t, hierro.ID)

	_, err = f.uc.CreateResource(ctx, "Hierro")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	cobre, err := f.uc.CreateResource(ctx, "Cobre")
	require.NoError(t, err)
	_, err = f.uc.UpdateResource(ctx, cobre.ID, "Hierro")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Renombrar al propio nombre no cuenta como duplicado.
	_, err = f.uc.UpdateResource(ctx, hierro.ID, "Hierro")
	assert.NoError(t, err)
}

// Archivar libera el nombre: un recurso nuevo puede reutilizarlo.
func TestResource_ArchivarLiberaElNombre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hierro, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)
	require.NoError(t, f.uc.ArchiveResource(ctx, hierro.ID))

	again, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)
	assert.NotEqual(t, hierro.ID, again.ID)

	// Por defecto el listado oculta archivados.
	active, err := f.uc.ListResources(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, again.ID, active[0].ID)

	all, err := f.uc.ListResources(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// El nombre vacío o solo espacios se rechaza.
func TestResource_NombreVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateResource(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un recurso con balance no se puede eliminar; uno sin uso sí.
func TestResource_EliminacionBloqueadaPorUso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	usado, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)
	libre, err := f.uc.CreateResource(ctx, "Cobre")
	require.NoError(t, err)

	require.NoError(t, f.balances.Upsert(&entity.Balance{
		ID: "bal-1", ResourceID: usado.ID, UnitID: "unit-kg", Quantity: decimal.NewFromInt(5),
	}))

	err = f.uc.DeleteResource(ctx, usado.ID)
	require.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete Resource because it is in use")

	require.NoError(t, f.uc.DeleteResource(ctx, libre.ID))
	_, err = f.uc.GetResource(ctx, libre.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Una línea de documento también bloquea la eliminación del recurso.
func TestResource_EliminacionBloqueadaPorLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)

	require.NoError(t, f.receipts.Create(&entity.Receipt{
		ID: "rec-1", Number: "R-1",
		Lines: []entity.ReceiptLine{{ID: "l1", ReceiptID: "rec-1", ResourceID: res.ID, UnitID: "unit-kg", Quantity: decimal.NewFromInt(1)}},
	}))

	err = f.uc.DeleteResource(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
}

func TestUnit_CicloCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kg, err := f.uc.CreateUnit(ctx, "kg")
	require.NoError(t, err)

	_, err = f.uc.CreateUnit(ctx, "kg")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	renamed, err := f.uc.UpdateUnit(ctx, kg.ID, "kilogramo")
	require.NoError(t, err)
	assert.Equal(t, "kilogramo", renamed.Name)

	require.NoError(t, f.uc.ArchiveUnit(ctx, kg.ID))
	got, err := f.uc.GetUnit(ctx, kg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

// Una unidad usada por una línea de envío no se puede eliminar.
func TestUnit_EliminacionBloqueadaPorUso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kg, err := f.uc.CreateUnit(ctx, "kg")
	require.NoError(t, err)

	require.NoError(t, f.shipments.Create(&entity.Shipment{
		ID: "shp-1", Number: "S-1", ClientID: "client-1", Status: entity.StatusDraft,
		Lines: []entity.ShipmentLine{{ID: "l1", ShipmentID: "shp-1", ResourceID: "res-1", UnitID: kg.ID, Quantity: decimal.NewFromInt(1)}},
	}))

	err = f.uc.DeleteUnit(ctx, kg.ID)
	require.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete Unit of Measurement because it is in use")
}

func TestClient_CicloCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme, err := f.uc.CreateClient(ctx, "Acme S.A.", "Calle 1 #2-3")
	require.NoError(t, err)
	assert.Equal(t, "Calle 1 #2-3", acme.Address)

	_, err = f.uc.CreateClient(ctx, "Acme S.A.", "otra dirección")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := f.uc.UpdateClient(ctx, acme.ID, "Acme S.A.", "Carrera 9 #10-11")
	require.NoError(t, err)
	assert.Equal(t, "Carrera 9 #10-11", updated.Address)
}

// Un cliente referenciado por un envío no se puede eliminar; archivado sí.
func TestClient_EliminacionBloqueadaPorEnvios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme, err := f.uc.CreateClient(ctx, "Acme S.A.", "")
	require.NoError(t, err)

	require.NoError(t, f.shipments.Create(&entity.Shipment{
		ID: "shp-1", Number: "S-1", ClientID: acme.ID, Status: entity.StatusDraft,
		Lines: []entity.ShipmentLine{{ID: "l1", ShipmentID: "shp-1", ResourceID: "res-1", UnitID: "unit-kg", Quantity: decimal.NewFromInt(1)}},
	}))

	err = f.uc.DeleteClient(ctx, acme.ID)
	require.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete Client because it is in use")

	require.NoError(t, f.uc.ArchiveClient(ctx, acme.ID))
	got, err := f.uc.GetClient(ctx, acme.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

// El validador de referencias reconoce también entidades archivadas:
// archivar no rompe documentos existentes.
func TestReferenceValidator_IncluyeArchivados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.CreateResource(ctx, "Hierro")
	require.NoError(t, err)
	require.NoError(t, f.uc.ArchiveResource(ctx, res.ID))

	ok, err := f.uc.ResourceExists(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.uc.ResourceExists(ctx, "res-fantasma")
	require.NoError(t, err)
	assert.False(t, ok)
}
