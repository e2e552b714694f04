package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase gestiona el catálogo de recursos, unidades de medida y clientes:
// CRUD con unicidad de nombre entre los no archivados, archivado, y borrado
// bloqueado mientras existan balances o líneas de documento que los referencien.
// Implementa además ledger.ReferenceValidator para los documentos.
type UseCase struct {
	resources repository.ResourceRepository
	units     repository.UnitRepository
	clients   repository.ClientRepository
	balances  repository.BalanceRepository
	receipts  repository.ReceiptRepository
	shipments repository.ShipmentRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(
	resources repository.ResourceRepository,
	units repository.UnitRepository,
	clients repository.ClientRepository,
	balances repository.BalanceRepository,
	receipts repository.ReceiptRepository,
	shipments repository.ShipmentRepository,
) *UseCase {
	return &UseCase{
		resources: resources,
		units:     units,
		clients:   clients,
		balances:  balances,
		receipts:  receipts,
		shipments: shipments,
	}
}

// ── Reference Validator ──────────────────────────────────────────────────────

// ResourceExists indica si el recurso existe (archivado o no).
func (uc *UseCase) ResourceExists(ctx context.Context, id string) (bool, error) {
	r, err := uc.resources.GetByID(id)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

// UnitExists indica si la unidad de medida existe.
func (uc *UseCase) UnitExists(ctx context.Context, id string) (bool, error) {
	u, err := uc.units.GetByID(id)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// ClientExists indica si el cliente existe.
func (uc *UseCase) ClientExists(ctx context.Context, id string) (bool, error) {
	c, err := uc.clients.GetByID(id)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// ── Resources ────────────────────────────────────────────────────────────────

// CreateResource crea un recurso; el nombre debe ser único entre los no archivados.
func (uc *UseCase) CreateResource(ctx context.Context, name string) (*entity.Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.resources.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicate("Resource", "name", name)
	}
	now := time.Now()
	res := &entity.Resource{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.resources.Create(res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetResource devuelve un recurso por ID.
func (uc *UseCase) GetResource(ctx context.Context, id string) (*entity.Resource, error) {
	res, err := uc.resources.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.NewNotFound("Resource", id)
	}
	return res, nil
}

// ListResources lista recursos, con o sin archivados.
func (uc *UseCase) ListResources(ctx context.Context, includeArchived bool) ([]*entity.Resource, error) {
	return uc.resources.List(includeArchived)
}

// UpdateResource renombra un recurso respetando la unicidad entre no archivados.
func (uc *UseCase) UpdateResource(ctx context.Context, id, name string) (*entity.Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.resources.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.NewNotFound("Resource", id)
	}
	existing, err := uc.resources.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.NewDuplicate("Resource", "name", name)
	}
	res.Name = name
	res.UpdatedAt = time.Now()
	if err := uc.resources.Update(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ArchiveResource marca el recurso como archivado; las referencias existentes siguen válidas.
func (uc *UseCase) ArchiveResource(ctx context.Context, id string) error {
	res, err := uc.resources.GetByID(id)
	if err != nil {
		return err
	}
	if res == nil {
		return domain.NewNotFound("Resource", id)
	}
	res.IsArchived = true
	res.UpdatedAt = time.Now()
	return uc.resources.Update(res)
}

// DeleteResource elimina el recurso solo si no tiene balances ni líneas que lo usen.
func (uc *UseCase) DeleteResource(ctx context.Context, id string) error {
	res, err := uc.resources.GetByID(id)
	if err != nil {
		return err
	}
	if res == nil {
		return domain.NewNotFound("Resource", id)
	}
	inUse, err := uc.resourceInUse(id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.NewInUse("Resource")
	}
	return uc.resources.Delete(id)
}

func (uc *UseCase) resourceInUse(id string) (bool, error) {
	if has, err := uc.balances.ExistsByResource(id); err != nil || has {
		return has, err
	}
	if has, err := uc.receipts.UsesResource(id); err != nil || has {
		return has, err
	}
	return uc.shipments.UsesResource(id)
}

// ── Units of measurement ─────────────────────────────────────────────────────

// CreateUnit crea una unidad de medida; nombre único entre no archivadas.
func (uc *UseCase) CreateUnit(ctx context.Context, name string) (*entity.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.units.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicate("Unit of Measurement", "name", name)
	}
	now := time.Now()
	unit := &entity.Unit{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.units.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit devuelve una unidad por ID.
func (uc *UseCase) GetUnit(ctx context.Context, id string) (*entity.Unit, error) {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.NewNotFound("Unit of Measurement", id)
	}
	return unit, nil
}

// ListUnits lista unidades de medida.
func (uc *UseCase) ListUnits(ctx context.Context, includeArchived bool) ([]*entity.Unit, error) {
	return uc.units.List(includeArchived)
}

// UpdateUnit renombra una unidad respetando la unicidad entre no archivadas.
func (uc *UseCase) UpdateUnit(ctx context.Context, id, name string) (*entity.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.NewNotFound("Unit of Measurement", id)
	}
	existing, err := uc.units.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.NewDuplicate("Unit of Measurement", "name", name)
	}
	unit.Name = name
	unit.UpdatedAt = time.Now()
	if err := uc.units.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// ArchiveUnit marca la unidad como archivada.
func (uc *UseCase) ArchiveUnit(ctx context.Context, id string) error {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.NewNotFound("Unit of Measurement", id)
	}
	unit.IsArchived = true
	unit.UpdatedAt = time.Now()
	return uc.units.Update(unit)
}

// DeleteUnit elimina la unidad solo si ningún balance ni línea la usa.
func (uc *UseCase) DeleteUnit(ctx context.Context, id string) error {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.NewNotFound("Unit of Measurement", id)
	}
	if has, err := uc.balances.ExistsByUnit(id); err != nil {
		return err
	} else if has {
		return domain.NewInUse("Unit of Measurement")
	}
	if has, err := uc.receipts.UsesUnit(id); err != nil {
		return err
	} else if has {
		return domain.NewInUse("Unit of Measurement")
	}
	if has, err := uc.shipments.UsesUnit(id); err != nil {
		return err
	} else if has {
		return domain.NewInUse("Unit of Measurement")
	}
	return uc.units.Delete(id)
}

// ── Clients ──────────────────────────────────────────────────────────────────

// CreateClient crea un cliente; nombre único entre no archivados.
func (uc *UseCase) CreateClient(ctx context.Context, name, address string) (*entity.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.clients.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicate("Client", "name", name)
	}
	now := time.Now()
	client := &entity.Client{ID: uuid.New().String(), Name: name, Address: address, CreatedAt: now, UpdatedAt: now}
	if err := uc.clients.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient devuelve un cliente por ID.
func (uc *UseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.clients.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NewNotFound("Client", id)
	}
	return client, nil
}

// ListClients lista clientes.
func (uc *UseCase) ListClients(ctx context.Context, includeArchived bool) ([]*entity.Client, error) {
	return uc.clients.List(includeArchived)
}

// UpdateClient actualiza nombre y dirección respetando la unicidad del nombre.
func (uc *UseCase) UpdateClient(ctx context.Context, id, name, address string) (*entity.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clients.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NewNotFound("Client", id)
	}
	existing, err := uc.clients.GetByActiveName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.NewDuplicate("Client", "name", name)
	}
	client.Name = name
	client.Address = address
	client.UpdatedAt = time.Now()
	if err := uc.clients.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// ArchiveClient marca el cliente como archivado.
func (uc *UseCase) ArchiveClient(ctx context.Context, id string) error {
	client, err := uc.clients.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.NewNotFound("Client", id)
	}
	client.IsArchived = true
	client.UpdatedAt = time.Now()
	return uc.clients.Update(client)
}

// DeleteClient elimina el cliente solo si ningún documento de envío lo referencia.
func (uc *UseCase) DeleteClient(ctx context.Context, id string) error {
	client, err := uc.clients.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.NewNotFound("Client", id)
	}
	if has, err := uc.shipments.UsesClient(id); err != nil {
		return err
	} else if has {
		return domain.NewInUse("Client")
	}
	return uc.clients.Delete(id)
}
