// Package testutil contiene implementaciones en memoria de los puertos de
// persistencia, usadas por los tests de los casos de uso. No hay rollback:
// los casos de uso validan antes de mutar, y los tests se apoyan en eso.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

type pairKey struct {
	resourceID string
	unitID     string
}

// ── Balances ─────────────────────────────────────────────────────────────────

// BalanceRepo repositorio de balances en memoria.
type BalanceRepo struct {
	rows      map[pairKey]*entity.Balance
	Resources *ResourceRepo // opcional: resolución de nombres para List
	Units     *UnitRepo
}

// NewBalanceRepo construye un repositorio de balances vacío.
func NewBalanceRepo() *BalanceRepo {
	return &BalanceRepo{rows: make(map[pairKey]*entity.Balance)}
}

func (r *BalanceRepo) Get(resourceID, unitID string) (*entity.Balance, error) {
	if b, ok := r.rows[pairKey{resourceID, unitID}]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.Balance{ResourceID: resourceID, UnitID: unitID, Quantity: decimal.Zero}, nil
}

func (r *BalanceRepo) GetForUpdate(resourceID, unitID string) (*entity.Balance, error) {
	return r.Get(resourceID, unitID)
}

func (r *BalanceRepo) Upsert(balance *entity.Balance) error {
	cp := *balance
	r.rows[pairKey{balance.ResourceID, balance.UnitID}] = &cp
	return nil
}

func (r *BalanceRepo) List(filter repository.BalanceFilter) ([]*entity.BalanceView, error) {
	var out []*entity.BalanceView
	for _, b := range r.rows {
		if len(filter.ResourceIDs) > 0 && !contains(filter.ResourceIDs, b.ResourceID) {
			continue
		}
		if len(filter.UnitIDs) > 0 && !contains(filter.UnitIDs, b.UnitID) {
			continue
		}
		if !filter.IncludeZero && b.Quantity.IsZero() {
			continue
		}
		view := &entity.BalanceView{Balance: *b}
		if r.Resources != nil {
			if res, _ := r.Resources.GetByID(b.ResourceID); res != nil {
				view.ResourceName = res.Name
				view.IsArchived = view.IsArchived || res.IsArchived
			}
		}
		if r.Units != nil {
			if unit, _ := r.Units.GetByID(b.UnitID); unit != nil {
				view.UnitName = unit.Name
				view.IsArchived = view.IsArchived || unit.IsArchived
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out, nil
}

func (r *BalanceRepo) ExistsByResource(resourceID string) (bool, error) {
	for k := range r.rows {
		if k.resourceID == resourceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BalanceRepo) ExistsByUnit(unitID string) (bool, error) {
	for k := range r.rows {
		if k.unitID == unitID {
			return true, nil
		}
	}
	return false, nil
}

// ── Receipts ─────────────────────────────────────────────────────────────────

// ReceiptRepo repositorio de recepciones en memoria.
type ReceiptRepo struct {
	docs map[string]*entity.Receipt
}

// NewReceiptRepo construye un repositorio de recepciones vacío.
func NewReceiptRepo() *ReceiptRepo {
	return &ReceiptRepo{docs: make(map[string]*entity.Receipt)}
}

func copyReceipt(r *entity.Receipt) *entity.Receipt {
	cp := *r
	cp.Lines = append([]entity.ReceiptLine(nil), r.Lines...)
	return &cp
}

func (r *ReceiptRepo) Create(receipt *entity.Receipt) error {
	for _, d := range r.docs {
		if d.Number == receipt.Number {
			return domain.NewDuplicate("Receipt Document", "number", receipt.Number)
		}
	}
	r.docs[receipt.ID] = copyReceipt(receipt)
	return nil
}

func (r *ReceiptRepo) GetByID(id string) (*entity.Receipt, error) {
	if d, ok := r.docs[id]; ok {
		return copyReceipt(d), nil
	}
	return nil, nil
}

func (r *ReceiptRepo) GetByIDForUpdate(id string) (*entity.Receipt, error) {
	return r.GetByID(id)
}

func (r *ReceiptRepo) GetByNumber(number string) (*entity.Receipt, error) {
	for _, d := range r.docs {
		if d.Number == number {
			return copyReceipt(d), nil
		}
	}
	return nil, nil
}

func (r *ReceiptRepo) List(filter repository.ReceiptFilter) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, d := range r.docs {
		if len(filter.Numbers) > 0 && !contains(filter.Numbers, d.Number) {
			continue
		}
		if filter.DateFrom != nil && d.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && d.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, copyReceipt(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *ReceiptRepo) Update(receipt *entity.Receipt) error {
	r.docs[receipt.ID] = copyReceipt(receipt)
	return nil
}

func (r *ReceiptRepo) Delete(id string) error {
	delete(r.docs, id)
	return nil
}

func (r *ReceiptRepo) UsesResource(resourceID string) (bool, error) {
	for _, d := range r.docs {
		for _, l := range d.Lines {
			if l.ResourceID == resourceID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *ReceiptRepo) UsesUnit(unitID string) (bool, error) {
	for _, d := range r.docs {
		for _, l := range d.Lines {
			if l.UnitID == unitID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── Shipments ────────────────────────────────────────────────────────────────

// ShipmentRepo repositorio de envíos en memoria.
type ShipmentRepo struct {
	docs map[string]*entity.Shipment
}

// NewShipmentRepo construye un repositorio de envíos vacío.
func NewShipmentRepo() *ShipmentRepo {
	return &ShipmentRepo{docs: make(map[string]*entity.Shipment)}
}

func copyShipment(s *entity.Shipment) *entity.Shipment {
	cp := *s
	cp.Lines = append([]entity.ShipmentLine(nil), s.Lines...)
	return &cp
}

func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	for _, d := range r.docs {
		if d.Number == shipment.Number {
			return domain.NewDuplicate("Shipment Document", "number", shipment.Number)
		}
	}
	r.docs[shipment.ID] = copyShipment(shipment)
	return nil
}

func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	if d, ok := r.docs[id]; ok {
		return copyShipment(d), nil
	}
	return nil, nil
}

func (r *ShipmentRepo) GetByIDForUpdate(id string) (*entity.Shipment, error) {
	return r.GetByID(id)
}

func (r *ShipmentRepo) GetByNumber(number string) (*entity.Shipment, error) {
	for _, d := range r.docs {
		if d.Number == number {
			return copyShipment(d), nil
		}
	}
	return nil, nil
}

func (r *ShipmentRepo) List(filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for _, d := range r.docs {
		if len(filter.Numbers) > 0 && !contains(filter.Numbers, d.Number) {
			continue
		}
		if len(filter.ClientIDs) > 0 && !contains(filter.ClientIDs, d.ClientID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, d.Status) {
			continue
		}
		if filter.DateFrom != nil && d.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && d.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, copyShipment(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *ShipmentRepo) Update(shipment *entity.Shipment) error {
	r.docs[shipment.ID] = copyShipment(shipment)
	return nil
}

func (r *ShipmentRepo) UpdateStatus(id string, status entity.ShipmentStatus) error {
	if d, ok := r.docs[id]; ok {
		d.Status = status
	}
	return nil
}

func (r *ShipmentRepo) Delete(id string) error {
	delete(r.docs, id)
	return nil
}

func (r *ShipmentRepo) UsesResource(resourceID string) (bool, error) {
	for _, d := range r.docs {
		for _, l := range d.Lines {
			if l.ResourceID == resourceID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *ShipmentRepo) UsesUnit(unitID string) (bool, error) {
	for _, d := range r.docs {
		for _, l := range d.Lines {
			if l.UnitID == unitID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *ShipmentRepo) UsesClient(clientID string) (bool, error) {
	for _, d := range r.docs {
		if d.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

// ResourceRepo repositorio de recursos en memoria.
type ResourceRepo struct {
	rows map[string]*entity.Resource
}

// NewResourceRepo construye un repositorio de recursos vacío.
func NewResourceRepo() *ResourceRepo {
	return &ResourceRepo{rows: make(map[string]*entity.Resource)}
}

// Seed agrega un recurso activo con el id y nombre dados.
func (r *ResourceRepo) Seed(id, name string) {
	r.rows[id] = &entity.Resource{ID: id, Name: name}
}

func (r *ResourceRepo) Create(resource *entity.Resource) error {
	cp := *resource
	r.rows[resource.ID] = &cp
	return nil
}

func (r *ResourceRepo) GetByID(id string) (*entity.Resource, error) {
	if res, ok := r.rows[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}

func (r *ResourceRepo) GetByActiveName(name string) (*entity.Resource, error) {
	for _, res := range r.rows {
		if res.Name == name && !res.IsArchived {
			cp := *res
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ResourceRepo) List(includeArchived bool) ([]*entity.Resource, error) {
	var out []*entity.Resource
	for _, res := range r.rows {
		if !includeArchived && res.IsArchived {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ResourceRepo) Update(resource *entity.Resource) error {
	cp := *resource
	r.rows[resource.ID] = &cp
	return nil
}

func (r *ResourceRepo) Delete(id string) error {
	delete(r.rows, id)
	return nil
}

// UnitRepo repositorio de unidades de medida en memoria.
type UnitRepo struct {
	rows map[string]*entity.Unit
}

// NewUnitRepo construye un repositorio de unidades vacío.
func NewUnitRepo() *UnitRepo {
	return &UnitRepo{rows: make(map[string]*entity.Unit)}
}

// Seed agrega una unidad activa con el id y nombre dados.
func (r *UnitRepo) Seed(id, name string) {
	r.rows[id] = &entity.Unit{ID: id, Name: name}
}

func (r *UnitRepo) Create(unit *entity.Unit) error {
	cp := *unit
	r.rows[unit.ID] = &cp
	return nil
}

func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	if u, ok := r.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UnitRepo) GetByActiveName(name string) (*entity.Unit, error) {
	for _, u := range r.rows {
		if u.Name == name && !u.IsArchived {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UnitRepo) List(includeArchived bool) ([]*entity.Unit, error) {
	var out []*entity.Unit
	for _, u := range r.rows {
		if !includeArchived && u.IsArchived {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UnitRepo) Update(unit *entity.Unit) error {
	cp := *unit
	r.rows[unit.ID] = &cp
	return nil
}

func (r *UnitRepo) Delete(id string) error {
	delete(r.rows, id)
	return nil
}

// ClientRepo repositorio de clientes en memoria.
type ClientRepo struct {
	rows map[string]*entity.Client
}

// NewClientRepo construye un repositorio de clientes vacío.
func NewClientRepo() *ClientRepo {
	return &ClientRepo{rows: make(map[string]*entity.Client)}
}

// Seed agrega un cliente activo con el id y nombre dados.
func (r *ClientRepo) Seed(id, name string) {
	r.rows[id] = &entity.Client{ID: id, Name: name}
}

func (r *ClientRepo) Create(client *entity.Client) error {
	cp := *client
	r.rows[client.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	if c, ok := r.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ClientRepo) GetByActiveName(name string) (*entity.Client, error) {
	for _, c := range r.rows {
		if c.Name == name && !c.IsArchived {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) List(includeArchived bool) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.rows {
		if !includeArchived && c.IsArchived {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClientRepo) Update(client *entity.Client) error {
	cp := *client
	r.rows[client.ID] = &cp
	return nil
}

func (r *ClientRepo) Delete(id string) error {
	delete(r.rows, id)
	return nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// TxRunner pasa los repositorios en memoria directamente a la función; no hay
// transacción real. El mutex serializa las funciones completas, igual que el
// bloqueo de filas serializa transacciones en conflicto sobre los mismos pares.
type TxRunner struct {
	mu        sync.Mutex
	Balances  *BalanceRepo
	Receipts  *ReceiptRepo
	Shipments *ShipmentRepo
}

func (t *TxRunner) Run(ctx context.Context, fn func(balRepo repository.BalanceRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.Balances)
}

func (t *TxRunner) RunReceipt(ctx context.Context, fn func(
	balRepo repository.BalanceRepository,
	receiptRepo repository.ReceiptRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.Balances, t.Receipts)
}

func (t *TxRunner) RunShipment(ctx context.Context, fn func(
	balRepo repository.BalanceRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.Balances, t.Shipments)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsStatus(haystack []entity.ShipmentStatus, needle entity.ShipmentStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
