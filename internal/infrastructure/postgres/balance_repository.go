package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance del par; si no hay fila devuelve una con cantidad cero.
func (r *BalanceRepo) Get(resourceID, unitID string) (*entity.Balance, error) {
	query := `
		SELECT id, resource_id, unit_id, quantity, created_at, updated_at
		FROM balances WHERE resource_id = $1 AND unit_id = $2`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, resourceID, unitID).Scan(
		&b.ID, &b.ResourceID, &b.UnitID, &b.Quantity, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{ResourceID: resourceID, UnitID: unitID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el balance bloqueando la fila (SELECT FOR UPDATE).
// Si la fila no existe, la crea en cero dentro de la transacción actual y la
// bloquea: dos creaciones concurrentes del mismo par se serializan sobre el
// constraint único, y un rollback posterior deshace la fila recién creada.
func (r *BalanceRepo) GetForUpdate(resourceID, unitID string) (*entity.Balance, error) {
	bal, err := r.selectForUpdate(resourceID, unitID)
	if err == nil || !errors.Is(err, pgx.ErrNoRows) {
		return bal, err
	}

	insert := `
		INSERT INTO balances (id, resource_id, unit_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, 0, now(), now())
		ON CONFLICT (resource_id, unit_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, uuid.New().String(), resourceID, unitID); err != nil {
		return nil, fmt.Errorf("create balance row: %w", err)
	}
	bal, err = r.selectForUpdate(resourceID, unitID)
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func (r *BalanceRepo) selectForUpdate(resourceID, unitID string) (*entity.Balance, error) {
	query := `
		SELECT id, resource_id, unit_id, quantity, created_at, updated_at
		FROM balances WHERE resource_id = $1 AND unit_id = $2
		FOR UPDATE`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, resourceID, unitID).Scan(
		&b.ID, &b.ResourceID, &b.UnitID, &b.Quantity, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad del balance (por recurso y unidad).
func (r *BalanceRepo) Upsert(balance *entity.Balance) error {
	query := `
		INSERT INTO balances (id, resource_id, unit_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (resource_id, unit_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ID, balance.ResourceID, balance.UnitID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// List devuelve balances con nombres de recurso y unidad resueltos, según filtro.
func (r *BalanceRepo) List(filter repository.BalanceFilter) ([]*entity.BalanceView, error) {
	query := `
		SELECT b.id, b.resource_id, b.unit_id, b.quantity, b.created_at, b.updated_at,
		       r.name, u.name, (r.is_archived OR u.is_archived)
		FROM balances b
		JOIN resources r ON r.id = b.resource_id
		JOIN units_of_measurement u ON u.id = b.unit_id
		WHERE ($1::text[] IS NULL OR b.resource_id = ANY($1))
		  AND ($2::text[] IS NULL OR b.unit_id = ANY($2))
		  AND ($3 OR b.quantity > 0)
		ORDER BY r.name, u.name`
	rows, err := r.q.Query(context.Background(), query,
		nullableArray(filter.ResourceIDs), nullableArray(filter.UnitIDs), filter.IncludeZero)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var list []*entity.BalanceView
	for rows.Next() {
		var v entity.BalanceView
		if err := rows.Scan(
			&v.ID, &v.ResourceID, &v.UnitID, &v.Quantity, &v.CreatedAt, &v.UpdatedAt,
			&v.ResourceName, &v.UnitName, &v.IsArchived,
		); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ExistsByResource indica si el recurso tiene balances.
func (r *BalanceRepo) ExistsByResource(resourceID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM balances WHERE resource_id = $1)`, resourceID)
}

// ExistsByUnit indica si la unidad tiene balances.
func (r *BalanceRepo) ExistsByUnit(unitID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM balances WHERE unit_id = $1)`, unitID)
}

func (r *BalanceRepo) exists(query, arg string) (bool, error) {
	var has bool
	if err := r.q.QueryRow(context.Background(), query, arg).Scan(&has); err != nil {
		return false, fmt.Errorf("exists balance: %w", err)
	}
	return has, nil
}

// nullableArray devuelve nil para slices vacíos, de modo que el filtro SQL se desactive.
func nullableArray(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
