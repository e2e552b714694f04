package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de UnitRepository sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades de medida.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func (r *UnitRepo) Create(unit *entity.Unit) error {
	query := `
		INSERT INTO units_of_measurement (id, name, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Name, unit.IsArchived, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Unit of Measurement", "name", unit.Name)
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	return r.getOne(`SELECT id, name, is_archived, created_at, updated_at
		FROM units_of_measurement WHERE id = $1`, id)
}

func (r *UnitRepo) GetByActiveName(name string) (*entity.Unit, error) {
	return r.getOne(`SELECT id, name, is_archived, created_at, updated_at
		FROM units_of_measurement WHERE name = $1 AND NOT is_archived`, name)
}

func (r *UnitRepo) getOne(query, arg string) (*entity.Unit, error) {
	var unit entity.Unit
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&unit.ID, &unit.Name, &unit.IsArchived, &unit.CreatedAt, &unit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &unit, nil
}

func (r *UnitRepo) List(includeArchived bool) ([]*entity.Unit, error) {
	query := `
		SELECT id, name, is_archived, created_at, updated_at
		FROM units_of_measurement
		WHERE $1 OR NOT is_archived
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var list []*entity.Unit
	for rows.Next() {
		var unit entity.Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.IsArchived, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &unit)
	}
	return list, rows.Err()
}

func (r *UnitRepo) Update(unit *entity.Unit) error {
	query := `
		UPDATE units_of_measurement SET name = $2, is_archived = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Name, unit.IsArchived, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Unit of Measurement", "name", unit.Name)
		}
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM units_of_measurement WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}
