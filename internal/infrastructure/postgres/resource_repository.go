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

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implementación de ResourceRepository sobre PostgreSQL.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador de recursos.
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

// Create persiste un recurso nuevo.
func (r *ResourceRepo) Create(resource *entity.Resource) error {
	query := `
		INSERT INTO resources (id, name, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		resource.ID, resource.Name, resource.IsArchived, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Resource", "name", resource.Name)
		}
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// GetByID obtiene un recurso por id.
func (r *ResourceRepo) GetByID(id string) (*entity.Resource, error) {
	return r.getOne(`SELECT id, name, is_archived, created_at, updated_at
		FROM resources WHERE id = $1`, id)
}

// GetByActiveName busca por nombre entre los no archivados.
func (r *ResourceRepo) GetByActiveName(name string) (*entity.Resource, error) {
	return r.getOne(`SELECT id, name, is_archived, created_at, updated_at
		FROM resources WHERE name = $1 AND NOT is_archived`, name)
}

func (r *ResourceRepo) getOne(query, arg string) (*entity.Resource, error) {
	var resource entity.Resource
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&resource.ID, &resource.Name, &resource.IsArchived, &resource.CreatedAt, &resource.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &resource, nil
}

// List devuelve los recursos, por defecto solo los activos.
func (r *ResourceRepo) List(includeArchived bool) ([]*entity.Resource, error) {
	query := `
		SELECT id, name, is_archived, created_at, updated_at
		FROM resources
		WHERE $1 OR NOT is_archived
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var list []*entity.Resource
	for rows.Next() {
		var resource entity.Resource
		if err := rows.Scan(&resource.ID, &resource.Name, &resource.IsArchived, &resource.CreatedAt, &resource.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		list = append(list, &resource)
	}
	return list, rows.Err()
}

// Update actualiza nombre y estado de archivado.
func (r *ResourceRepo) Update(resource *entity.Resource) error {
	query := `
		UPDATE resources SET name = $2, is_archived = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		resource.ID, resource.Name, resource.IsArchived, resource.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Resource", "name", resource.Name)
		}
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// Delete elimina el recurso. El caso de uso verifica antes que no esté en uso.
func (r *ResourceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
