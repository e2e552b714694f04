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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, address, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Address, client.IsArchived, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Client", "name", client.Name)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.getOne(`SELECT id, name, address, is_archived, created_at, updated_at
		FROM clients WHERE id = $1`, id)
}

func (r *ClientRepo) GetByActiveName(name string) (*entity.Client, error) {
	return r.getOne(`SELECT id, name, address, is_archived, created_at, updated_at
		FROM clients WHERE name = $1 AND NOT is_archived`, name)
}

func (r *ClientRepo) getOne(query, arg string) (*entity.Client, error) {
	var client entity.Client
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&client.ID, &client.Name, &client.Address, &client.IsArchived, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &client, nil
}

func (r *ClientRepo) List(includeArchived bool) ([]*entity.Client, error) {
	query := `
		SELECT id, name, address, is_archived, created_at, updated_at
		FROM clients
		WHERE $1 OR NOT is_archived
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		var client entity.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Address, &client.IsArchived, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &client)
	}
	return list, rows.Err()
}

func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, address = $3, is_archived = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Address, client.IsArchived, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Client", "name", client.Name)
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *ClientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
