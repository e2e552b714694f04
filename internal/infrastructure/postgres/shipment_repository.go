package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador de envíos. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create persiste cabecera y líneas de un envío.
func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	query := `
		INSERT INTO shipment_documents (id, number, client_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		shipment.ID, shipment.Number, shipment.ClientID, shipment.Date,
		string(shipment.Status), shipment.CreatedAt, shipment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Shipment Document", "number", shipment.Number)
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return r.insertLines(shipment.ID, shipment.Lines)
}

// GetByID obtiene un envío con sus líneas.
func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	return r.getOne(`SELECT id, number, client_id, date, status, created_at, updated_at
		FROM shipment_documents WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el envío bloqueando la cabecera (SELECT FOR UPDATE).
func (r *ShipmentRepo) GetByIDForUpdate(id string) (*entity.Shipment, error) {
	return r.getOne(`SELECT id, number, client_id, date, status, created_at, updated_at
		FROM shipment_documents WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumber obtiene un envío por número de documento.
func (r *ShipmentRepo) GetByNumber(number string) (*entity.Shipment, error) {
	return r.getOne(`SELECT id, number, client_id, date, status, created_at, updated_at
		FROM shipment_documents WHERE number = $1`, number)
}

func (r *ShipmentRepo) getOne(query, arg string) (*entity.Shipment, error) {
	var shipment entity.Shipment
	var status string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&shipment.ID, &shipment.Number, &shipment.ClientID, &shipment.Date,
		&status, &shipment.CreatedAt, &shipment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	shipment.Status = entity.ShipmentStatus(status)
	lines, err := r.linesOf(shipment.ID)
	if err != nil {
		return nil, err
	}
	shipment.Lines = lines
	return &shipment, nil
}

// List devuelve envíos (con líneas) según filtro, ordenados por fecha descendente.
func (r *ShipmentRepo) List(filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	query := `
		SELECT d.id, d.number, d.client_id, d.date, d.status, d.created_at, d.updated_at
		FROM shipment_documents d
		WHERE ($1::timestamptz IS NULL OR d.date >= $1)
		  AND ($2::timestamptz IS NULL OR d.date <= $2)
		  AND ($3::text[] IS NULL OR d.number = ANY($3))
		  AND ($4::text[] IS NULL OR d.client_id = ANY($4))
		  AND ($5::text[] IS NULL OR d.status = ANY($5))
		  AND ($6::text[] IS NULL OR EXISTS (
		        SELECT 1 FROM shipment_lines l WHERE l.shipment_id = d.id AND l.resource_id = ANY($6)))
		  AND ($7::text[] IS NULL OR EXISTS (
		        SELECT 1 FROM shipment_lines l WHERE l.shipment_id = d.id AND l.unit_id = ANY($7)))
		ORDER BY d.date DESC, d.number`
	rows, err := r.q.Query(context.Background(), query,
		filter.DateFrom, filter.DateTo, nullableArray(filter.Numbers),
		nullableArray(filter.ClientIDs), statusArray(filter.Statuses),
		nullableArray(filter.ResourceIDs), nullableArray(filter.UnitIDs))
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Shipment
	for rows.Next() {
		var shipment entity.Shipment
		var status string
		if err := rows.Scan(&shipment.ID, &shipment.Number, &shipment.ClientID, &shipment.Date,
			&status, &shipment.CreatedAt, &shipment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipment.Status = entity.ShipmentStatus(status)
		list = append(list, &shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, shipment := range list {
		lines, err := r.linesOf(shipment.ID)
		if err != nil {
			return nil, err
		}
		shipment.Lines = lines
	}
	return list, nil
}

// Update actualiza la cabecera y reemplaza el juego de líneas completo.
func (r *ShipmentRepo) Update(shipment *entity.Shipment) error {
	query := `
		UPDATE shipment_documents SET number = $2, client_id = $3, date = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		shipment.ID, shipment.Number, shipment.ClientID, shipment.Date, shipment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Shipment Document", "number", shipment.Number)
		}
		return fmt.Errorf("update shipment: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM shipment_lines WHERE shipment_id = $1`, shipment.ID); err != nil {
		return fmt.Errorf("delete shipment lines: %w", err)
	}
	return r.insertLines(shipment.ID, shipment.Lines)
}

// UpdateStatus cambia únicamente el estado del documento.
func (r *ShipmentRepo) UpdateStatus(id string, status entity.ShipmentStatus) error {
	query := `UPDATE shipment_documents SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	return nil
}

// Delete elimina el envío; las líneas caen en cascada.
func (r *ShipmentRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM shipment_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	return nil
}

// UsesResource indica si alguna línea de envío referencia el recurso.
func (r *ShipmentRepo) UsesResource(resourceID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM shipment_lines WHERE resource_id = $1)`, resourceID)
}

// UsesUnit indica si alguna línea de envío referencia la unidad.
func (r *ShipmentRepo) UsesUnit(unitID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM shipment_lines WHERE unit_id = $1)`, unitID)
}

// UsesClient indica si algún documento de envío referencia el cliente.
func (r *ShipmentRepo) UsesClient(clientID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM shipment_documents WHERE client_id = $1)`, clientID)
}

func (r *ShipmentRepo) exists(query, arg string) (bool, error) {
	var has bool
	if err := r.q.QueryRow(context.Background(), query, arg).Scan(&has); err != nil {
		return false, fmt.Errorf("exists shipment ref: %w", err)
	}
	return has, nil
}

func (r *ShipmentRepo) insertLines(shipmentID string, lines []entity.ShipmentLine) error {
	query := `
		INSERT INTO shipment_lines (id, shipment_id, resource_id, unit_id, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range lines {
		_, err := r.q.Exec(context.Background(), query,
			line.ID, shipmentID, line.ResourceID, line.UnitID, line.Quantity, line.Position,
		)
		if err != nil {
			return fmt.Errorf("insert shipment line: %w", err)
		}
	}
	return nil
}

func (r *ShipmentRepo) linesOf(shipmentID string) ([]entity.ShipmentLine, error) {
	query := `
		SELECT id, shipment_id, resource_id, unit_id, quantity, position
		FROM shipment_lines WHERE shipment_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.ShipmentLine
	for rows.Next() {
		var line entity.ShipmentLine
		if err := rows.Scan(&line.ID, &line.ShipmentID, &line.ResourceID, &line.UnitID, &line.Quantity, &line.Position); err != nil {
			return nil, fmt.Errorf("scan shipment line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// statusArray convierte los estados a text[] para el filtro SQL (nil si vacío).
func statusArray(statuses []entity.ShipmentStatus) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
