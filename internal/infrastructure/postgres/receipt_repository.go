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

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository sobre PostgreSQL (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador de recepciones. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste cabecera y líneas de una recepción.
func (r *ReceiptRepo) Create(receipt *entity.Receipt) error {
	query := `
		INSERT INTO receipt_documents (id, number, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.Number, receipt.Date, receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Receipt Document", "number", receipt.Number)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return r.insertLines(receipt.ID, receipt.Lines)
}

// GetByID obtiene una recepción con sus líneas.
func (r *ReceiptRepo) GetByID(id string) (*entity.Receipt, error) {
	return r.getOne(`SELECT id, number, date, created_at, updated_at
		FROM receipt_documents WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la recepción bloqueando la cabecera (SELECT FOR UPDATE).
func (r *ReceiptRepo) GetByIDForUpdate(id string) (*entity.Receipt, error) {
	return r.getOne(`SELECT id, number, date, created_at, updated_at
		FROM receipt_documents WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumber obtiene una recepción por número de documento.
func (r *ReceiptRepo) GetByNumber(number string) (*entity.Receipt, error) {
	return r.getOne(`SELECT id, number, date, created_at, updated_at
		FROM receipt_documents WHERE number = $1`, number)
}

func (r *ReceiptRepo) getOne(query, arg string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&receipt.ID, &receipt.Number, &receipt.Date, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	lines, err := r.linesOf(receipt.ID)
	if err != nil {
		return nil, err
	}
	receipt.Lines = lines
	return &receipt, nil
}

// List devuelve recepciones (con líneas) según filtro, ordenadas por fecha descendente.
func (r *ReceiptRepo) List(filter repository.ReceiptFilter) ([]*entity.Receipt, error) {
	query := `
		SELECT d.id, d.number, d.date, d.created_at, d.updated_at
		FROM receipt_documents d
		WHERE ($1::timestamptz IS NULL OR d.date >= $1)
		  AND ($2::timestamptz IS NULL OR d.date <= $2)
		  AND ($3::text[] IS NULL OR d.number = ANY($3))
		  AND ($4::text[] IS NULL OR EXISTS (
		        SELECT 1 FROM receipt_lines l WHERE l.receipt_id = d.id AND l.resource_id = ANY($4)))
		  AND ($5::text[] IS NULL OR EXISTS (
		        SELECT 1 FROM receipt_lines l WHERE l.receipt_id = d.id AND l.unit_id = ANY($5)))
		ORDER BY d.date DESC, d.number`
	rows, err := r.q.Query(context.Background(), query,
		filter.DateFrom, filter.DateTo, nullableArray(filter.Numbers),
		nullableArray(filter.ResourceIDs), nullableArray(filter.UnitIDs))
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Receipt
	for rows.Next() {
		var receipt entity.Receipt
		if err := rows.Scan(&receipt.ID, &receipt.Number, &receipt.Date, &receipt.CreatedAt, &receipt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, receipt := range list {
		lines, err := r.linesOf(receipt.ID)
		if err != nil {
			return nil, err
		}
		receipt.Lines = lines
	}
	return list, nil
}

// Update actualiza la cabecera y reemplaza el juego de líneas completo.
func (r *ReceiptRepo) Update(receipt *entity.Receipt) error {
	query := `
		UPDATE receipt_documents SET number = $2, date = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.Number, receipt.Date, receipt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicate("Receipt Document", "number", receipt.Number)
		}
		return fmt.Errorf("update receipt: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM receipt_lines WHERE receipt_id = $1`, receipt.ID); err != nil {
		return fmt.Errorf("delete receipt lines: %w", err)
	}
	return r.insertLines(receipt.ID, receipt.Lines)
}

// Delete elimina la recepción; las líneas caen en cascada.
func (r *ReceiptRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM receipt_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	return nil
}

// UsesResource indica si alguna línea de recepción referencia el recurso.
func (r *ReceiptRepo) UsesResource(resourceID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM receipt_lines WHERE resource_id = $1)`, resourceID)
}

// UsesUnit indica si alguna línea de recepción referencia la unidad.
func (r *ReceiptRepo) UsesUnit(unitID string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM receipt_lines WHERE unit_id = $1)`, unitID)
}

func (r *ReceiptRepo) exists(query, arg string) (bool, error) {
	var has bool
	if err := r.q.QueryRow(context.Background(), query, arg).Scan(&has); err != nil {
		return false, fmt.Errorf("exists receipt line: %w", err)
	}
	return has, nil
}

func (r *ReceiptRepo) insertLines(receiptID string, lines []entity.ReceiptLine) error {
	query := `
		INSERT INTO receipt_lines (id, receipt_id, resource_id, unit_id, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range lines {
		_, err := r.q.Exec(context.Background(), query,
			line.ID, receiptID, line.ResourceID, line.UnitID, line.Quantity, line.Position,
		)
		if err != nil {
			return fmt.Errorf("insert receipt line: %w", err)
		}
	}
	return nil
}

func (r *ReceiptRepo) linesOf(receiptID string) ([]entity.ReceiptLine, error) {
	query := `
		SELECT id, receipt_id, resource_id, unit_id, quantity, position
		FROM receipt_lines WHERE receipt_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list receipt lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.ReceiptLine
	for rows.Next() {
		var line entity.ReceiptLine
		if err := rows.Scan(&line.ID, &line.ReceiptID, &line.ResourceID, &line.UnitID, &line.Quantity, &line.Position); err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
