package repository

import (
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// BalanceFilter filtro para listados de balances.
type BalanceFilter struct {
	ResourceIDs []string
	UnitIDs     []string
	IncludeZero bool
}

// BalanceRepository define el puerto para consultar/actualizar balances por (recurso, unidad).
// Usado dentro de transacciones para garantizar consistencia.
type BalanceRepository interface {
	// Get devuelve el balance del par; si no hay fila devuelve una con cantidad cero.
	Get(resourceID, unitID string) (*entity.Balance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(resourceID, unitID string) (*entity.Balance, error)
	Upsert(balance *entity.Balance) error
	List(filter BalanceFilter) ([]*entity.BalanceView, error)
	// ExistsByResource / ExistsByUnit indican si el recurso/unidad tiene balances
	// (bloquea su eliminación en el catálogo).
	ExistsByResource(resourceID string) (bool, error)
	ExistsByUnit(unitID string) (bool, error)
}
