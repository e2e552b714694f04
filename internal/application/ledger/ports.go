package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de balances atado a esa tx. Garantiza atomicidad para los ajustes
// y reintenta de forma acotada los abortos por conflicto de bloqueo.
type TxRunner interface {
	Run(ctx context.Context, fn func(balRepo repository.BalanceRepository) error) error
}

// ReferenceValidator confirma la existencia de recursos, unidades y clientes
// antes de aceptar documentos. Implementado por el catálogo.
type ReferenceValidator interface {
	ResourceExists(ctx context.Context, id string) (bool, error)
	UnitExists(ctx context.Context, id string) (bool, error)
	ClientExists(ctx context.Context, id string) (bool, error)
}
