package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance representa el saldo actual de un par (recurso, unidad de medida).
// Una fila por par, creada de forma perezosa en el primer ajuste.
// Invariante: Quantity nunca es negativa.
type Balance struct {
	ID         string
	ResourceID string
	UnitID     string
	Quantity   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BalanceView fila de balance con nombres resueltos para listados.
type BalanceView struct {
	Balance
	ResourceName string
	UnitName     string
	IsArchived   bool // recurso o unidad archivados
}
