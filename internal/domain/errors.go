package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
// Los tipos de abajo envuelven estos centinelas para que los handlers
// puedan seguir usando errors.Is sin perder el detalle del error.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrBusiness          = errors.New("regla de negocio violada")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInUse             = errors.New("recurso en uso")
)

// NotFoundError indica que una entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateError indica una colisión sobre un campo único (número de documento, nombre).
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// NewDuplicate construye un DuplicateError.
func NewDuplicate(entity, field, value string) error {
	return &DuplicateError{Entity: entity, Field: field, Value: value}
}

// InsufficientStockError indica que un ajuste dejaría el balance en negativo.
// Required es la cantidad solicitada y Available el saldo actual del par.
type InsufficientStockError struct {
	Resource  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %s, available %s",
		e.Resource, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NewInsufficientStock construye un InsufficientStockError.
func NewInsufficientStock(resource string, required, available decimal.Decimal) error {
	return &InsufficientStockError{Resource: resource, Required: required, Available: available}
}

// InUseError indica que una entidad del catálogo no puede eliminarse porque
// balances o líneas de documento todavía la referencian.
type InUseError struct {
	Entity string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("Cannot delete %s because it is in use", e.Entity)
}

func (e *InUseError) Unwrap() error { return ErrInUse }

// NewInUse construye un InUseError.
func NewInUse(entity string) error {
	return &InUseError{Entity: entity}
}

// BusinessError indica una violación de regla de negocio o de la máquina de estados
// (documento vacío, editar un documento firmado, firmar dos veces, etc.).
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func (e *BusinessError) Unwrap() error { return ErrBusiness }

// NewBusiness construye un BusinessError con el mensaje dado.
func NewBusiness(message string) error {
	return &BusinessError{Message: message}
}
