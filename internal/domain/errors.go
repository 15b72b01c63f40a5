package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSuspended          = errors.New("el negocio está suspendido")
	ErrInactiveUser       = errors.New("la cuenta aún no fue activada por un administrador")
	ErrInvalidLinkCode    = errors.New("código de vinculación inválido")
	ErrInvalidMasterCode  = errors.New("código maestro inválido")
)

// Condiciones que disparan el guard de clientes duplicados.
const (
	DuplicateByPhone       = "telefono"
	DuplicateByNameAddress = "nombre_direccion"
)

// DuplicateCustomerError indica qué condiciones de unicidad coincidieron con un cliente existente.
// errors.Is(err, ErrDuplicate) es verdadero.
type DuplicateCustomerError struct {
	Conditions []string
	ExistingID string
}

func (e *DuplicateCustomerError) Error() string {
	if len(e.Conditions) == 0 {
		return ErrDuplicate.Error()
	}
	return "cliente duplicado: coincide " + strings.Join(e.Conditions, ", ")
}

func (e *DuplicateCustomerError) Unwrap() error { return ErrDuplicate }

// ValidationError describe una entrada rechazada antes de cualquier escritura.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid construye un ValidationError para el campo indicado.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
