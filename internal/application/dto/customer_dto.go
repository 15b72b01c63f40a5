package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	Name               string   `json:"nombre" validate:"required,max=200"`
	Address            string   `json:"direccion" validate:"omitempty,max=300"`
	Locality           string   `json:"localidad" validate:"omitempty,max=120"`
	Phone              string   `json:"telefono" validate:"omitempty,max=50"`
	Debt               *DebtDTO `json:"deuda"`
	DispensersAssigned int      `json:"dispensersAsignados" validate:"min=0"`
}

// UpdateCustomerRequest actualización parcial; la deuda se puede corregir manualmente.
type UpdateCustomerRequest struct {
	Name               *string  `json:"nombre" validate:"omitempty,min=1,max=200"`
	Address            *string  `json:"direccion" validate:"omitempty,max=300"`
	Locality           *string  `json:"localidad" validate:"omitempty,max=120"`
	Phone              *string  `json:"telefono" validate:"omitempty,max=50"`
	Debt               *DebtDTO `json:"deuda"`
	DispensersAssigned *int     `json:"dispensersAsignados" validate:"omitempty,min=0"`
}

// CustomerListRequest filtros del listado (query string).
type CustomerListRequest struct {
	PageRequest
	Active string `query:"activo" validate:"omitempty,oneof=true false todos"`
	Search string `query:"q"`
}

// CustomerResponse cliente con su saldo pendiente derivado.
type CustomerResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"nombre"`
	Address            string          `json:"direccion"`
	Locality           string          `json:"localidad"`
	Phone              string          `json:"telefono"`
	Debt               DebtDTO         `json:"deuda"`
	DispensersAssigned int             `json:"dispensersAsignados"`
	Active             bool            `json:"activo"`
	PendingBalance     decimal.Decimal `json:"saldo_pendiente"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
