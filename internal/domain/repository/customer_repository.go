package repository

import (
	"context"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	BusinessID string
	Active     *bool  // nil = todos
	Search     string // coincidencia parcial sobre nombre, dirección o teléfono
	Limit      int
	Offset     int
}

// CustomerRepository define el puerto de persistencia para Customer.
// Todas las lecturas por id van acotadas al negocio: un id de otro negocio se comporta como inexistente.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error)
	// FindDuplicates devuelve clientes (activos o no) con el mismo teléfono normalizado
	// o el mismo par (nombre, dirección). excludeID se ignora si está vacío.
	FindDuplicates(ctx context.Context, businessID, phoneNormalized, name, address, excludeID string) ([]*entity.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
	// Update reescribe perfil, dispensers y estado. Nunca toca la deuda de envases.
	Update(ctx context.Context, customer *entity.Customer) error
	// SetDebt corrección manual de la deuda de envases.
	SetDebt(ctx context.Context, businessID, id string, debt entity.ContainerDebt) error
	// AdjustDebt suma delta a la deuda de envases con piso en cero, de forma atómica, y
	// devuelve la deuda resultante. (nil, nil) si el cliente no existe en el negocio.
	AdjustDebt(ctx context.Context, businessID, id string, delta entity.ContainerDebt) (*entity.ContainerDebt, error)
	// SumDispensersAssigned total de dispensers en poder de clientes del negocio.
	SumDispensersAssigned(ctx context.Context, businessID string) (int, error)
}
