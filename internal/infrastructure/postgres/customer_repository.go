package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, business_id, name, address, locality, phone, phone_normalized,
	debt_20l, debt_12l, debt_sodas, dispensers_assigned, active, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Address, &c.Locality, &c.Phone, &c.PhoneNormalized,
		&c.Debt.Bidones20L, &c.Debt.Bidones12L, &c.Debt.Sodas, &c.DispensersAssigned, &c.Active,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCustomers(rows pgx.Rows) ([]*entity.Customer, error) {
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create persiste un nuevo cliente. Los índices únicos de teléfono y (nombre, dirección) devuelven ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.Name, c.Address, c.Locality, c.Phone, c.PhoneNormalized,
		c.Debt.Bidones20L, c.Debt.Bidones12L, c.Debt.Sodas, c.DispensersAssigned, c.Active,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del negocio por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// FindDuplicates clientes (activos o no) que chocan por teléfono o por (nombre, dirección).
func (r *CustomerRepo) FindDuplicates(ctx context.Context, businessID, phoneNormalized, name, address, excludeID string) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE business_id = $1
		  AND id::text <> $5
		  AND (($2 <> '' AND phone_normalized = $2) OR (name = $3 AND address = $4))
		ORDER BY created_at`,
		businessID, phoneNormalized, name, address, excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("find duplicate customers: %w", err)
	}
	return collectCustomers(rows)
}

// List lista clientes con filtros de estado y búsqueda, ordenados por nombre.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var w whereBuilder
	w.add("business_id = ?", f.BusinessID)
	if f.Active != nil {
		w.add("active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(name ILIKE ? OR address ILIKE ? OR phone ILIKE ?)", "%"+s+"%", "%"+s+"%", "%"+s+"%")
	}
	query := `SELECT ` + customerColumns + ` FROM customers` + w.sql() +
		` ORDER BY LOWER(name) LIMIT ` + w.next(limitArg(f.Limit)) + ` OFFSET ` + w.next(f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return collectCustomers(rows)
}

// Update reemplaza los datos de perfil y el estado. La deuda sólo cambia por AdjustDebt o SetDebt.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $3, address = $4, locality = $5, phone = $6, phone_normalized = $7,
		    dispensers_assigned = $8, active = $9, updated_at = $10
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		c.BusinessID, c.ID, c.Name, c.Address, c.Locality, c.Phone, c.PhoneNormalized,
		c.DispensersAssigned, c.Active, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDebt fija los contadores de deuda corregidos a mano.
func (r *CustomerRepo) SetDebt(ctx context.Context, businessID, id string, debt entity.ContainerDebt) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers
		SET debt_20l = $3, debt_12l = $4, debt_sodas = $5, updated_at = NOW()
		WHERE business_id = $1 AND id = $2`,
		businessID, id, debt.Bidones20L, debt.Bidones12L, debt.Sodas,
	)
	if err != nil {
		return fmt.Errorf("set customer debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustDebt suma delta a los contadores con piso en cero en una sola sentencia.
func (r *CustomerRepo) AdjustDebt(ctx context.Context, businessID, id string, delta entity.ContainerDebt) (*entity.ContainerDebt, error) {
	var d entity.ContainerDebt
	err := r.q.QueryRow(ctx, `
		UPDATE customers
		SET debt_20l   = GREATEST(0, debt_20l + $3),
		    debt_12l   = GREATEST(0, debt_12l + $4),
		    debt_sodas = GREATEST(0, debt_sodas + $5),
		    updated_at = NOW()
		WHERE business_id = $1 AND id = $2
		RETURNING debt_20l, debt_12l, debt_sodas`,
		businessID, id, delta.Bidones20L, delta.Bidones12L, delta.Sodas,
	).Scan(&d.Bidones20L, &d.Bidones12L, &d.Sodas)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("adjust customer debt: %w", err)
	}
	return &d, nil
}

// SumDispensersAssigned dispensers en poder de clientes (activos o no).
func (r *CustomerRepo) SumDispensersAssigned(ctx context.Context, businessID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(dispensers_assigned), 0)::int FROM customers WHERE business_id = $1`, businessID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum dispensers: %w", err)
	}
	return total, nil
}
