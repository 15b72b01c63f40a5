package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var (
	_ repository.BusinessRepository  = (*BusinessRepo)(nil)
	_ repository.CatalogRepository   = (*CatalogRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

const businessColumns = `id, name, link_code, suspended, phone, email, address, onboarding_done, created_at, updated_at`

// BusinessRepo implementación de BusinessRepository (usable con pool o tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var b entity.Business
	err := row.Scan(&b.ID, &b.Name, &b.LinkCode, &b.Suspended, &b.Phone, &b.Email, &b.Address,
		&b.OnboardingDone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste un nuevo negocio.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.LinkCode, b.Suspended, b.Phone, b.Email, b.Address, b.OnboardingDone,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	b, err := scanBusiness(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// GetByLinkCode resuelve el negocio por su código de vinculación vigente.
func (r *BusinessRepo) GetByLinkCode(ctx context.Context, code string) (*entity.Business, error) {
	if code == "" {
		return nil, nil
	}
	b, err := scanBusiness(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE link_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business by link code: %w", err)
	}
	return b, nil
}

// LinkCodeTaken informa si otro negocio usa code como código vigente.
func (r *BusinessRepo) LinkCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM businesses WHERE link_code = $1 AND id::text <> $2)`,
		code, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check link code: %w", err)
	}
	return taken, nil
}

// Update actualiza los datos del negocio (incluye código y suspensión).
func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, link_code = $3, suspended = $4, phone = $5, email = $6, address = $7,
		    onboarding_done = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.LinkCode, b.Suspended, b.Phone, b.Email, b.Address, b.OnboardingDone, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todos los negocios (superadmin), más antiguos primero.
func (r *BusinessRepo) List(ctx context.Context, limit, offset int) ([]*entity.Business, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+businessColumns+` FROM businesses ORDER BY created_at LIMIT $1 OFFSET $2`,
		limitArg(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ─── Catálogo ───────────────────────────────────────────────────────────────

const catalogColumns = `id, business_id, key, label, default_price, position, active, created_at, updated_at`

// CatalogRepo implementación de CatalogRepository.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func scanCatalogProduct(row pgx.Row) (*entity.CatalogProduct, error) {
	var p entity.CatalogProduct
	err := row.Scan(&p.ID, &p.BusinessID, &p.Key, &p.Label, &p.DefaultPrice, &p.Position, &p.Active,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create agrega un producto; (negocio, clave) es único.
func (r *CatalogRepo) Create(ctx context.Context, p *entity.CatalogProduct) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO catalog_products (`+catalogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.BusinessID, p.Key, p.Label, p.DefaultPrice, p.Position, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert catalog product: %w", err)
	}
	return nil
}

func (r *CatalogRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CatalogProduct, error) {
	p, err := scanCatalogProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog product: %w", err)
	}
	return p, nil
}

// GetByID producto del negocio por ID.
func (r *CatalogRepo) GetByID(ctx context.Context, businessID, id string) (*entity.CatalogProduct, error) {
	return r.getOne(ctx, `SELECT `+catalogColumns+` FROM catalog_products WHERE business_id = $1 AND id = $2`, businessID, id)
}

// GetByKey producto del negocio por clave, activo o no.
func (r *CatalogRepo) GetByKey(ctx context.Context, businessID, key string) (*entity.CatalogProduct, error) {
	return r.getOne(ctx, `SELECT `+catalogColumns+` FROM catalog_products WHERE business_id = $1 AND key = $2`, businessID, key)
}

// List catálogo ordenado por posición.
func (r *CatalogRepo) List(ctx context.Context, businessID string, includeInactive bool) ([]*entity.CatalogProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+catalogColumns+` FROM catalog_products
		WHERE business_id = $1 AND ($2 OR active)
		ORDER BY position, key`,
		businessID, includeInactive,
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var list []*entity.CatalogProduct
	for rows.Next() {
		p, err := scanCatalogProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update la clave no cambia; la baja es active = false.
func (r *CatalogRepo) Update(ctx context.Context, p *entity.CatalogProduct) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE catalog_products
		SET label = $3, default_price = $4, position = $5, active = $6, updated_at = $7
		WHERE business_id = $1 AND id = $2`,
		p.BusinessID, p.ID, p.Label, p.DefaultPrice, p.Position, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update catalog product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ─── Inventario ─────────────────────────────────────────────────────────────

// InventoryRepo implementación de InventoryRepository.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// List activos del negocio por categoría.
func (r *InventoryRepo) List(ctx context.Context, businessID string) ([]*entity.InventoryAsset, error) {
	rows, err := r.q.Query(ctx, `
		SELECT business_id, category, total, replacement_cost, updated_at
		FROM inventory_assets WHERE business_id = $1 ORDER BY category`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAsset
	for rows.Next() {
		var a entity.InventoryAsset
		if err := rows.Scan(&a.BusinessID, &a.Category, &a.Total, &a.ReplacementCost, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory asset: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Upsert crea o reemplaza la fila (negocio, categoría).
func (r *InventoryRepo) Upsert(ctx context.Context, a *entity.InventoryAsset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_assets (business_id, category, total, replacement_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (business_id, category)
		DO UPDATE SET total = EXCLUDED.total, replacement_cost = EXCLUDED.replacement_cost, updated_at = EXCLUDED.updated_at`,
		a.BusinessID, a.Category, a.Total, a.ReplacementCost, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory asset: %w", err)
	}
	return nil
}
