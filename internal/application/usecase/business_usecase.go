package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/inventory"
	"github.com/jhoicas/reparto-api/internal/domain/linkcode"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// BusinessUseCase configuración del negocio: datos, catálogo, inventario y código de vinculación.
type BusinessUseCase struct {
	repo          repository.BusinessRepository
	catalogRepo   repository.CatalogRepository
	inventoryRepo repository.InventoryRepository
	customerRepo  repository.CustomerRepository
	now           func() time.Time
}

// NewBusinessUseCase construye el caso de uso con los puertos de persistencia.
func NewBusinessUseCase(
	repo repository.BusinessRepository,
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
) *BusinessUseCase {
	return &BusinessUseCase{
		repo:          repo,
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		customerRepo:  customerRepo,
		now:           time.Now,
	}
}

func (uc *BusinessUseCase) load(ctx context.Context, id string) (*entity.Business, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// Get devuelve el negocio del actor con su catálogo activo.
func (uc *BusinessUseCase) Get(ctx context.Context, actor dto.Actor) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogRepo.List(ctx, b.ID, false)
	if err != nil {
		return nil, err
	}
	return dto.ToBusinessResponse(b, catalog, actor.IsAdmin()), nil
}

// Update actualización parcial de los datos de contacto.
func (uc *BusinessUseCase) Update(ctx context.Context, actor dto.Actor, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("nombre", "es obligatorio")
		}
		b.Name = name
	}
	if in.Phone != nil {
		b.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		b.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		b.Address = strings.TrimSpace(*in.Address)
	}
	b.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor)
}

// CompleteOnboarding marca el onboarding como terminado (idempotente).
func (uc *BusinessUseCase) CompleteOnboarding(ctx context.Context, actor dto.Actor) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	if !b.OnboardingDone {
		b.OnboardingDone = true
		b.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, b); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, actor)
}

// RegenerateLinkCode emite un código nuevo. El anterior deja de servir para vincularse;
// los usuarios ya vinculados no cambian.
func (uc *BusinessUseCase) RegenerateLinkCode(ctx context.Context, actor dto.Actor) (string, error) {
	b, err := uc.load(ctx, actor.BusinessID)
	if err != nil {
		return "", err
	}
	return linkcode.Assign(ctx, b.ID, uc.repo.LinkCodeTaken, func(code string) error {
		b.LinkCode = code
		b.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, b)
	})
}

// ── Catálogo ────────────────────────────────────────────────────────────────

// ListCatalog lista el catálogo; includeInactive muestra también los dados de baja.
func (uc *BusinessUseCase) ListCatalog(ctx context.Context, actor dto.Actor, includeInactive bool) ([]dto.CatalogItemDTO, error) {
	list, err := uc.catalogRepo.List(ctx, actor.BusinessID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToCatalogItemDTO(p))
	}
	return out, nil
}

// AddCatalogItem agrega un producto. Si la clave existe dada de baja, se reactiva con los datos nuevos.
func (uc *BusinessUseCase) AddCatalogItem(ctx context.Context, actor dto.Actor, in dto.CreateCatalogItemRequest) (*dto.CatalogItemDTO, error) {
	key := strings.TrimSpace(in.Key)
	label := strings.TrimSpace(in.Label)
	if key == "" || label == "" {
		return nil, domain.Invalid("key", "key y label son obligatorios")
	}
	if in.DefaultPrice.IsNegative() {
		return nil, domain.Invalid("precioDefault", "no puede ser negativo")
	}
	now := uc.now()
	existing, err := uc.catalogRepo.GetByKey(ctx, actor.BusinessID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Active {
			return nil, domain.ErrDuplicate
		}
		existing.Active = true
		existing.Label = label
		existing.DefaultPrice = in.DefaultPrice
		existing.UpdatedAt = now
		if err := uc.catalogRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		out := dto.ToCatalogItemDTO(existing)
		return &out, nil
	}
	current, err := uc.catalogRepo.List(ctx, actor.BusinessID, true)
	if err != nil {
		return nil, err
	}
	p := &entity.CatalogProduct{
		ID:           uuid.New().String(),
		BusinessID:   actor.BusinessID,
		Key:          key,
		Label:        label,
		DefaultPrice: in.DefaultPrice,
		Position:     len(current),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.catalogRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.ToCatalogItemDTO(p)
	return &out, nil
}

// UpdateCatalogItem cambia etiqueta o precio por defecto. Las ventas históricas conservan su precio.
func (uc *BusinessUseCase) UpdateCatalogItem(ctx context.Context, actor dto.Actor, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemDTO, error) {
	p, err := uc.catalogRepo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Label != nil {
		label := strings.TrimSpace(*in.Label)
		if label == "" {
			return nil, domain.Invalid("label", "es obligatorio")
		}
		p.Label = label
	}
	if in.DefaultPrice != nil {
		if in.DefaultPrice.IsNegative() {
			return nil, domain.Invalid("precioDefault", "no puede ser negativo")
		}
		p.DefaultPrice = *in.DefaultPrice
	}
	p.UpdatedAt = uc.now()
	if err := uc.catalogRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	out := dto.ToCatalogItemDTO(p)
	return &out, nil
}

// RemoveCatalogItem baja lógica: la clave sigue existiendo para las ventas que la referencian.
func (uc *BusinessUseCase) RemoveCatalogItem(ctx context.Context, actor dto.Actor, id string) error {
	p, err := uc.catalogRepo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if !p.Active {
		return nil
	}
	p.Active = false
	p.UpdatedAt = uc.now()
	return uc.catalogRepo.Update(ctx, p)
}

// ── Inventario ──────────────────────────────────────────────────────────────

// InventoryDashboard total / en la calle / en depósito / valorización por categoría.
func (uc *BusinessUseCase) InventoryDashboard(ctx context.Context, actor dto.Actor) (dto.InventoryDashboard, error) {
	statuses, err := uc.inventoryStatus(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	return dto.ToInventoryDashboard(statuses), nil
}

func (uc *BusinessUseCase) inventoryStatus(ctx context.Context, businessID string) (map[string]inventory.CategoryStatus, error) {
	assets, err := uc.inventoryRepo.List(ctx, businessID)
	if err != nil {
		return nil, err
	}
	assigned, err := uc.customerRepo.SumDispensersAssigned(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return inventory.Valuate(assets, assigned), nil
}

// UpdateInventory actualización parcial por categoría; lo omitido conserva su valor.
func (uc *BusinessUseCase) UpdateInventory(ctx context.Context, actor dto.Actor, in dto.UpdateInventoryRequest) (dto.InventoryDashboard, error) {
	assets, err := uc.inventoryRepo.List(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]entity.InventoryAsset, len(assets))
	for _, a := range assets {
		byCategory[a.Category] = *a
	}

	updated := make([]entity.InventoryAsset, 0, len(in))
	for category, patch := range in {
		if !entity.IsAssetCategory(category) {
			return nil, domain.Invalid(category, "categoría de inventario desconocida")
		}
		cur, ok := byCategory[category]
		if !ok {
			cur = entity.InventoryAsset{BusinessID: actor.BusinessID, Category: category}
		}
		next, valid := inventory.ApplyPatch(cur, inventory.Patch{Total: patch.CantidadTotal, ReplacementCost: patch.CostoReposicion})
		if !valid {
			return nil, domain.Invalid(category, "cantidadTotal y costoReposicion no pueden ser negativos")
		}
		next.UpdatedAt = uc.now()
		updated = append(updated, next)
	}
	for i := range updated {
		if err := uc.inventoryRepo.Upsert(ctx, &updated[i]); err != nil {
			return nil, err
		}
	}
	return uc.InventoryDashboard(ctx, actor)
}

// ── Superadmin ──────────────────────────────────────────────────────────────

// ListAll lista todos los negocios (superadmin).
func (uc *BusinessUseCase) ListAll(ctx context.Context, page dto.PageRequest) ([]*dto.BusinessResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBusinessResponse(b, nil, true))
	}
	return out, nil
}

// SetSuspended activa o levanta el kill-switch de un negocio (superadmin).
func (uc *BusinessUseCase) SetSuspended(ctx context.Context, businessID string, suspended bool) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	b.Suspended = suspended
	b.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return dto.ToBusinessResponse(b, nil, true), nil
}

// IsSuspended consulta usada por el middleware de suspensión.
func (uc *BusinessUseCase) IsSuspended(ctx context.Context, businessID string) (bool, error) {
	b, err := uc.repo.GetByID(ctx, businessID)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, domain.ErrNotFound
	}
	return b.Suspended, nil
}
