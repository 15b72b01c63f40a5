package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes: alta con guard de duplicados, saldos e historial.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	saleRepo repository.SaleRepository
	phones   PhoneNormalizer
	now      func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, saleRepo repository.SaleRepository, phones PhoneNormalizer) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, saleRepo: saleRepo, phones: phones, now: time.Now}
}

// Create crea un nuevo cliente. Rechaza si otro cliente del negocio (activo o no) tiene el mismo
// teléfono o el mismo par (nombre, dirección); el error indica qué condición coincidió.
func (uc *CustomerUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre", "es obligatorio")
	}
	if in.DispensersAssigned < 0 {
		return nil, domain.Invalid("dispensersAsignados", "no puede ser negativo")
	}
	var debt entity.ContainerDebt
	if in.Debt != nil {
		debt = in.Debt.Entity()
		if debt != debt.ClampZero() {
			return nil, domain.Invalid("deuda", "los contadores no pueden ser negativos")
		}
	}
	now := uc.now()
	c := &entity.Customer{
		ID:                 uuid.New().String(),
		BusinessID:         actor.BusinessID,
		Name:               name,
		Address:            strings.TrimSpace(in.Address),
		Locality:           strings.TrimSpace(in.Locality),
		Phone:              strings.TrimSpace(in.Phone),
		Debt:               debt,
		DispensersAssigned: in.DispensersAssigned,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	c.PhoneNormalized = uc.normalizePhone(c.Phone)

	if err := uc.checkDuplicates(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, uc.explainDuplicate(ctx, c, err)
	}
	return dto.ToCustomerResponse(c, decimal.Zero), nil
}

// Get obtiene un cliente con su saldo pendiente.
func (uc *CustomerUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	balances, err := uc.saleRepo.PendingBalances(ctx, actor.BusinessID, []string{c.ID})
	if err != nil {
		return nil, err
	}
	return dto.ToCustomerResponse(c, balanceOf(balances, c.ID)), nil
}

// List lista clientes del negocio con su saldo pendiente (una sola agregación agrupada).
// activo: "" o "true" = activos, "false" = dados de baja, "todos" = ambos.
func (uc *CustomerUseCase) List(ctx context.Context, actor dto.Actor, in dto.CustomerListRequest) ([]*dto.CustomerResponse, error) {
	in.DefaultPage()
	filter := repository.CustomerFilter{
		BusinessID: actor.BusinessID,
		Search:     strings.TrimSpace(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch in.Active {
	case "", "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	case "todos":
	default:
		return nil, domain.Invalid("activo", "debe ser true, false o todos")
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	balances := map[string]decimal.Decimal{}
	if len(ids) > 0 {
		balances, err = uc.saleRepo.PendingBalances(ctx, actor.BusinessID, ids)
		if err != nil {
			return nil, err
		}
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCustomerResponse(c, balanceOf(balances, c.ID)))
	}
	return out, nil
}

// Update actualización parcial. Cambios de nombre, dirección o teléfono pasan por el guard
// de duplicados excluyendo al propio cliente. La deuda sólo se escribe si viene en el pedido
// (corrección manual); si no, queda la que dejaron las ventas.
func (uc *CustomerUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	identityChanged := false
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("nombre", "es obligatorio")
		}
		identityChanged = identityChanged || name != c.Name
		c.Name = name
	}
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		identityChanged = identityChanged || addr != c.Address
		c.Address = addr
	}
	if in.Locality != nil {
		c.Locality = strings.TrimSpace(*in.Locality)
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		norm := uc.normalizePhone(phone)
		identityChanged = identityChanged || norm != c.PhoneNormalized
		c.Phone = phone
		c.PhoneNormalized = norm
	}
	var debt *entity.ContainerDebt
	if in.Debt != nil {
		d := in.Debt.Entity()
		if d != d.ClampZero() {
			return nil, domain.Invalid("deuda", "los contadores no pueden ser negativos")
		}
		debt = &d
	}
	if in.DispensersAssigned != nil {
		if *in.DispensersAssigned < 0 {
			return nil, domain.Invalid("dispensersAsignados", "no puede ser negativo")
		}
		c.DispensersAssigned = *in.DispensersAssigned
	}
	if identityChanged {
		if err := uc.checkDuplicates(ctx, c); err != nil {
			return nil, err
		}
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, uc.explainDuplicate(ctx, c, err)
	}
	if debt != nil {
		if err := uc.repo.SetDebt(ctx, actor.BusinessID, c.ID, *debt); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, actor, c.ID)
}

// Deactivate baja lógica; el historial se conserva.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, actor dto.Actor, id string) error {
	_, err := uc.setActive(ctx, actor, id, false)
	return err
}

// Reactivate vuelve a dejar activo el mismo registro. Idempotente.
func (uc *CustomerUseCase) Reactivate(ctx context.Context, actor dto.Actor, id string) (*dto.CustomerResponse, error) {
	return uc.setActive(ctx, actor, id, true)
}

func (uc *CustomerUseCase) setActive(ctx context.Context, actor dto.Actor, id string, active bool) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if c.Active != active {
		c.Active = active
		c.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, actor, id)
}

// History ventas y cobros del cliente, más recientes primero, cada uno marcado venta/cobro.
func (uc *CustomerUseCase) History(ctx context.Context, actor dto.Actor, id string, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	if _, err := uc.load(ctx, actor.BusinessID, id); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		BusinessID: actor.BusinessID,
		CustomerID: id,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToSaleResponse(s))
	}
	return out, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *CustomerUseCase) normalizePhone(phone string) string {
	if phone == "" || uc.phones == nil {
		return phone
	}
	return uc.phones.Normalize(phone)
}

// checkDuplicates aplica el guard: teléfono (si hay) OR (nombre, dirección), sin importar si el otro está activo.
func (uc *CustomerUseCase) checkDuplicates(ctx context.Context, c *entity.Customer) error {
	matches, err := uc.repo.FindDuplicates(ctx, c.BusinessID, c.PhoneNormalized, c.Name, c.Address, c.ID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	dup := &domain.DuplicateCustomerError{ExistingID: matches[0].ID}
	byPhone, byNameAddress := false, false
	for _, m := range matches {
		if c.PhoneNormalized != "" && m.PhoneNormalized == c.PhoneNormalized {
			byPhone = true
		}
		if m.Name == c.Name && m.Address == c.Address {
			byNameAddress = true
		}
	}
	if byPhone {
		dup.Conditions = append(dup.Conditions, domain.DuplicateByPhone)
	}
	if byNameAddress {
		dup.Conditions = append(dup.Conditions, domain.DuplicateByNameAddress)
	}
	return dup
}

// explainDuplicate traduce una violación de índice único (alta concurrente) al error detallado.
func (uc *CustomerUseCase) explainDuplicate(ctx context.Context, c *entity.Customer, err error) error {
	if !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	if dupErr := uc.checkDuplicates(ctx, c); dupErr != nil {
		return dupErr
	}
	return &domain.DuplicateCustomerError{}
}

func balanceOf(m map[string]decimal.Decimal, id string) decimal.Decimal {
	if v, ok := m[id]; ok {
		return v
	}
	return decimal.Zero
}
