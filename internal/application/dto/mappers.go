package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/inventory"
)

// ToUserResponse convierte un usuario de dominio (sin password).
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
}

// ToBusinessResponse convierte un negocio; el código de vinculación solo se expone a admins.
func ToBusinessResponse(b *entity.Business, catalog []*entity.CatalogProduct, withLinkCode bool) *BusinessResponse {
	if b == nil {
		return nil
	}
	out := &BusinessResponse{
		ID:             b.ID,
		Name:           b.Name,
		Suspended:      b.Suspended,
		Phone:          b.Phone,
		Email:          b.Email,
		Address:        b.Address,
		OnboardingDone: b.OnboardingDone,
		CreatedAt:      b.CreatedAt,
	}
	if withLinkCode {
		out.LinkCode = b.LinkCode
	}
	for _, p := range catalog {
		out.Catalog = append(out.Catalog, ToCatalogItemDTO(p))
	}
	return out
}

// ToCatalogItemDTO convierte un producto del catálogo.
func ToCatalogItemDTO(p *entity.CatalogProduct) CatalogItemDTO {
	return CatalogItemDTO{
		ID:           p.ID,
		Key:          p.Key,
		Label:        p.Label,
		DefaultPrice: p.DefaultPrice,
		Active:       p.Active,
	}
}

// ToInventoryDashboard convierte la valorización de dominio al contrato del frontend.
func ToInventoryDashboard(statuses map[string]inventory.CategoryStatus) InventoryDashboard {
	out := make(InventoryDashboard, len(statuses))
	for category, s := range statuses {
		out[category] = InventoryCategoryDTO{
			Total:           s.Total,
			EnCalle:         s.InField,
			EnDeposito:      s.InDepot,
			CostoReposicion: s.ReplacementCost,
			Valorizacion:    s.Valuation,
		}
	}
	return out
}

// ToCustomerResponse convierte un cliente con su saldo pendiente ya calculado.
func ToCustomerResponse(c *entity.Customer, pending decimal.Decimal) *CustomerResponse {
	return &CustomerResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Address:            c.Address,
		Locality:           c.Locality,
		Phone:              c.Phone,
		Debt:               ToDebtDTO(c.Debt),
		DispensersAssigned: c.DispensersAssigned,
		Active:             c.Active,
		PendingBalance:     pending,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ToSaleResponse convierte una venta; tipo "cobro" si no tiene líneas.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	out := &SaleResponse{
		ID:              s.ID,
		CustomerID:      s.CustomerID,
		Date:            s.Date,
		Type:            SaleTypeSale,
		Items:           make([]SaleItemDTO, 0, len(s.Items)),
		Discount:        s.Discount,
		Total:           s.Total,
		PaymentMethod:   s.PaymentMethod,
		AmountPaid:      s.AmountPaid,
		AmountCollected: s.AmountCollected,
		PendingBalance:  s.PendingBalance(),
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
	if s.IsCollection() {
		out.Type = SaleTypeCollection
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemDTO{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}

// ToExpenseResponse convierte un gasto.
func ToExpenseResponse(e *entity.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:        e.ID,
		Date:      e.Date,
		Concept:   e.Concept,
		Amount:    e.Amount,
		RefillID:  e.RefillID,
		CreatedAt: e.CreatedAt,
	}
}

// ToRefillResponse convierte un llenado con el id de su gasto (vacío si no tiene).
func ToRefillResponse(r *entity.Refill, expenseID string) *RefillResponse {
	out := &RefillResponse{
		ID:        r.ID,
		Date:      r.Date,
		Items:     make([]RefillItemDTO, 0, len(r.Items)),
		Total:     r.Total,
		ExpenseID: expenseID,
		CreatedAt: r.CreatedAt,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, RefillItemDTO{
			Product:  it.Product,
			Quantity: it.Quantity,
			UnitCost: it.UnitCost,
			Subtotal: it.Subtotal,
		})
	}
	return out
}
