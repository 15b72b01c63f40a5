// Package sales contiene el alta, edición y anulación de ventas y cobros, manteniendo la
// deuda de envases del cliente y la aplicación de cobros sobre ventas con saldo.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/ledger"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	tx          TxRunner
	saleRepo    repository.SaleRepository
	catalogRepo repository.CatalogRepository
	observer    Observer
	now         func() time.Time
}

// NewUseCase construye el caso de uso. observer puede ser nil.
func NewUseCase(tx TxRunner, saleRepo repository.SaleRepository, catalogRepo repository.CatalogRepository, observer Observer) *UseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &UseCase{tx: tx, saleRepo: saleRepo, catalogRepo: catalogRepo, observer: observer, now: time.Now}
}

// Create registra una venta (o un cobro si no tiene líneas).
// Venta: suma los envases a la deuda del cliente, sin importar el método de pago.
// Cobro: no toca la deuda de envases; su monto se aplica a las ventas con saldo más antiguas.
func (uc *UseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateSaleRequest) (*dto.SaleResultResponse, error) {
	now := uc.now()
	date, err := dto.ParseDate("fecha", in.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		date = &now
	}
	if err := uc.checkProducts(ctx, actor.BusinessID, in.Items, nil); err != nil {
		return nil, err
	}
	items, total, err := ledger.BuildItems(toLines(in.Items), in.Discount)
	if err != nil {
		return nil, err
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}
	paid, err := resolveAmountPaid(len(items) == 0, method, total, in.AmountPaid, nil)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:              uuid.New().String(),
		BusinessID:      actor.BusinessID,
		CustomerID:      in.CustomerID,
		Date:            *date,
		Items:           items,
		Discount:        in.Discount,
		Total:           total,
		PaymentMethod:   method,
		AmountPaid:      paid,
		AmountCollected: decimal.Zero,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var debt entity.ContainerDebt
	err = uc.tx.RunSales(ctx, func(customerRepo repository.CustomerRepository, saleRepo repository.SaleRepository) error {
		customer, err := customerRepo.GetByID(ctx, actor.BusinessID, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		if sale.IsCollection() {
			debt = customer.Debt
			return allocate(ctx, saleRepo, sale.BusinessID, sale.CustomerID, sale.ID, sale.AmountPaid, now)
		}
		d, err := adjustDebt(ctx, customerRepo, customer, ledger.Delta(nil, sale.Items))
		if err != nil {
			return err
		}
		debt = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observer.SaleRecorded(kindOf(sale), sale.Total, sale.AmountPaid)
	return &dto.SaleResultResponse{Sale: *dto.ToSaleResponse(sale), CustomerDebt: dto.ToDebtDTO(debt)}, nil
}

// Update edita una venta en el lugar. La deuda de envases cambia exactamente en
// (líneas nuevas - líneas viejas). No se puede convertir un cobro en venta ni al revés.
func (uc *UseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateSaleRequest) (*dto.SaleResultResponse, error) {
	now := uc.now()
	var date *time.Time
	if in.Date != nil {
		d, err := dto.ParseDate("fecha", *in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	if in.PaymentMethod != nil && !entity.IsPaymentMethod(*in.PaymentMethod) {
		return nil, domain.Invalid("metodo_pago", "debe ser efectivo, fiado o transferencia")
	}

	// El catálogo se valida antes de abrir la tx.
	current, err := uc.saleRepo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if in.Items != nil {
		if err := uc.checkProducts(ctx, actor.BusinessID, in.Items, current.Items); err != nil {
			return nil, err
		}
	}

	var (
		sale *entity.Sale
		debt entity.ContainerDebt
	)
	err = uc.tx.RunSales(ctx, func(customerRepo repository.CustomerRepository, saleRepo repository.SaleRepository) error {
		s, err := saleRepo.GetByID(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		oldItems := s.Items
		wasCollection := s.IsCollection()

		items := s.Items
		discount := s.Discount
		if in.Discount != nil {
			discount = *in.Discount
		}
		if in.Items != nil {
			if wasCollection && len(in.Items) > 0 {
				return domain.Invalid("items", "un cobro no puede convertirse en venta; anular y registrar de nuevo")
			}
			if !wasCollection && len(in.Items) == 0 {
				return domain.Invalid("items", "una venta no puede quedar sin productos; anularla y registrar un cobro")
			}
		}
		lines := itemsToLines(items)
		if in.Items != nil {
			lines = toLines(in.Items)
		}
		newItems, total, err := ledger.BuildItems(lines, discount)
		if err != nil {
			return err
		}

		method := s.PaymentMethod
		if in.PaymentMethod != nil {
			method = *in.PaymentMethod
		}
		var keep *decimal.Decimal
		if method == s.PaymentMethod || wasCollection {
			keep = &s.AmountPaid
		}
		paid, err := resolveAmountPaid(wasCollection, method, total, in.AmountPaid, keep)
		if err != nil {
			return err
		}

		// Liberar lo aplicado antes de reescribir importes; se vuelve a aplicar al final.
		var freed []entity.PaymentAllocation
		if wasCollection {
			if err := releaseCollection(ctx, saleRepo, s.ID); err != nil {
				return err
			}
		} else {
			freed, err = releaseSale(ctx, saleRepo, s.ID)
			if err != nil {
				return err
			}
		}

		if date != nil {
			s.Date = *date
		}
		s.Items = newItems
		s.Discount = discount
		s.Total = total
		s.PaymentMethod = method
		s.AmountPaid = paid
		s.AmountCollected = decimal.Zero
		s.UpdatedAt = now
		if err := saleRepo.Update(ctx, s); err != nil {
			return err
		}

		customer, err := customerRepo.GetByID(ctx, actor.BusinessID, s.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		debt, err = adjustDebt(ctx, customerRepo, customer, ledger.Delta(oldItems, newItems))
		if err != nil {
			return err
		}

		if wasCollection {
			if err := allocate(ctx, saleRepo, s.BusinessID, s.CustomerID, s.ID, s.AmountPaid, now); err != nil {
				return err
			}
		} else if err := reapply(ctx, saleRepo, s.BusinessID, s.CustomerID, freed, now); err != nil {
			return err
		}

		// Releer para devolver el monto cobrado ya recalculado.
		sale, err = saleRepo.GetByID(ctx, actor.BusinessID, s.ID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("sales: venta %s desapareció dentro de la tx", s.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SaleResultResponse{Sale: *dto.ToSaleResponse(sale), CustomerDebt: dto.ToDebtDTO(debt)}, nil
}

// Void anula (borra) una venta y revierte su efecto: resta los envases de la deuda del cliente
// con piso en cero y reaplica a otras ventas lo que se le había cobrado. Anular un cobro
// devuelve el saldo a las ventas sobre las que se había aplicado.
func (uc *UseCase) Void(ctx context.Context, actor dto.Actor, id string) (*dto.DebtDTO, error) {
	now := uc.now()
	var (
		kind string
		debt entity.ContainerDebt
	)
	err := uc.tx.RunSales(ctx, func(customerRepo repository.CustomerRepository, saleRepo repository.SaleRepository) error {
		s, err := saleRepo.GetByID(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		kind = kindOf(s)

		if s.IsCollection() {
			if err := releaseCollection(ctx, saleRepo, s.ID); err != nil {
				return err
			}
			if err := saleRepo.Delete(ctx, actor.BusinessID, s.ID); err != nil {
				return err
			}
			customer, err := customerRepo.GetByID(ctx, actor.BusinessID, s.CustomerID)
			if err != nil {
				return err
			}
			if customer != nil {
				debt = customer.Debt
			}
			return nil
		}

		freed, err := releaseSale(ctx, saleRepo, s.ID)
		if err != nil {
			return err
		}
		if err := saleRepo.Delete(ctx, actor.BusinessID, s.ID); err != nil {
			return err
		}
		customer, err := customerRepo.GetByID(ctx, actor.BusinessID, s.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		debt, err = adjustDebt(ctx, customerRepo, customer, ledger.Delta(s.Items, nil))
		if err != nil {
			return err
		}
		return reapply(ctx, saleRepo, s.BusinessID, s.CustomerID, freed, now)
	})
	if err != nil {
		return nil, err
	}
	uc.observer.SaleVoided(kind)
	out := dto.ToDebtDTO(debt)
	return &out, nil
}

// Get obtiene una venta del negocio.
func (uc *UseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToSaleResponse(s), nil
}

// List lista ventas y cobros del negocio, más recientes primero.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, in dto.SaleListRequest) ([]*dto.SaleResponse, error) {
	in.DefaultPage()
	from, err := dto.ParseDate("desde", in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate("hasta", in.To)
	if err != nil {
		return nil, err
	}
	if to != nil {
		end := dto.EndOfDay(*to)
		to = &end
	}
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		BusinessID: actor.BusinessID,
		CustomerID: in.CustomerID,
		From:       from,
		To:         to,
		Limit:      in.Limit,
		Offset:     in.Offset,
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

// checkProducts exige que cada producto nuevo exista activo en el catálogo del negocio.
// Los productos que ya estaban en la venta se aceptan aunque se hayan dado de baja.
func (uc *UseCase) checkProducts(ctx context.Context, businessID string, items []dto.SaleItemRequest, previous []entity.SaleItem) error {
	if uc.catalogRepo == nil || len(items) == 0 {
		return nil
	}
	catalog, err := uc.catalogRepo.List(ctx, businessID, false)
	if err != nil {
		return err
	}
	for _, it := range items {
		if inItems(it.Product, previous) {
			continue
		}
		found := false
		for _, p := range catalog {
			if ledger.SameProduct(it.Product, p.Key) || ledger.SameProduct(it.Product, p.Label) {
				found = true
				break
			}
		}
		if !found {
			return domain.Invalid("producto", fmt.Sprintf("%q no está en el catálogo", it.Product))
		}
	}
	return nil
}

func inItems(product string, items []entity.SaleItem) bool {
	for _, it := range items {
		if ledger.SameProduct(product, it.Product) {
			return true
		}
	}
	return false
}

// resolveAmountPaid decide el monto pagado. Sin valor explícito usa keep (edición sin cambio
// de método) o el valor por defecto del método. Un cobro exige un monto positivo y no puede ser fiado.
func resolveAmountPaid(collection bool, method string, total decimal.Decimal, given, keep *decimal.Decimal) (decimal.Decimal, error) {
	if !entity.IsPaymentMethod(method) {
		return decimal.Zero, domain.Invalid("metodo_pago", "debe ser efectivo, fiado o transferencia")
	}
	if collection {
		if method == entity.PaymentCredit {
			return decimal.Zero, domain.Invalid("metodo_pago", "un cobro no puede ser fiado")
		}
		paid := decimal.Zero
		switch {
		case given != nil:
			paid = *given
		case keep != nil:
			paid = *keep
		}
		if !paid.IsPositive() {
			return decimal.Zero, domain.Invalid("monto_pagado", "un cobro debe tener un monto mayor a cero")
		}
		return paid, nil
	}
	var paid decimal.Decimal
	switch {
	case given != nil:
		paid = *given
	case keep != nil:
		paid = *keep
	default:
		paid = ledger.DefaultAmountPaid(method, total)
	}
	if paid.IsNegative() {
		return decimal.Zero, domain.Invalid("monto_pagado", "no puede ser negativo")
	}
	return paid, nil
}

func adjustDebt(ctx context.Context, repo repository.CustomerRepository, c *entity.Customer, delta entity.ContainerDebt) (entity.ContainerDebt, error) {
	if delta.IsZero() {
		return c.Debt, nil
	}
	d, err := repo.AdjustDebt(ctx, c.BusinessID, c.ID, delta)
	if err != nil {
		return entity.ContainerDebt{}, err
	}
	if d == nil {
		return entity.ContainerDebt{}, domain.ErrNotFound
	}
	return *d, nil
}

func kindOf(s *entity.Sale) string {
	if s.IsCollection() {
		return dto.SaleTypeCollection
	}
	return dto.SaleTypeSale
}

func toLines(items []dto.SaleItemRequest) []ledger.LineInput {
	out := make([]ledger.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, ledger.LineInput{Product: it.Product, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}

func itemsToLines(items []entity.SaleItem) []ledger.LineInput {
	out := make([]ledger.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, ledger.LineInput{Product: it.Product, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}
