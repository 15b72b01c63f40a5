package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/ledger"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// allocate aplica amount del cobro collectionID a las ventas con saldo del cliente, más antiguas primero.
// Lo que no encuentra saldo queda sin aplicar (no se lleva saldo a favor).
func allocate(ctx context.Context, saleRepo repository.SaleRepository, businessID, customerID, collectionID string, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return nil
	}
	pending, err := saleRepo.ListPendingByCustomer(ctx, businessID, customerID)
	if err != nil {
		return err
	}
	allocs, _ := ledger.Allocate(amount, pending)
	if len(allocs) == 0 {
		return nil
	}
	rows := make([]entity.PaymentAllocation, 0, len(allocs))
	for _, a := range allocs {
		if err := saleRepo.AddCollected(ctx, a.SaleID, a.Amount); err != nil {
			return err
		}
		rows = append(rows, entity.PaymentAllocation{
			CollectionID: collectionID,
			SaleID:       a.SaleID,
			Amount:       a.Amount,
			CreatedAt:    now,
		})
	}
	return saleRepo.CreateAllocations(ctx, rows)
}

// releaseCollection deshace todas las asignaciones de un cobro.
func releaseCollection(ctx context.Context, saleRepo repository.SaleRepository, collectionID string) error {
	allocs, err := saleRepo.AllocationsByCollection(ctx, collectionID)
	if err != nil {
		return err
	}
	for _, a := range allocs {
		if err := saleRepo.AddCollected(ctx, a.SaleID, a.Amount.Neg()); err != nil {
			return err
		}
	}
	if len(allocs) == 0 {
		return nil
	}
	return saleRepo.DeleteAllocationsByCollection(ctx, collectionID)
}

// releaseSale quita de una venta todo lo que le habían aplicado cobros y devuelve esas porciones.
func releaseSale(ctx context.Context, saleRepo repository.SaleRepository, saleID string) ([]entity.PaymentAllocation, error) {
	allocs, err := saleRepo.AllocationsBySale(ctx, saleID)
	if err != nil || len(allocs) == 0 {
		return nil, err
	}
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Amount)
	}
	if err := saleRepo.AddCollected(ctx, saleID, sum.Neg()); err != nil {
		return nil, err
	}
	if err := saleRepo.DeleteAllocationsBySale(ctx, saleID); err != nil {
		return nil, err
	}
	return allocs, nil
}

// reapply vuelve a aplicar porciones liberadas, cada una desde su cobro de origen.
func reapply(ctx context.Context, saleRepo repository.SaleRepository, businessID, customerID string, freed []entity.PaymentAllocation, now time.Time) error {
	for _, a := range freed {
		if err := allocate(ctx, saleRepo, businessID, customerID, a.CollectionID, a.Amount, now); err != nil {
			return err
		}
	}
	return nil
}
