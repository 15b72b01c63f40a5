package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
)

func customer(businessID, name, address, phone string) *entity.Customer {
	return &entity.Customer{
		ID:              uuid.NewString(),
		BusinessID:      businessID,
		Name:            name,
		Address:         address,
		PhoneNormalized: phone,
		Active:          true,
	}
}

func TestTxRunner_RollbackRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	businessID := uuid.NewString()
	c := customer(businessID, "Ana", "Mitre 1", "")
	require.NoError(t, memory.NewCustomerRepository(store).Create(ctx, c))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).RunSales(ctx, func(customers repository.CustomerRepository, sales repository.SaleRepository) error {
		_, err := customers.AdjustDebt(ctx, businessID, c.ID, entity.ContainerDebt{Bidones20L: 5})
		require.NoError(t, err)
		require.NoError(t, sales.Create(ctx, &entity.Sale{ID: uuid.NewString(), BusinessID: businessID, CustomerID: c.ID, Date: time.Now()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := memory.NewCustomerRepository(store).GetByID(ctx, businessID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Debt.Bidones20L)
	list, err := memory.NewSaleRepository(store).List(ctx, repository.SaleFilter{BusinessID: businessID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxRunner_LecturasFueraDeTxEsperanElRollback(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewCustomerRepository(store)
	businessID := uuid.NewString()
	c := customer(businessID, "Ana", "Mitre 1", "")
	require.NoError(t, repo.Create(ctx, c))

	boom := errors.New("boom")
	entered, release := make(chan struct{}), make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- memory.NewTxRunner(store).RunSales(ctx, func(customers repository.CustomerRepository, _ repository.SaleRepository) error {
			if _, err := customers.AdjustDebt(ctx, businessID, c.ID, entity.ContainerDebt{Bidones20L: 5}); err != nil {
				return err
			}
			close(entered)
			<-release
			return boom
		})
	}()
	<-entered

	read := make(chan int, 1)
	go func() {
		got, err := repo.GetByID(ctx, businessID, c.ID)
		if err != nil || got == nil {
			read <- -1
			return
		}
		read <- got.Debt.Bidones20L
	}()
	select {
	case v := <-read:
		t.Fatalf("la lectura no esperó a la tx: bidones_20L = %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-done, boom)
	assert.Equal(t, 0, <-read)
}

func TestCustomerRepo_UpdateNoPisaLaDeuda(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository(memory.NewStore())
	businessID := uuid.NewString()
	c := customer(businessID, "Ana", "Mitre 1", "")
	require.NoError(t, repo.Create(ctx, c))

	stale, err := repo.GetByID(ctx, businessID, c.ID)
	require.NoError(t, err)
	_, err = repo.AdjustDebt(ctx, businessID, c.ID, entity.ContainerDebt{Bidones20L: 2, Sodas: 1})
	require.NoError(t, err)

	stale.Name = "Ana María"
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.GetByID(ctx, businessID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, entity.ContainerDebt{Bidones20L: 2, Sodas: 1}, got.Debt)

	require.NoError(t, repo.SetDebt(ctx, businessID, c.ID, entity.ContainerDebt{Bidones12L: 4}))
	got, err = repo.GetByID(ctx, businessID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContainerDebt{Bidones12L: 4}, got.Debt)

	assert.ErrorIs(t, repo.SetDebt(ctx, uuid.NewString(), c.ID, entity.ContainerDebt{}), domain.ErrNotFound)
}

func TestCustomerRepo_RestriccionesUnicas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository(memory.NewStore())
	businessID := uuid.NewString()
	require.NoError(t, repo.Create(ctx, customer(businessID, "Ana", "Mitre 1", "+5491122334455")))

	assert.ErrorIs(t, repo.Create(ctx, customer(businessID, "Otra", "Otra 2", "+5491122334455")), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, customer(businessID, "Ana", "Mitre 1", "")), domain.ErrDuplicate)
	assert.NoError(t, repo.Create(ctx, customer(uuid.NewString(), "Ana", "Mitre 1", "+5491122334455")))

	dups, err := repo.FindDuplicates(ctx, businessID, "+5491122334455", "Ana", "Mitre 1", "")
	require.NoError(t, err)
	assert.Len(t, dups, 1)
}

func TestSaleRepo_SaldosYPendientesFIFO(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSaleRepository(memory.NewStore())
	businessID, customerID := uuid.NewString(), uuid.NewString()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	add := func(date time.Time, total, paid int64, items bool) *entity.Sale {
		s := &entity.Sale{
			ID:              uuid.NewString(),
			BusinessID:      businessID,
			CustomerID:      customerID,
			Date:            date,
			Total:           decimal.NewFromInt(total),
			AmountPaid:      decimal.NewFromInt(paid),
			AmountCollected: decimal.Zero,
			CreatedAt:       date,
		}
		if items {
			s.Items = []entity.SaleItem{{Product: entity.ProductSoda, Quantity: 1}}
		}
		require.NoError(t, repo.Create(ctx, s))
		return s
	}
	newer := add(base.AddDate(0, 0, 3), 1000, 0, true)
	older := add(base, 2000, 500, true)
	add(base.AddDate(0, 0, 1), 3000, 3000, true)
	add(base.AddDate(0, 0, 4), 0, 700, false)

	pending, err := repo.ListPendingByCustomer(ctx, businessID, customerID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, older.ID, pending[0].ID)
	assert.Equal(t, newer.ID, pending[1].ID)

	require.NoError(t, repo.AddCollected(ctx, older.ID, decimal.NewFromInt(1500)))
	balances, err := repo.PendingBalances(ctx, businessID, nil)
	require.NoError(t, err)
	assert.True(t, balances[customerID].Equal(decimal.NewFromInt(1000)), balances[customerID].String())
}
