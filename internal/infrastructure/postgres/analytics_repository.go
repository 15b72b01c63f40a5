package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesMetrics totales del período. Cobrado = montos pagados al registrar (ventas y cobros);
// la cantidad por método cuenta ambas operaciones.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, businessID string, from, to time.Time) (*repository.SalesMetrics, error) {
	const totalsQuery = `
	SELECT
	    COALESCE(SUM(total) FILTER (WHERE NOT is_collection), 0) AS sales_total,
	    COALESCE(SUM(amount_paid), 0)                            AS cash_collected,
	    COUNT(*) FILTER (WHERE NOT is_collection)                AS sales_count,
	    COUNT(*) FILTER (WHERE is_collection)                    AS collections
	FROM sales
	WHERE business_id = $1
	  AND date BETWEEN $2 AND $3`

	m := &repository.SalesMetrics{ByMethod: map[string]int{}}
	if err := r.pool.QueryRow(ctx, totalsQuery, businessID, from, to).Scan(
		&m.SalesTotal, &m.CashCollected, &m.SalesCount, &m.Collections,
	); err != nil {
		return nil, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}

	const byMethodQuery = `
	SELECT payment_method, COUNT(*)
	FROM sales
	WHERE business_id = $1
	  AND date BETWEEN $2 AND $3
	GROUP BY payment_method`

	rows, err := r.pool.Query(ctx, byMethodQuery, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSalesMetrics: por método: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("analytics.GetSalesMetrics scan: %w", err)
		}
		m.ByMethod[method] = n
	}
	return m, rows.Err()
}

// GetExpensesTotal suma de gastos del período.
func (r *AnalyticsRepo) GetExpensesTotal(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
	SELECT COALESCE(SUM(amount), 0)
	FROM expenses
	WHERE business_id = $1
	  AND date BETWEEN $2 AND $3`, businessID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetExpensesTotal: %w", err)
	}
	return total, nil
}

// GetDebtMetrics saldo pendiente total, clientes con saldo y envases adeudados.
func (r *AnalyticsRepo) GetDebtMetrics(ctx context.Context, businessID string) (*repository.DebtMetrics, error) {
	const query = `
	WITH pending AS (
	    SELECT customer_id, SUM(GREATEST(0, total - amount_paid - amount_collected)) AS amount
	    FROM sales
	    WHERE business_id = $1 AND NOT is_collection
	    GROUP BY customer_id
	    HAVING SUM(GREATEST(0, total - amount_paid - amount_collected)) > 0
	)
	SELECT
	    (SELECT COALESCE(SUM(amount), 0) FROM pending)           AS pending_total,
	    (SELECT COUNT(*) FROM pending)                           AS customers_with_debt,
	    COALESCE(SUM(c.debt_20l), 0)::int                        AS debt_20l,
	    COALESCE(SUM(c.debt_12l), 0)::int                        AS debt_12l,
	    COALESCE(SUM(c.debt_sodas), 0)::int                      AS debt_sodas
	FROM customers c
	WHERE c.business_id = $1`

	m := &repository.DebtMetrics{}
	if err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&m.PendingTotal, &m.CustomersWithDebt,
		&m.Containers.Bidones20L, &m.Containers.Bidones12L, &m.Containers.Sodas,
	); err != nil {
		return nil, fmt.Errorf("analytics.GetDebtMetrics: %w", err)
	}
	return m, nil
}
