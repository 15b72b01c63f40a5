// Package metrics expone métricas Prometheus: HTTP y eventos de ventas.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/sales"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reparto_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reparto_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	salesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reparto_sales_recorded_total",
		Help: "Sales and collections recorded, by kind (venta|cobro)",
	}, []string{"kind"})

	salesAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reparto_sales_amount_total",
		Help: "Accumulated money of recorded operations, by field (total|pagado)",
	}, []string{"field"})

	salesVoided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reparto_sales_voided_total",
		Help: "Voided sales and collections, by kind",
	}, []string{"kind"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Middleware mide cada request usando la ruta registrada (no la URL cruda) como label.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		ObserveHTTPRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))
		return err
	}
}

var _ sales.Observer = SalesObserver{}

// SalesObserver implementa sales.Observer sobre los contadores de Prometheus.
type SalesObserver struct{}

// SaleRecorded cuenta la operación y suma sus montos.
func (SalesObserver) SaleRecorded(kind string, total, paid decimal.Decimal) {
	salesRecorded.WithLabelValues(kind).Inc()
	salesAmount.WithLabelValues("total").Add(total.InexactFloat64())
	salesAmount.WithLabelValues("pagado").Add(paid.InexactFloat64())
}

// SaleVoided cuenta una anulación.
func (SalesObserver) SaleVoided(kind string) {
	salesVoided.WithLabelValues(kind).Inc()
}
